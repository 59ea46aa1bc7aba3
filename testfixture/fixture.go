// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package testfixture

import (
	"errors"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/candlepin/apiclient/bootstrap"
	"github.com/candlepin/apiclient/config"
	"github.com/stretchr/testify/assert"
)

// Fixture is the per-test state produced by Setup.
type Fixture struct {
	Bootstrapper *bootstrap.Bootstrapper
	// UUID identifies the consumer registered for this test.
	UUID string
}

type options struct {
	config    *config.Config
	bootstrap []bootstrap.Option
	cleanup   bool
}

type Option func(*options)

// WithConfig replaces config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithBootstrapOptions forwards opts to bootstrap.New.
func WithBootstrapOptions(opts ...bootstrap.Option) Option {
	return func(o *options) { o.bootstrap = append(o.bootstrap, opts...) }
}

// WithCleanup deregisters the consumer when the test finishes.
func WithCleanup() Option {
	return func(o *options) { o.cleanup = true }
}

// Setup ensures a certificate is present on the service and registers a
// consumer for the calling test. A relative certificate path with no base
// directory configured is resolved against the parent of the directory
// holding the calling test file.
func Setup(t testing.TB, opts ...Option) *Fixture {
	t.Helper()

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := config.Default()
	if o.config != nil {
		c := *o.config
		cfg = &c
	}

	if cfg.Certificate.BaseDir == "" && !filepath.IsAbs(cfg.Certificate.Path) {
		if _, file, _, ok := runtime.Caller(1); ok {
			cfg.Certificate.BaseDir = filepath.Join(filepath.Dir(file), "..")
		}
	}

	b, err := bootstrap.New(cfg, o.bootstrap...)
	if err != nil {
		t.Fatalf("setup error: %v", err)
	}

	if err := b.EnsureCertificateUploaded(); err != nil {
		fatal(t, err)
	}

	id, err := b.CreateConsumer()
	if err != nil {
		fatal(t, err)
	}

	if o.cleanup || cfg.Consumer.Cleanup {
		t.Cleanup(func() {
			if err := b.DeleteConsumer(id); err != nil {
				t.Errorf("cleanup error: %v", err)
			}
		})
	}

	return &Fixture{Bootstrapper: b, UUID: id}
}

func fatal(t testing.TB, err error) {
	t.Helper()

	if errors.Is(err, bootstrap.ErrCertificatesStillEmpty) {
		t.Fatalf("assertion failed: %v", err)
	}

	t.Fatalf("setup error: %v", err)
}

// AssertExpectedStatus fails t unless res carries the expected status code.
func AssertExpectedStatus(t assert.TestingT, expected int, res *http.Response) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	if !assert.NotNil(t, res, "no response") {
		return false
	}

	if res.StatusCode == expected {
		return true
	}

	return assert.Fail(t, "unexpected response status",
		"Status: %d Reason: %s", res.StatusCode, Reason(res))
}

// Reason is the reason phrase of res, "Not Found" for "404 Not Found".
func Reason(res *http.Response) string {
	if _, reason, ok := strings.Cut(res.Status, " "); ok && reason != "" {
		return reason
	}

	return http.StatusText(res.StatusCode)
}
