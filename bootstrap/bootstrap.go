// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/candlepin/apiclient"
	"github.com/candlepin/apiclient/config"
	"github.com/candlepin/apiclient/consumers"
	"github.com/sirupsen/logrus"
)

// ErrCertificatesStillEmpty is returned when the certificate listing is
// still empty after an upload.
var ErrCertificatesStillEmpty = errors.New("certificate listing still empty after upload")

// Bootstrapper prepares server state for a test: a certificate on the
// service and a freshly registered consumer.
type Bootstrapper struct {
	API    *apiclient.API
	Config *config.Config
	Gate   *UploadGate
	Logger logrus.FieldLogger
}

type Option func(*Bootstrapper)

// WithAPI replaces the API built from the configuration.
func WithAPI(api *apiclient.API) Option {
	return func(o *Bootstrapper) { o.API = api }
}

// WithGate replaces ProcessGate.
func WithGate(g *UploadGate) Option {
	return func(o *Bootstrapper) { o.Gate = g }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Bootstrapper) { o.Logger = l }
}

// New returns a Bootstrapper for cfg. A nil cfg means config.Default().
func New(cfg *config.Config, opts ...Option) (*Bootstrapper, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	b := &Bootstrapper{
		Config: cfg,
		Gate:   ProcessGate,
		Logger: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.Logger == nil {
		b.Logger = logrus.StandardLogger()
	}

	if b.API == nil {
		api, err := apiclient.NewAPI(cfg, b.Logger)
		if err != nil {
			return nil, err
		}
		b.API = api
	}

	return b, nil
}

// Run ensures the certificate prerequisite and registers a consumer,
// returning its uuid.
func (o *Bootstrapper) Run() (string, error) {
	if err := o.EnsureCertificateUploaded(); err != nil {
		return "", err
	}

	return o.CreateConsumer()
}

// EnsureCertificateUploaded uploads the configured certificate file unless
// the service already lists a certificate.
func (o *Bootstrapper) EnsureCertificateUploaded() error {
	if o.Gate != nil && o.Gate.Done() {
		o.Logger.Debug("certificate already ensured by this process")
		return nil
	}

	listing, err := o.API.Certificates.List()
	if err != nil {
		return fmt.Errorf("listing certificates: %w", err)
	}

	if isEmptyListing(listing) {
		o.Logger.Info("certificate upload required")

		path := o.Config.CertificateFile()

		cert, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading certificate: %w", err)
		}

		if err := o.API.Certificates.Upload(cert, o.Config.Certificate.Payload); err != nil {
			return fmt.Errorf("uploading certificate %s: %w", path, err)
		}

		listing, err = o.API.Certificates.List()
		if err != nil {
			return fmt.Errorf("listing certificates: %w", err)
		}

		if len(bytes.TrimSpace(listing)) == 0 {
			return fmt.Errorf("%w: %q", ErrCertificatesStillEmpty, string(bytes.TrimSpace(listing)))
		}

		o.Logger.WithField("path", path).Info("certificate uploaded")
	}

	if o.Gate != nil {
		o.Gate.Mark()
	}

	return nil
}

// CreateConsumer registers a new consumer with the configured credentials,
// name and facts and returns its uuid.
func (o *Bootstrapper) CreateConsumer() (string, error) {
	c := o.Config.Consumer

	consumer, err := o.API.RegisterConsumer(c.Username, c.Password, c.Name, consumers.Facts(c.Facts))
	if err != nil {
		return "", fmt.Errorf("registering consumer %q: %w", c.Name, err)
	}

	o.Logger.WithFields(logrus.Fields{
		"uuid": consumer.UUID,
		"name": consumer.Name,
	}).Info("consumer registered")

	return consumer.UUID, nil
}

// DeleteConsumer deregisters the consumer with the given uuid.
func (o *Bootstrapper) DeleteConsumer(id string) error {
	if err := o.API.Consumers.Delete(id); err != nil {
		return fmt.Errorf("deleting consumer %s: %w", id, err)
	}

	o.Logger.WithField("uuid", id).Info("consumer deleted")

	return nil
}

// isEmptyListing reports whether the body is empty or a JSON value that
// carries nothing: null, false, 0, "", [] or {}. A whitespace-only body is
// not empty.
func isEmptyListing(body []byte) bool {
	if len(body) == 0 {
		return true
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return false
	}

	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}

	return false
}
