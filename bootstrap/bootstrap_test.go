// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/candlepin/apiclient"
	"github.com/candlepin/apiclient/certificates"
	"github.com/candlepin/apiclient/common"
	"github.com/candlepin/apiclient/config"
	"github.com/candlepin/apiclient/internal/fakecp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCert = []byte("-----BEGIN CERTIFICATE-----\nspacewalk-public\n-----END CERTIFICATE-----\n")

const (
	listRequest   = "GET /candlepin/certificates"
	uploadRequest = "POST /candlepin/certificates"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testBootstrapper(t *testing.T, fake *fakecp.Server) *Bootstrapper {
	t.Helper()

	srv := fake.Start()
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	certPath := filepath.Join(dir, "code", "scripts", "spacewalk-public.cert")
	require.NoError(t, os.MkdirAll(filepath.Dir(certPath), 0o755))
	require.NoError(t, os.WriteFile(certPath, testCert, 0o600))

	cfg := config.Default()
	cfg.Certificate.BaseDir = dir

	client := common.NewClient(nil)
	client.Logger = quietLogger()

	api, err := apiclient.NewAPIWithClient(srv.URL+"/candlepin", client)
	require.NoError(t, err)

	b, err := New(cfg, WithAPI(api), WithGate(&UploadGate{}), WithLogger(quietLogger()))
	require.NoError(t, err)

	return b
}

func TestBootstrapper_EnsureCertificateUploaded_upload(t *testing.T) {
	fake := fakecp.New()
	b := testBootstrapper(t, fake)

	require.NoError(t, b.EnsureCertificateUploaded())

	certs := fake.Certificates()
	require.Len(t, certs, 1)
	assert.Equal(t, certificates.Encode(testCert), certs[0].Base64Cert)
	assert.Equal(t, 1, fake.Count(uploadRequest))
	assert.Equal(t, 2, fake.Count(listRequest))
	assert.True(t, b.Gate.Done())

	listing, err := b.API.Certificates.List()
	require.NoError(t, err)
	assert.NotEmpty(t, string(listing))
}

func TestBootstrapper_EnsureCertificateUploaded_wrapped_payload(t *testing.T) {
	fake := fakecp.New()
	b := testBootstrapper(t, fake)
	b.Config.Certificate.Payload = config.PayloadWrapped

	require.NoError(t, b.EnsureCertificateUploaded())
	require.Len(t, fake.Certificates(), 1)
	assert.Equal(t, certificates.Encode(testCert), fake.Certificates()[0].Base64Cert)
}

func TestBootstrapper_EnsureCertificateUploaded_already_present(t *testing.T) {
	fake := fakecp.New()
	fake.AddCertificate("c2VlZGVk")
	b := testBootstrapper(t, fake)

	// the certificate file is never read when the service lists one
	b.Config.Certificate.Path = "/nonexistent/spacewalk-public.cert"

	require.NoError(t, b.EnsureCertificateUploaded())
	assert.Equal(t, 0, fake.Count(uploadRequest))
	assert.Equal(t, 1, fake.Count(listRequest))
	assert.Len(t, fake.Certificates(), 1)
}

func TestBootstrapper_EnsureCertificateUploaded_twice(t *testing.T) {
	fake := fakecp.New()
	b := testBootstrapper(t, fake)

	require.NoError(t, b.EnsureCertificateUploaded())
	require.NoError(t, b.EnsureCertificateUploaded())

	assert.Equal(t, 1, fake.Count(uploadRequest))
	assert.Len(t, fake.Certificates(), 1)
}

func TestBootstrapper_EnsureCertificateUploaded_twice_without_gate(t *testing.T) {
	fake := fakecp.New()
	b := testBootstrapper(t, fake)
	b.Gate = nil

	require.NoError(t, b.EnsureCertificateUploaded())
	require.NoError(t, b.EnsureCertificateUploaded())

	// the second call finds the uploaded certificate and stops there
	assert.Equal(t, 1, fake.Count(uploadRequest))
	assert.Equal(t, 3, fake.Count(listRequest))
}

func TestBootstrapper_EnsureCertificateUploaded_still_empty(t *testing.T) {
	fake := fakecp.New()
	fake.DiscardUploads = true
	b := testBootstrapper(t, fake)

	err := b.EnsureCertificateUploaded()
	assert.ErrorIs(t, err, ErrCertificatesStillEmpty)
	assert.EqualError(t, err, `certificate listing still empty after upload: ""`)
	assert.False(t, b.Gate.Done())
}

func TestBootstrapper_EnsureCertificateUploaded_falsy_listing_after_upload(t *testing.T) {
	for _, body := range []string{"[]", "{}", "0", "null"} {
		fake := fakecp.New()
		fake.EmptyListing = body
		fake.DiscardUploads = true
		b := testBootstrapper(t, fake)

		// a falsy listing triggers the upload, any non-blank body satisfies
		// the check that follows it
		require.NoError(t, b.EnsureCertificateUploaded(), body)
		assert.Equal(t, 1, fake.Count(uploadRequest), body)
		assert.Equal(t, 2, fake.Count(listRequest), body)
		assert.True(t, b.Gate.Done(), body)
	}
}

func TestBootstrapper_EnsureCertificateUploaded_whitespace_listing(t *testing.T) {
	fake := fakecp.New()
	fake.EmptyListing = "  \n"
	b := testBootstrapper(t, fake)

	require.NoError(t, b.EnsureCertificateUploaded())
	assert.Equal(t, 0, fake.Count(uploadRequest))
	assert.Equal(t, 1, fake.Count(listRequest))
}

func TestBootstrapper_EnsureCertificateUploaded_missing_file(t *testing.T) {
	fake := fakecp.New()
	b := testBootstrapper(t, fake)
	b.Config.Certificate.Path = "missing.cert"

	err := b.EnsureCertificateUploaded()
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, 0, fake.Count(uploadRequest))
}

func TestBootstrapper_EnsureCertificateUploaded_no_server(t *testing.T) {
	fake := fakecp.New()
	b := testBootstrapper(t, fake)

	b.API.Certificates.EndPointURI.Host = "127.0.0.1:1"

	err := b.EnsureCertificateUploaded()
	assert.ErrorContains(t, err, "listing certificates: get request failed")
	assert.False(t, b.Gate.Done())
}

func TestBootstrapper_CreateConsumer(t *testing.T) {
	fake := fakecp.New()
	b := testBootstrapper(t, fake)

	first, err := b.CreateConsumer()
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := b.CreateConsumer()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	c, ok := fake.Consumer(first)
	require.True(t, ok)
	assert.Equal(t, "consumername", c["name"])
	assert.Equal(t, "fakeuser", c["username"])

	facts, err := json.Marshal(c["facts"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": "1", "b": "2", "c": "3"}`, string(facts))
}

func TestBootstrapper_CreateConsumer_missing_uuid(t *testing.T) {
	fake := fakecp.New()
	fake.OmitUUID = true
	b := testBootstrapper(t, fake)

	_, err := b.CreateConsumer()
	assert.ErrorContains(t, err, `registering consumer "consumername": consumer response has no uuid`)
}

func TestBootstrapper_CreateConsumer_bad_credentials(t *testing.T) {
	fake := fakecp.New()
	b := testBootstrapper(t, fake)
	b.Config.Consumer.Password = "wrong"

	_, err := b.CreateConsumer()
	assert.ErrorContains(t, err, "401 Unauthorized: Invalid Credentials")
}

func TestBootstrapper_Run_and_DeleteConsumer(t *testing.T) {
	fake := fakecp.New()
	b := testBootstrapper(t, fake)

	id, err := b.Run()
	require.NoError(t, err)
	assert.Len(t, fake.Certificates(), 1)
	assert.Equal(t, 1, fake.ConsumerCount())

	require.NoError(t, b.DeleteConsumer(id))
	assert.Equal(t, 0, fake.ConsumerCount())

	err = b.DeleteConsumer(id)
	assert.ErrorContains(t, err, "response has unexpected status: 410 Gone")
}

func TestNew_defaults(t *testing.T) {
	b, err := New(nil)
	require.NoError(t, err)

	assert.Same(t, ProcessGate, b.Gate)
	assert.Equal(t, config.Default(), b.Config)
	assert.Equal(t, "http://localhost:8080/candlepin", b.API.Certificates.EndPointURI.String())
}

func TestIsEmptyListing(t *testing.T) {
	for _, body := range []string{"", "null", "[]", " [ ] ", "{}", `""`, "false", "0"} {
		assert.True(t, isEmptyListing([]byte(body)), body)
	}

	for _, body := range []string{"  \n", `[{"id": "1"}]`, `{"id": "1"}`, "true", "not json", `"x"`} {
		assert.False(t, isEmptyListing([]byte(body)), body)
	}
}
