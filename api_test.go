// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"net/http"
	"testing"

	"github.com/candlepin/apiclient/auth"
	"github.com/candlepin/apiclient/common"
	"github.com/candlepin/apiclient/config"
	"github.com/candlepin/apiclient/consumers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPI_defaults(t *testing.T) {
	api, err := NewAPI(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/candlepin", api.Certificates.EndPointURI.String())
	assert.Equal(t, "http://localhost:8080/candlepin", api.Consumers.EndPointURI.String())
	assert.IsType(t, &auth.NullAuthenticator{}, api.Client.Auth)
	assert.Same(t, api.Client, api.Consumers.Client)
}

func TestNewAPI_basic_tls(t *testing.T) {
	cfg := config.Default()
	cfg.Port = 8443
	cfg.TLS.Enabled = true
	cfg.TLS.Insecure = true
	cfg.Auth = config.Auth{
		Method: "basic",
		Config: map[string]interface{}{"username": "admin", "password": "admin"},
	}

	api, err := NewAPI(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://localhost:8443/candlepin", api.Certificates.EndPointURI.String())
	assert.IsType(t, &auth.BasicAuthenticator{}, api.Client.Auth)

	tr, ok := api.Client.HTTPClient.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
}

func TestNewAPI_bad_config(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.Method = "kerberos"

	_, err := NewAPI(cfg, nil)
	assert.EqualError(t, err, `unexpected Method "kerberos"`)

	cfg = config.Default()
	cfg.Port = 0

	_, err = NewAPI(cfg, nil)
	assert.EqualError(t, err, "invalid configuration: invalid port 0")
}

func TestAPI_RegisterConsumer(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/candlepin/consumers", r.URL.Path)
		_, err := w.Write([]byte(`{"uuid": "4d7b9a0e-8a6b-4a53-9a0f-3a1f44d6d2c1"}`))
		assert.NoError(t, err)
	})

	client, teardown := common.NewTestingHTTPClient(h)
	defer teardown()

	api, err := NewAPIWithClient("http://localhost:8080/candlepin", client)
	require.NoError(t, err)

	c, err := api.RegisterConsumer("fakeuser", "fakepw", "consumername", consumers.Facts{"a": "1"})
	require.NoError(t, err)
	assert.Equal(t, "4d7b9a0e-8a6b-4a53-9a0f-3a1f44d6d2c1", c.UUID)
}
