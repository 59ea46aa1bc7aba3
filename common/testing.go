// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"

	"github.com/candlepin/apiclient/auth"
	"github.com/sirupsen/logrus"
)

// NewTestingHTTPClient creates an HTTP test server (with a configurable request
// handler), an API Client and connects them together.  The API client and the
// server's shutdown switch are returned.
func NewTestingHTTPClient(handler http.Handler) (cli *Client, closerFn func()) {
	srv := httptest.NewServer(handler)

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	cli = &Client{
		HTTPClient: http.Client{
			Transport: &http.Transport{
				DialContext: func(_ context.Context, network, _ string) (net.Conn, error) {
					return net.Dial(network, srv.Listener.Addr().String())
				},
			},
		},
		Auth:   &auth.NullAuthenticator{},
		Logger: quiet,
	}

	closerFn = srv.Close

	return
}
