// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/candlepin/apiclient/auth"
	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 5 * time.Second

// Client holds configuration data associated with the HTTP(s) session
type Client struct {
	HTTPClient http.Client
	Auth       auth.IAuthenticator
	Logger     logrus.FieldLogger
}

// NewClient instantiates a new Client that uses the supplied authenticator
// to populate the Authorization header. A nil authenticator means no
// authentication.
func NewClient(a auth.IAuthenticator) *Client {
	if a == nil {
		a = &auth.NullAuthenticator{}
	}

	return &Client{
		HTTPClient: http.Client{
			Timeout: DefaultTimeout,
		},
		Auth:   a,
		Logger: logrus.StandardLogger(),
	}
}

// WithAuth returns a copy of the client that authenticates with a instead of
// the configured authenticator.
func (c Client) WithAuth(a auth.IAuthenticator) *Client {
	c.Auth = a
	return &c
}

func (c Client) GetResource(accept, uri string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("GET %q, request creation failed: %w", uri, err)
	}

	req.Header.Set("Accept", accept)

	return c.do(req)
}

func (c Client) PostResource(body []byte, ct, accept, uri string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, uri, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("POST %q, request creation failed: %w", uri, err)
	}

	req.Header.Set("Content-Type", ct)
	req.Header.Set("Accept", accept)

	return c.do(req)
}

func (c Client) DeleteResource(uri string) error {
	req, err := http.NewRequest(http.MethodDelete, uri, nil)
	if err != nil {
		return fmt.Errorf("DELETE %q, request creation failed: %w", uri, err)
	}

	res, err := c.do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// Acceptable response codes are 200, 202 and 204
	switch res.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	default:
		return fmt.Errorf("DELETE %q, response has unexpected status: %s", uri, res.Status)
	}
}

func (c Client) do(req *http.Request) (*http.Response, error) {
	if c.Auth != nil {
		header, err := c.Auth.EncodeHeader()
		if err != nil {
			return nil, fmt.Errorf("%s %q, could not encode auth header: %w",
				req.Method, req.URL, err)
		}

		if header != "" {
			req.Header.Set("Authorization", header)
		}
	}

	c.logger().WithFields(logrus.Fields{
		"method": req.Method,
		"uri":    req.URL.String(),
	}).Debug("sending request")

	hc := &c.HTTPClient

	res, err := hc.Do(req)
	if err != nil {
		return nil, err
	}

	c.logger().WithFields(logrus.Fields{
		"method": req.Method,
		"uri":    req.URL.String(),
		"status": res.StatusCode,
	}).Debug("received response")

	return res, nil
}

func (c Client) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}
