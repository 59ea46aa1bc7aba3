// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"fmt"

	"github.com/candlepin/apiclient/auth"
	"github.com/candlepin/apiclient/certificates"
	"github.com/candlepin/apiclient/common"
	"github.com/candlepin/apiclient/config"
	"github.com/candlepin/apiclient/consumers"
	"github.com/sirupsen/logrus"
)

// API groups the services of one Candlepin deployment behind a shared
// client.
type API struct {
	Client       *common.Client
	Certificates *certificates.Service
	Consumers    *consumers.Service
}

// NewAPI builds the transport and authenticator described by cfg.
func NewAPI(cfg *config.Config, logger logrus.FieldLogger) (*API, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var method auth.Method
	if err := method.Set(cfg.Auth.Method); err != nil {
		return nil, err
	}

	a, err := auth.NewAuthenticator(method, cfg.Auth.Config)
	if err != nil {
		return nil, err
	}

	client := common.NewClient(a)
	if logger != nil {
		client.Logger = logger
	}

	if cfg.TLS.Enabled {
		tr, err := auth.NewTransport(auth.TLSOptions{
			CACerts:  cfg.TLS.CACerts,
			CertFile: cfg.TLS.CertFile,
			KeyFile:  cfg.TLS.KeyFile,
			Insecure: cfg.TLS.Insecure,
		})
		if err != nil {
			return nil, fmt.Errorf("building TLS transport: %w", err)
		}
		client.HTTPClient.Transport = tr
	}

	return NewAPIWithClient(cfg.EndpointURI().String(), client)
}

// NewAPIWithClient wires the services to an already configured client.
func NewAPIWithClient(uri string, client *common.Client) (*API, error) {
	certs, err := certificates.NewService(uri)
	if err != nil {
		return nil, err
	}

	cons, err := consumers.NewService(uri)
	if err != nil {
		return nil, err
	}

	if err := certs.SetClient(client); err != nil {
		return nil, err
	}

	if err := cons.SetClient(client); err != nil {
		return nil, err
	}

	return &API{
		Client:       client,
		Certificates: certs,
		Consumers:    cons,
	}, nil
}

// RegisterConsumer registers a system consumer and returns it.
func (o *API) RegisterConsumer(username, password, name string, facts consumers.Facts) (*consumers.Consumer, error) {
	return o.Consumers.Register(username, password, name, facts)
}
