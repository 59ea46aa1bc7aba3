// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

/*
Package apiclient is a client for the Candlepin entitlement service REST API.

An API value is built from a config.Config, which defaults to an
unauthenticated plaintext deployment at http://localhost:8080/candlepin:

	api, err := apiclient.NewAPI(config.Default(), nil)
	if err != nil { ... }

	consumer, err := api.RegisterConsumer("fakeuser", "fakepw", "consumername",
		consumers.Facts{"a": "1"})

Mutual TLS is enabled through the configuration:

	cfg := config.Default()
	cfg.Port = 8443
	cfg.TLS = config.TLS{
		Enabled:  true,
		CertFile: "./cert_chain.crt",
		KeyFile:  "./cert_chain_private_pem.key",
	}

The bootstrap package builds on API to prepare server state for integration
tests, and testfixture wires that into the testing package.
*/
package apiclient
