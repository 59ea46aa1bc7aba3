// Copyright 2024 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
)

// TLSOptions describes how the client authenticates the server and,
// optionally, itself at the TLS layer.
type TLSOptions struct {
	// CACerts are PEM files appended to the system pool.
	CACerts []string
	// CertFile and KeyFile hold the client certificate chain and its key for
	// mutual TLS. Both or neither must be set.
	CertFile string
	KeyFile  string
	// Insecure disables server certificate verification.
	Insecure bool
}

// NewTLSTransport returns a pointer to a new http.Transport with TLS config
// initilaized with system certs as well as specified certPaths.
func NewTLSTransport(certPaths []string) (*http.Transport, error) {
	return NewTransport(TLSOptions{CACerts: certPaths})
}

// NewTransport builds an http.Transport from opts.
func NewTransport(opts TLSOptions) (*http.Transport, error) {
	certPool, err := x509.SystemCertPool()
	if err != nil {
		return nil, err
	}

	for _, certPath := range opts.CACerts {
		rawCert, err := os.ReadFile(certPath)
		if err != nil {
			return nil, fmt.Errorf("could not read cert: %w", err)
		}

		if ok := certPool.AppendCertsFromPEM(rawCert); !ok {
			return nil, fmt.Errorf("invalid cert in %s", certPath)
		}
	}

	tlsConfig := &tls.Config{
		RootCAs:            certPool,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: opts.Insecure, // #nosec G402
	}

	switch {
	case opts.CertFile != "" && opts.KeyFile != "":
		pair, err := tls.LoadX509KeyPair(opts.CertFile, opts.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("could not load client key pair: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{pair}
	case opts.CertFile != "" || opts.KeyFile != "":
		return nil, errors.New("client certificate and key must be supplied together")
	}

	return &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: tlsConfig,
	}, nil
}
