// Copyright 2023 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package auth

import "fmt"

// IAuthenticator produces the Authorization header value for outgoing
// requests. An empty header means the request is sent unauthenticated.
type IAuthenticator interface {
	Configure(cfg map[string]interface{}) error
	EncodeHeader() (string, error)
}

// NewAuthenticator returns a configured authenticator for the given method.
func NewAuthenticator(m Method, cfg map[string]interface{}) (IAuthenticator, error) {
	var a IAuthenticator

	switch m {
	case "", MethodPassthrough:
		a = &NullAuthenticator{}
	case MethodBasic:
		a = &BasicAuthenticator{}
	case MethodOauth2:
		a = &Oauth2Authenticator{}
	default:
		return nil, fmt.Errorf("unexpected Method %q", m)
	}

	if err := a.Configure(cfg); err != nil {
		return nil, fmt.Errorf("configuring %s authenticator: %w", m, err)
	}

	return a, nil
}
