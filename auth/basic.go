// Copyright 2023 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// BasicAuthenticator sends owner or consumer-registration credentials as an
// HTTP Basic Authorization header.
type BasicAuthenticator struct {
	Username string
	Password string
}

// NewBasicAuthenticator is a shorthand for a configured BasicAuthenticator.
func NewBasicAuthenticator(username, password string) *BasicAuthenticator {
	return &BasicAuthenticator{Username: username, Password: password}
}

func (o *BasicAuthenticator) Configure(cfg map[string]interface{}) error {
	decoded := struct {
		Username string                 `mapstructure:"username"`
		Password string                 `mapstructure:"password"`
		Rest     map[string]interface{} `mapstructure:",remain"`
	}{}

	if err := decodeConfig(cfg, &decoded); err != nil {
		return err
	}

	o.Username = decoded.Username
	o.Password = decoded.Password

	if err := o.validate(); err != nil {
		return err
	}

	return checkUnexpected(decoded.Rest)
}

func (o *BasicAuthenticator) EncodeHeader() (string, error) {
	if err := o.validate(); err != nil {
		return "", err
	}

	credsRaw := fmt.Sprintf("%s:%s", o.Username, o.Password)
	credsEncoded := base64.StdEncoding.EncodeToString([]byte(credsRaw))

	return "Basic " + credsEncoded, nil
}

func (o *BasicAuthenticator) validate() error {
	if o.Username == "" {
		return errors.New("missing username")
	}

	if o.Password == "" {
		return errors.New("missing password")
	}

	return nil
}
