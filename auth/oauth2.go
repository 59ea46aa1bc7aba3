// Copyright 2023 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

var defaultScopes = []string{"openid"}

// Oauth2Authenticator obtains a bearer token with the resource owner password
// grant, as offered by a Keycloak realm fronting Candlepin.
type Oauth2Authenticator struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	Scopes       []string

	Token *oauth2.Token
}

func (o *Oauth2Authenticator) Configure(cfg map[string]interface{}) error {
	decoded := struct {
		TokenURL     string                 `mapstructure:"token_url"`
		ClientID     string                 `mapstructure:"client_id"`
		ClientSecret string                 `mapstructure:"client_secret"`
		Username     string                 `mapstructure:"username"`
		Password     string                 `mapstructure:"password"`
		Scopes       []string               `mapstructure:"scopes"`
		Rest         map[string]interface{} `mapstructure:",remain"`
	}{}

	if err := decodeConfig(cfg, &decoded); err != nil {
		return err
	}

	o.ClientID = decoded.ClientID
	o.ClientSecret = decoded.ClientSecret
	o.TokenURL = decoded.TokenURL
	o.Username = decoded.Username
	o.Password = decoded.Password
	o.Scopes = decoded.Scopes

	if err := o.validate(); err != nil {
		return err
	}

	return checkUnexpected(decoded.Rest)
}

func (o *Oauth2Authenticator) EncodeHeader() (string, error) {
	if o.Token == nil || o.Token.Expiry.Before(time.Now()) {
		tok, err := o.obtainToken()
		if err != nil {
			return "", err
		}
		o.Token = tok
	}

	return fmt.Sprintf("Bearer %s", o.Token.AccessToken), nil
}

func (o *Oauth2Authenticator) obtainToken() (*oauth2.Token, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}

	scopes := o.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	conf := &oauth2.Config{
		ClientID:     o.ClientID,
		ClientSecret: o.ClientSecret,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			TokenURL: o.TokenURL,
		},
	}

	tok, err := conf.PasswordCredentialsToken(context.Background(), o.Username, o.Password)
	if err != nil {
		return nil, fmt.Errorf("obtaining token from %s: %w", o.TokenURL, err)
	}

	return tok, nil
}

func (o *Oauth2Authenticator) validate() error {
	if o.ClientID == "" {
		return errors.New("missing client_id")
	}

	if o.ClientSecret == "" {
		return errors.New("missing client_secret")
	}

	if o.TokenURL == "" {
		return errors.New("missing token_url")
	}

	if _, err := url.Parse(o.TokenURL); err != nil {
		return fmt.Errorf("invalid token_url: %w", err)
	}

	if o.Username == "" {
		return errors.New("missing username")
	}

	if o.Password == "" {
		return errors.New("missing password")
	}

	return nil
}
