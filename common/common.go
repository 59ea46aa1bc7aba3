// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const JSONMediaType = "application/json"

func ResolveReference(baseURI, referenceURI string) (string, error) {
	u, err := url.Parse(referenceURI)
	if err != nil {
		return "", fmt.Errorf("parsing reference URI: %w", err)
	}

	if u.IsAbs() {
		return referenceURI, nil
	}

	base, err := url.Parse(baseURI)
	if err != nil {
		return "", fmt.Errorf("parsing base URI: %w", err)
	}

	return base.ResolveReference(u).String(), nil
}

// ParseEndpointURI parses uri and makes sure it is absolute.
func ParseEndpointURI(uri string) (*url.URL, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("malformed URI: %w", err)
	}

	if !u.IsAbs() {
		return nil, fmt.Errorf("URI is not absolute: %q", uri)
	}

	return u, nil
}

func DecodeJSONBody(res *http.Response, j interface{}) error {
	defer res.Body.Close()

	return json.NewDecoder(res.Body).Decode(&j)
}

// ReadBody drains and closes the response body.
func ReadBody(res *http.Response) ([]byte, error) {
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return b, nil
}
