// Copyright 2023 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package auth

// NullAuthenticator leaves requests unauthenticated, which is what the
// public certificate endpoints expect on a development deployment.
type NullAuthenticator struct{}

func (o *NullAuthenticator) Configure(cfg map[string]interface{}) error {
	return checkUnexpected(cfg)
}

func (o *NullAuthenticator) EncodeHeader() (string, error) {
	return "", nil
}
