// Copyright 2023 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethod_Set(t *testing.T) {
	for in, expected := range map[string]Method{
		"none":        MethodPassthrough,
		"passthrough": MethodPassthrough,
		"basic":       MethodBasic,
		"keycloak":    MethodOauth2,
		"oauth2":      MethodOauth2,
	} {
		var m Method
		require.NoError(t, m.Set(in), in)
		assert.Equal(t, expected, m, in)
	}

	var m Method
	assert.EqualError(t, m.Set("kerberos"), `unexpected Method "kerberos"`)
	assert.Equal(t, "Method", m.Type())
}

func TestNewAuthenticator(t *testing.T) {
	a, err := NewAuthenticator(MethodPassthrough, nil)
	require.NoError(t, err)
	assert.IsType(t, &NullAuthenticator{}, a)

	a, err = NewAuthenticator(MethodBasic, map[string]interface{}{
		"username": "admin",
		"password": "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, &BasicAuthenticator{Username: "admin", Password: "admin"}, a)

	_, err = NewAuthenticator(MethodBasic, map[string]interface{}{"username": "admin"})
	assert.EqualError(t, err, "configuring basic authenticator: missing password")

	_, err = NewAuthenticator(MethodPassthrough, map[string]interface{}{"username": "admin"})
	assert.EqualError(t, err, "configuring passthrough authenticator: unexpected fields in config: username")

	_, err = NewAuthenticator(Method("ntlm"), nil)
	assert.EqualError(t, err, `unexpected Method "ntlm"`)
}
