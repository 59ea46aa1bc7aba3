// Copyright 2023 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

/*
Package certificates wraps the /certificates resource of the Candlepin API.

A certificate is imported by base64-encoding its raw bytes and POSTing it as
JSON. Two body shapes are supported: the encoded value as a bare JSON string

	"LS0tLS1CRUdJTi..."

and the same value under the base64cert key

	{"base64cert": "LS0tLS1CRUdJTi..."}

Typical use:

	svc, err := certificates.NewService("http://localhost:8080/candlepin")
	if err != nil { ... }

	listing, err := svc.List()
	if err != nil { ... }

	if len(bytes.TrimSpace(listing)) == 0 {
		err = svc.Upload(rawCert, config.PayloadBare)
	}
*/
package certificates
