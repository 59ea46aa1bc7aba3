// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

/*
Package consumers wraps the /consumers resource of the Candlepin API.

Registration authenticates with the owner credentials supplied to Register,
independently of the authenticator configured on the Service client:

	svc, err := consumers.NewService("http://localhost:8080/candlepin")
	if err != nil { ... }

	c, err := svc.Register("fakeuser", "fakepw", "consumername",
		consumers.Facts{"a": "1", "b": "2", "c": "3"})
	if err != nil { ... }

	fmt.Println(c.UUID)

A response without a uuid yields ErrMissingUUID. Consumers are not removed
automatically; call Delete when the identity is no longer needed:

	err = svc.Delete(c.UUID)
*/
package consumers
