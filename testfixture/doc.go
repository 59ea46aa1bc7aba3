// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

/*
Package testfixture provides per-test setup for suites that run against a
Candlepin deployment.

	func TestEntitlements(t *testing.T) {
		f := testfixture.Setup(t)

		res, err := http.Get("http://localhost:8080/candlepin/consumers/" + f.UUID)
		require.NoError(t, err)
		testfixture.AssertExpectedStatus(t, http.StatusOK, res)
	}

Setup stops the test with "assertion failed" when the certificate listing is
still empty after upload, and with "setup error" for anything else (service
unreachable, missing certificate file, registration rejected).
*/
package testfixture
