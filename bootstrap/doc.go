// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

/*
Package bootstrap prepares a Candlepin deployment for integration tests.

EnsureCertificateUploaded checks GET /certificates and, when nothing is
listed, uploads the configured certificate file and checks again.
CreateConsumer registers a fresh consumer and returns its uuid. Run does both
in that order.

The certificate check is guarded by an UploadGate. By default all
Bootstrappers share ProcessGate, so once one of them has seen a certificate on
the service the others skip the check. The check-then-upload sequence is not
atomic on the service side.
*/
package bootstrap
