// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import "sync/atomic"

// UploadGate records that the certificate prerequisite has been satisfied.
// It starts unset and is set after the first successful ensure; once set,
// further ensures make no requests.
type UploadGate struct {
	done atomic.Bool
}

// ProcessGate is shared by every Bootstrapper that is not given its own
// gate, so a test binary checks the service at most once.
var ProcessGate = &UploadGate{}

func (o *UploadGate) Done() bool {
	return o.done.Load()
}

func (o *UploadGate) Mark() {
	o.done.Store(true)
}

// Reset clears the gate.
func (o *UploadGate) Reset() {
	o.done.Store(false)
}
