// Package credstore provides CredentialStore implementations.
//
// Every implementation honours the degrade-gracefully contract: no
// operation ever returns an error to the caller. The first backing
// failure is logged and flips a store-wide unavailable flag; from then
// on every operation is a no-op reporting keys as absent, and the
// client keeps working with a session that resets each run.
package credstore

import (
	"sync"

	"naya-cli/internal/naya"
)

// degrade carries the shared unavailable flag.
type degrade struct {
	logger naya.Logger

	mu          sync.Mutex
	unavailable bool
}

// available reports whether the store still accepts operations.
func (d *degrade) available() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.unavailable
}

// fail logs the failure and marks the store unavailable.
func (d *degrade) fail(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.unavailable {
		d.logger.Warn("credential storage unavailable, continuing without persistence", "op", op, "error", err)
	}
	d.unavailable = true
}
