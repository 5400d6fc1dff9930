// Package id generates identifiers for log correlation.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Short generates a short random hex ID (16 characters). Each verification
// session gets one so its log lines can be told apart from earlier runs.
func Short() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
