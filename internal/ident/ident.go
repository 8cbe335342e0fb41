// Package ident generates collision-resistant identifiers for new
// records. IDs are opaque: callers must not assume sortability or any
// sequential order.
package ident

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	mrand "math/rand"
	"sync"
	"time"
)

// Length of generated identifiers, in hex characters.
const Length = 13

const hexDigits = "0123456789abcdef"

var (
	fallbackOnce sync.Once
	fallback     *mrand.Rand
	fallbackMu   sync.Mutex
)

// New returns a fresh identifier: hex of cryptographically random
// bytes. If the secure source fails it falls back to a time-seeded
// pseudo-random scheme rather than erroring; record creation should not
// fail because the entropy pool is unavailable.
func New() string {
	buf := make([]byte, (Length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		slog.Warn("secure random source unavailable, using pseudo-random ids", "error", err)
		return pseudoRandomID()
	}
	return hex.EncodeToString(buf)[:Length]
}

func pseudoRandomID() string {
	fallbackOnce.Do(func() {
		fallback = mrand.New(mrand.NewSource(time.Now().UnixNano()))
	})
	out := make([]byte, Length)
	fallbackMu.Lock()
	for i := range out {
		out[i] = hexDigits[fallback.Intn(len(hexDigits))]
	}
	fallbackMu.Unlock()
	return string(out)
}
