package service

import "time"

// Clock abstracts wall-clock access so expiry and rotation logic stay testable.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time
}

// RandomSource abstracts the cryptographically secure random source used to
// mint refresh tokens. Refresh tokens are bearer credentials, so a
// general-purpose PRNG is never acceptable here.
type RandomSource interface {
	// SecureBytes returns n bytes from a CSPRNG.
	SecureBytes(n int) ([]byte, error)
}
