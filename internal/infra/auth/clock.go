package auth

import (
	"crypto/rand"
	"time"

	"github.com/AnthonyArce/Tienda/internal/domain/service"
)

// systemClock reads the wall clock.
type systemClock struct{}

// NewSystemClock returns a Clock backed by time.Now.
func NewSystemClock() service.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// cryptoRandomSource draws from the operating system CSPRNG.
type cryptoRandomSource struct{}

// NewCryptoRandomSource returns a RandomSource backed by crypto/rand.
func NewCryptoRandomSource() service.RandomSource {
	return cryptoRandomSource{}
}

func (cryptoRandomSource) SecureBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}

	return buf, nil
}
