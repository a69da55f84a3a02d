package noise

import "github.com/gonoise/gonoise/pkg/securerandom"

// Rand supplies the randomness a generator consumes. Production code
// uses the crypto/rand backed source; tests substitute a seeded source
// so gate decisions and target picks are reproducible.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform value in [0, n). It panics if n <= 0.
	Intn(n int) int
	// Fill fills p with random bytes.
	Fill(p []byte)
}

// CryptoRand returns the production Rand backed by crypto/rand.
func CryptoRand() Rand { return cryptoRand{} }

type cryptoRand struct{}

func (cryptoRand) Float64() float64 { return securerandom.MustFloat64() }

func (cryptoRand) Intn(n int) int { return securerandom.MustInt(0, n-1) }

func (cryptoRand) Fill(p []byte) { securerandom.MustBytes(p) }

// pick returns a uniformly chosen element of items.
func pick[T any](r Rand, items []T) T {
	return items[r.Intn(len(items))]
}
