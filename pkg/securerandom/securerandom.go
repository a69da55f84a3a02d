package securerandom

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"time"
)

// Int returns a cryptographically secure random integer in the range [min, max].
func Int(min, max int) (int, error) {
	if max < min {
		return 0, fmt.Errorf("max must not be less than min (got min=%d, max=%d)", min, max)
	}
	if min == max {
		return min, nil
	}

	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate secure random int: %w", err)
	}
	return int(nBig.Int64()) + min, nil
}

// MustInt is like Int but panics on error.
// Use this only when an error is truly unexpected and would be fatal to the program.
func MustInt(min, max int) int {
	result, err := Int(min, max)
	if err != nil {
		panic(fmt.Sprintf("securerandom.MustInt: %v", err))
	}
	return result
}

// Float64 returns a random float64 in the range [0.0,1.0).
func Float64() (float64, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return 0, fmt.Errorf("failed to generate secure random float: %w", err)
	}
	return float64(binary.BigEndian.Uint64(b)) / (1 << 64), nil
}

// MustFloat64 is like Float64 but panics on error.
func MustFloat64() float64 {
	result, err := Float64()
	if err != nil {
		panic(fmt.Sprintf("securerandom.MustFloat64: %v", err))
	}
	return result
}

// Bytes fills the given slice with random bytes from a cryptographically
// secure source. It never falls back to an insecure source.
func Bytes(b []byte) error {
	if _, err := rand.Read(b); err != nil {
		return fmt.Errorf("failed to generate secure random bytes: %w", err)
	}
	return nil
}

// MustBytes is like Bytes but panics on error.
func MustBytes(b []byte) {
	if err := Bytes(b); err != nil {
		panic(fmt.Sprintf("securerandom.MustBytes: %v", err))
	}
}

// Duration returns a cryptographically secure random duration in [min, max].
func Duration(min, max time.Duration) (time.Duration, error) {
	if min > max {
		return 0, fmt.Errorf("min duration cannot be greater than max")
	}
	if min == max {
		return min, nil
	}

	span := big.NewInt(int64(max-min) + 1)
	nBig, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, fmt.Errorf("failed to generate secure random duration: %w", err)
	}
	return min + time.Duration(nBig.Int64()), nil
}

// MustDuration is like Duration but panics on error.
func MustDuration(min, max time.Duration) time.Duration {
	result, err := Duration(min, max)
	if err != nil {
		panic(fmt.Sprintf("securerandom.MustDuration: %v", err))
	}
	return result
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, fmt.Errorf("cannot pick from an empty slice")
	}
	i, err := Int(0, len(items)-1)
	if err != nil {
		return zero, err
	}
	return items[i], nil
}

// MustPick is like Pick but panics on error.
func MustPick[T any](items []T) T {
	result, err := Pick(items)
	if err != nil {
		panic(fmt.Sprintf("securerandom.MustPick: %v", err))
	}
	return result
}
