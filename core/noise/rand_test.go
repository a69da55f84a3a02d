package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoRand(t *testing.T) {
	r := CryptoRand()

	t.Run("float64_unit_interval", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v := r.Float64()
			require.GreaterOrEqual(t, v, 0.0)
			require.Less(t, v, 1.0)
		}
	})

	t.Run("intn_half_open", func(t *testing.T) {
		seen := make(map[int]bool)
		for i := 0; i < 500; i++ {
			v := r.Intn(5)
			require.GreaterOrEqual(t, v, 0)
			require.Less(t, v, 5)
			seen[v] = true
		}
		assert.Len(t, seen, 5, "five hundred draws should hit every value")
	})

	t.Run("intn_single_value", func(t *testing.T) {
		assert.Zero(t, r.Intn(1))
	})

	t.Run("fill_mutates", func(t *testing.T) {
		b := make([]byte, 64)
		r.Fill(b)
		zeros := 0
		for _, c := range b {
			if c == 0 {
				zeros++
			}
		}
		assert.Less(t, zeros, 16, "random bytes should not stay zeroed")
	})
}

func TestPick(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	rnd := newTestRand(73)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		v := pick(rnd, items)
		assert.Contains(t, items, v)
		seen[v] = true
	}
	assert.Len(t, seen, len(items))
}
