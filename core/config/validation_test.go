package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	valid := Options{Pattern: "browsing", Intensity: 1.0}

	t.Run("valid_defaults", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("intensity_bounds_inclusive", func(t *testing.T) {
		for _, intensity := range []float64{MinIntensity, 1.0, MaxIntensity} {
			opts := valid
			opts.Intensity = intensity
			assert.NoError(t, opts.Validate(), "intensity %g should be accepted", intensity)
		}
	})

	t.Run("intensity_too_low", func(t *testing.T) {
		opts := valid
		opts.Intensity = 0.09
		err := opts.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIntensityRange)
	})

	t.Run("intensity_too_high", func(t *testing.T) {
		opts := valid
		opts.Intensity = 10.5
		assert.ErrorIs(t, opts.Validate(), ErrIntensityRange)
	})

	t.Run("unknown_pattern", func(t *testing.T) {
		opts := valid
		opts.Pattern = "stealth"
		err := opts.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownPattern)
		assert.Contains(t, err.Error(), "stealth")
	})

	t.Run("negative_max_rate", func(t *testing.T) {
		opts := valid
		opts.MaxRate = -1
		assert.Error(t, opts.Validate())
	})

	t.Run("custom_profile_table", func(t *testing.T) {
		opts := valid
		opts.Pattern = "bursty"
		opts.Profiles = map[string]Profile{
			"bursty": {
				Name:      "bursty",
				HTTPRatio: 0.9,
				DelayMin:  100 * time.Millisecond,
				DelayMax:  1 * time.Second,
			},
		}
		assert.NoError(t, opts.Validate())
	})
}

func TestOptionsProfile(t *testing.T) {
	opts := Options{Pattern: "gaming", Intensity: 1.0}

	p, err := opts.Profile()
	require.NoError(t, err)
	assert.Equal(t, "gaming", p.Name)
	assert.Equal(t, 0.5, p.UDPRatio)

	opts.Pattern = "does-not-exist"
	_, err = opts.Profile()
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

func TestProfileValidate(t *testing.T) {
	base := Profile{
		Name:      "test",
		HTTPRatio: 0.5,
		DNSRatio:  0.5,
		TCPRatio:  0.5,
		UDPRatio:  0.5,
		DelayMin:  time.Second,
		DelayMax:  2 * time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{"valid", func(p *Profile) {}, ""},
		{"ratio_above_one", func(p *Profile) { p.HTTPRatio = 1.5 }, "http_ratio"},
		{"negative_ratio", func(p *Profile) { p.UDPRatio = -0.1 }, "udp_ratio"},
		{"zero_delay_min", func(p *Profile) { p.DelayMin = 0 }, "delay_min"},
		{"delay_max_below_min", func(p *Profile) { p.DelayMax = 500 * time.Millisecond }, "delay_max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
