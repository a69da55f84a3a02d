package config

import (
	"errors"
	"fmt"
)

// Intensity bounds accepted by Validate.
const (
	MinIntensity = 0.1
	MaxIntensity = 10.0
)

// Sentinel errors for configuration failures. Callers match them with
// errors.Is.
var (
	ErrUnknownPattern = errors.New("unknown traffic pattern")
	ErrIntensityRange = errors.New("intensity out of range")
	ErrNothingEnabled = errors.New("no noise protocols enabled")
)

// Validate checks that the options describe a runnable configuration.
// It does not require any protocol to be enabled; that is checked at
// engine start so callers can distinguish the two failure modes.
func (o *Options) Validate() error {
	if o.Intensity < MinIntensity || o.Intensity > MaxIntensity {
		return fmt.Errorf("%w: %g must be between %g and %g",
			ErrIntensityRange, o.Intensity, MinIntensity, MaxIntensity)
	}
	if _, err := o.Profile(); err != nil {
		return err
	}
	if o.MaxRate < 0 {
		return fmt.Errorf("max rate must not be negative, got %g", o.MaxRate)
	}
	return nil
}

// Profile resolves the configured pattern name against the active
// profile table.
func (o *Options) Profile() (Profile, error) {
	table := o.Profiles
	if table == nil {
		table = BuiltinProfiles()
	}
	p, ok := table[o.Pattern]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownPattern, o.Pattern)
	}
	return p, nil
}

// Validate checks a single profile's ratios and delay window.
func (p Profile) Validate() error {
	ratios := []struct {
		name  string
		value float64
	}{
		{"http_ratio", p.HTTPRatio},
		{"dns_ratio", p.DNSRatio},
		{"tcp_ratio", p.TCPRatio},
		{"udp_ratio", p.UDPRatio},
	}
	for _, r := range ratios {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %g", r.name, r.value)
		}
	}
	if p.DelayMin <= 0 {
		return fmt.Errorf("delay_min_seconds must be positive, got %s", p.DelayMin)
	}
	if p.DelayMax < p.DelayMin {
		return fmt.Errorf("delay_max_seconds %s is below delay_min_seconds %s", p.DelayMax, p.DelayMin)
	}
	return nil
}
