package config

import "time"

// Protocol identifies one of the noise generator families.
type Protocol string

const (
	ProtocolDNS  Protocol = "dns"
	ProtocolHTTP Protocol = "http"
	ProtocolTCP  Protocol = "tcp"
	ProtocolUDP  Protocol = "udp"
)

// Protocols returns all generator families in reporting order.
func Protocols() []Protocol {
	return []Protocol{ProtocolDNS, ProtocolHTTP, ProtocolTCP, ProtocolUDP}
}

// Profile defines one named traffic pattern: how often each protocol
// fires and how long the pause between iterations lasts. Ratios are
// probabilities in [0, 1] applied before intensity scaling.
type Profile struct {
	Name      string
	HTTPRatio float64
	DNSRatio  float64
	TCPRatio  float64
	UDPRatio  float64
	DelayMin  time.Duration
	DelayMax  time.Duration
}

// RatioFor returns the trigger ratio for the given protocol.
func (p Profile) RatioFor(proto Protocol) float64 {
	switch proto {
	case ProtocolDNS:
		return p.DNSRatio
	case ProtocolHTTP:
		return p.HTTPRatio
	case ProtocolTCP:
		return p.TCPRatio
	case ProtocolUDP:
		return p.UDPRatio
	}
	return 0
}

// Defaults applied by the CLI when flags leave them unset.
const (
	DefaultPattern   = "browsing"
	DefaultIntensity = 1.0
)

// BuiltinProfiles returns the built-in pattern table keyed by name.
// The caller owns the returned map; mutating it does not affect later
// calls.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		"browsing": {
			Name:      "browsing",
			HTTPRatio: 0.6,
			DNSRatio:  0.3,
			TCPRatio:  0.1,
			UDPRatio:  0.05,
			DelayMin:  1 * time.Second,
			DelayMax:  8 * time.Second,
		},
		"streaming": {
			Name:      "streaming",
			HTTPRatio: 0.8,
			DNSRatio:  0.1,
			TCPRatio:  0.05,
			UDPRatio:  0.2,
			DelayMin:  500 * time.Millisecond,
			DelayMax:  2 * time.Second,
		},
		"gaming": {
			Name:      "gaming",
			HTTPRatio: 0.2,
			DNSRatio:  0.1,
			TCPRatio:  0.3,
			UDPRatio:  0.5,
			DelayMin:  100 * time.Millisecond,
			DelayMax:  1 * time.Second,
		},
		"chaotic": {
			Name:      "chaotic",
			HTTPRatio: 1.0,
			DNSRatio:  1.0,
			TCPRatio:  1.0,
			UDPRatio:  1.0,
			DelayMin:  100 * time.Millisecond,
			DelayMax:  500 * time.Millisecond,
		},
	}
}

// Options configures a noise engine run.
type Options struct {
	DNSNoise  bool
	HTTPFlood bool
	TCPNoise  bool
	UDPNoise  bool

	Pattern   string
	Intensity float64

	// TorMode floors every pacing delay at one second so the noise
	// stays gentle enough for a Tor-carrying host.
	TorMode bool

	// Profiles optionally replaces the built-in pattern table. The CLI
	// fills it with the builtins overlaid by a --profiles file; a nil
	// map means builtins only.
	Profiles map[string]Profile

	// Resolver overrides the DNS server used by the DNS generator,
	// as host:port. Empty selects the system resolver with a public
	// fallback.
	Resolver string

	// SOCKS5Addr routes HTTP and TCP noise through a SOCKS5 proxy.
	SOCKS5Addr string

	// TLSCamouflage upgrades TCP noise on TLS ports to a full uTLS
	// handshake with a rotating browser fingerprint.
	TLSCamouflage bool

	// MaxRate caps combined actions per second across all generators.
	// Zero means unlimited.
	MaxRate float64

	// MetricsAddr serves Prometheus metrics when non-empty.
	MetricsAddr string
}

// EnabledFor reports whether the generator for proto is switched on.
func (o *Options) EnabledFor(proto Protocol) bool {
	switch proto {
	case ProtocolDNS:
		return o.DNSNoise
	case ProtocolHTTP:
		return o.HTTPFlood
	case ProtocolTCP:
		return o.TCPNoise
	case ProtocolUDP:
		return o.UDPNoise
	}
	return false
}

// EnabledProtocols returns the switched-on protocols in reporting order.
func (o *Options) EnabledProtocols() []Protocol {
	var enabled []Protocol
	for _, p := range Protocols() {
		if o.EnabledFor(p) {
			enabled = append(enabled, p)
		}
	}
	return enabled
}
