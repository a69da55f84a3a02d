package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProfiles(t *testing.T) {
	table := BuiltinProfiles()

	require.Len(t, table, 4)
	for _, name := range []string{"browsing", "streaming", "gaming", "chaotic"} {
		p, ok := table[name]
		require.True(t, ok, "missing builtin profile %q", name)
		assert.Equal(t, name, p.Name)
		assert.NoError(t, p.Validate())
	}

	browsing := table["browsing"]
	assert.Equal(t, 0.6, browsing.HTTPRatio)
	assert.Equal(t, 0.3, browsing.DNSRatio)
	assert.Equal(t, 0.1, browsing.TCPRatio)
	assert.Equal(t, 0.05, browsing.UDPRatio)
	assert.Equal(t, 1*time.Second, browsing.DelayMin)
	assert.Equal(t, 8*time.Second, browsing.DelayMax)

	chaotic := table["chaotic"]
	assert.Equal(t, 1.0, chaotic.HTTPRatio)
	assert.Equal(t, 1.0, chaotic.UDPRatio)
	assert.Equal(t, 100*time.Millisecond, chaotic.DelayMin)
	assert.Equal(t, 500*time.Millisecond, chaotic.DelayMax)
}

func TestBuiltinProfilesReturnsIndependentCopies(t *testing.T) {
	first := BuiltinProfiles()
	first["browsing"] = Profile{Name: "mutated"}
	delete(first, "gaming")

	second := BuiltinProfiles()
	assert.Equal(t, "browsing", second["browsing"].Name)
	assert.Contains(t, second, "gaming")
}

func TestProfileRatioFor(t *testing.T) {
	p := Profile{HTTPRatio: 0.6, DNSRatio: 0.3, TCPRatio: 0.1, UDPRatio: 0.05}

	assert.Equal(t, 0.3, p.RatioFor(ProtocolDNS))
	assert.Equal(t, 0.6, p.RatioFor(ProtocolHTTP))
	assert.Equal(t, 0.1, p.RatioFor(ProtocolTCP))
	assert.Equal(t, 0.05, p.RatioFor(ProtocolUDP))
	assert.Zero(t, p.RatioFor(Protocol("icmp")))
}

func TestOptionsEnabledProtocols(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []Protocol
	}{
		{
			name: "none_enabled",
			opts: Options{},
			want: nil,
		},
		{
			name: "all_enabled",
			opts: Options{DNSNoise: true, HTTPFlood: true, TCPNoise: true, UDPNoise: true},
			want: []Protocol{ProtocolDNS, ProtocolHTTP, ProtocolTCP, ProtocolUDP},
		},
		{
			name: "dns_only",
			opts: Options{DNSNoise: true},
			want: []Protocol{ProtocolDNS},
		},
		{
			name: "tcp_and_udp",
			opts: Options{TCPNoise: true, UDPNoise: true},
			want: []Protocol{ProtocolTCP, ProtocolUDP},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.EnabledProtocols())
		})
	}
}
