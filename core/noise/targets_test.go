package noise

import (
	"net/netip"
	"strings"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetTables(t *testing.T) {
	t.Run("sizes", func(t *testing.T) {
		assert.Len(t, noiseDomains, 31)
		assert.Len(t, noiseSubdomains, 16)
		assert.Len(t, noiseURLs, 18)
		assert.Len(t, userAgents, 6)
		assert.Len(t, tcpTargets, 14)
		assert.Len(t, tcpPorts, 11)
		assert.Len(t, httpRequestTemplates, 4)
		assert.Len(t, udpPorts, 9)
	})

	t.Run("no_duplicates", func(t *testing.T) {
		for _, table := range [][]string{noiseDomains, noiseSubdomains, noiseURLs, userAgents, tcpTargets} {
			seen := make(map[string]bool, len(table))
			for _, entry := range table {
				assert.False(t, seen[entry], "duplicate entry %q", entry)
				seen[entry] = true
			}
		}
	})

	t.Run("urls_are_https", func(t *testing.T) {
		for _, u := range noiseURLs {
			assert.True(t, strings.HasPrefix(u, "https://"), "url %q", u)
		}
	})

	t.Run("request_templates_are_complete_heads", func(t *testing.T) {
		for _, tmpl := range httpRequestTemplates {
			assert.Contains(t, tmpl, "%s", "template must take a host")
			assert.True(t, strings.HasSuffix(tmpl, "\r\n\r\n"), "template %q must end the head", tmpl)
		}
	})
}

func TestDNSProbePayload(t *testing.T) {
	payload := dnsProbePayload()

	var m dns.Msg
	require.NoError(t, m.Unpack(payload))
	assert.EqualValues(t, 1, m.Id)
	assert.True(t, m.RecursionDesired)
	require.Len(t, m.Question, 1)
	assert.Equal(t, "www.mozilla.org.", m.Question[0].Name)
	assert.Equal(t, dns.TypeA, m.Question[0].Qtype)
}

func TestNTPProbePayload(t *testing.T) {
	payload := ntpProbePayload()
	require.Len(t, payload, 48)
	assert.Equal(t, byte(0x1b), payload[0])
	for _, b := range payload[1:] {
		require.Zero(t, b)
	}
}

func TestUDPPayloadFor(t *testing.T) {
	rnd := newTestRand(61)

	t.Run("dns_on_53", func(t *testing.T) {
		assert.Equal(t, dnsProbePayload(), udpPayloadFor(53, rnd))
	})

	t.Run("ntp_on_123", func(t *testing.T) {
		assert.Equal(t, ntpProbePayload(), udpPayloadFor(123, rnd))
	})

	t.Run("filler_sized_16_to_128", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			b := udpPayloadFor(1900, rnd)
			require.GreaterOrEqual(t, len(b), 16)
			require.LessOrEqual(t, len(b), 128)
		}
	})
}

func TestPortClassifiers(t *testing.T) {
	for _, p := range []int{80, 443, 8080, 8443} {
		assert.True(t, isHTTPPort(p), "port %d", p)
	}
	for _, p := range []int{22, 25, 143, 993, 587, 110, 995} {
		assert.False(t, isHTTPPort(p), "port %d", p)
	}

	for _, p := range []int{443, 8443, 993, 995} {
		assert.True(t, isTLSPort(p), "port %d", p)
	}
	for _, p := range []int{80, 8080, 22, 25, 143, 587, 110} {
		assert.False(t, isTLSPort(p), "port %d", p)
	}
}

func TestRandomPublicIPv4(t *testing.T) {
	t.Run("never_reserved", func(t *testing.T) {
		rnd := newTestRand(67)
		for i := 0; i < 500; i++ {
			addr, err := netip.ParseAddr(randomPublicIPv4(rnd))
			require.NoError(t, err)
			require.True(t, addr.Is4())
			require.False(t, addr.IsPrivate(), "%s is private", addr)
			require.False(t, addr.IsLoopback(), "%s is loopback", addr)
			require.False(t, addr.IsLinkLocalUnicast(), "%s is link local", addr)
			require.False(t, addr.IsMulticast(), "%s is multicast", addr)
		}
	})

	t.Run("rejects_and_redraws", func(t *testing.T) {
		// The first four octets spell 192.168.1.1, which must be
		// thrown away in favor of the next draw.
		rnd := &scriptRand{ints: []int{191, 167, 0, 0, 93, 93, 93, 93}}
		assert.Equal(t, "94.94.94.94", randomPublicIPv4(rnd))
	})

	t.Run("octets_stay_in_range", func(t *testing.T) {
		rnd := newTestRand(71)
		for i := 0; i < 2000; i++ {
			o := octet(rnd)
			require.GreaterOrEqual(t, o, byte(1))
			require.LessOrEqual(t, o, byte(254))
		}
	})
}
