package noise

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/gonoise/gonoise/core/config"
	"github.com/gonoise/gonoise/core/transport"
)

// UDPConfig configures the UDP noise generator.
type UDPConfig struct {
	// Dial overrides the datagram dialer, for tests. Nil selects a
	// direct net.Dialer. SOCKS5 egress never applies to UDP.
	Dial transport.Dialer

	// Rand overrides the entropy source. Nil selects CryptoRand.
	Rand Rand
}

// UDPGenerator fires single datagrams at a mix of random public
// addresses and a well-known resolver.
type UDPGenerator struct {
	dial transport.Dialer
	rand Rand
}

// NewUDPGenerator builds a UDP noise generator.
func NewUDPGenerator(cfg UDPConfig) *UDPGenerator {
	g := &UDPGenerator{dial: cfg.Dial, rand: cfg.Rand}
	if g.dial == nil {
		d := &net.Dialer{}
		g.dial = d.DialContext
	}
	if g.rand == nil {
		g.rand = CryptoRand()
	}
	return g
}

// Protocol implements Generator.
func (g *UDPGenerator) Protocol() config.Protocol { return config.ProtocolUDP }

// Attempt sends one fire-and-forget datagram. Port 53 carries a real
// DNS query, port 123 an NTP client request, anything else random
// filler. Half the datagrams go to a random public address, the rest
// to the fallback resolver.
func (g *UDPGenerator) Attempt(ctx context.Context) error {
	port := pick(g.rand, udpPorts)
	payload := udpPayloadFor(port, g.rand)

	host := udpFallbackAddr
	if g.rand.Float64() > 0.5 {
		host = randomPublicIPv4(g.rand)
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := g.dial(ctx, "udp", addr)
	if err != nil {
		return fmt.Errorf("udp socket to %s failed: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("udp send to %s failed: %w", addr, err)
	}
	return nil
}
