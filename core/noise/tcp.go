package noise

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	utls "github.com/refraction-networking/utls"

	"github.com/gonoise/gonoise/core/config"
	"github.com/gonoise/gonoise/core/transport"
)

// tcpDialTimeout bounds connection establishment.
const tcpDialTimeout = 5 * time.Second

// tcpReadTimeout bounds the optional response read.
const tcpReadTimeout = 2 * time.Second

// tcpReadSize is how much of a response is consumed when the generator
// decides to read at all.
const tcpReadSize = 4096

// camouflageHellos are the browser fingerprints rotated through when
// TLS camouflage is on.
var camouflageHellos = []utls.ClientHelloID{
	utls.HelloChrome_Auto,
	utls.HelloFirefox_Auto,
	utls.HelloIOS_Auto,
	utls.HelloAndroid_11_OkHttp,
	utls.HelloRandomized,
}

// TCPConfig configures the TCP noise generator.
type TCPConfig struct {
	// Dial overrides the egress dialer. Nil selects a direct dialer
	// with the default timeout.
	Dial transport.Dialer

	// Camouflage upgrades connections to TLS-family ports to a full
	// uTLS handshake with a rotating browser fingerprint.
	Camouflage bool

	// Rand overrides the entropy source. Nil selects CryptoRand.
	Rand Rand
}

// TCPGenerator opens short-lived connections to well-known hosts,
// optionally speaking a few bytes of plausible HTTP.
type TCPGenerator struct {
	dial       transport.Dialer
	camouflage bool
	rand       Rand
}

// NewTCPGenerator builds a TCP noise generator.
func NewTCPGenerator(cfg TCPConfig) *TCPGenerator {
	g := &TCPGenerator{
		dial:       cfg.Dial,
		camouflage: cfg.Camouflage,
		rand:       cfg.Rand,
	}
	if g.dial == nil {
		d := &net.Dialer{Timeout: tcpDialTimeout}
		g.dial = d.DialContext
	}
	if g.rand == nil {
		g.rand = CryptoRand()
	}
	return g
}

// Protocol implements Generator.
func (g *TCPGenerator) Protocol() config.Protocol { return config.ProtocolTCP }

// Attempt opens one connection to a random target. On HTTP-family
// ports it writes a templated request head and occasionally reads part
// of the answer. With camouflage on, TLS-family ports get a uTLS
// handshake instead.
func (g *TCPGenerator) Attempt(ctx context.Context) error {
	host := pick(g.rand, tcpTargets)
	port := pick(g.rand, tcpPorts)
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	if g.camouflage && isTLSPort(port) {
		return g.attemptTLS(ctx, host, addr)
	}

	conn, err := g.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to %s failed: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	if isHTTPPort(port) {
		head := fmt.Sprintf(pick(g.rand, httpRequestTemplates), host)
		if _, err := conn.Write([]byte(head)); err != nil {
			return fmt.Errorf("write to %s failed: %w", addr, err)
		}
		if g.rand.Float64() > 0.7 {
			_ = conn.SetReadDeadline(time.Now().Add(tcpReadTimeout))
			buf := make([]byte, tcpReadSize)
			_, _ = conn.Read(buf)
		}
	}
	return nil
}

// attemptTLS dials addr and performs a uTLS handshake presenting a
// browser fingerprint, then hangs up.
func (g *TCPGenerator) attemptTLS(ctx context.Context, host, addr string) error {
	conn, err := g.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to %s failed: %w", addr, err)
	}

	ucfg := &utls.Config{ServerName: host}
	uconn := utls.UClient(conn, ucfg, pick(g.rand, camouflageHellos))
	if err := uconn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return fmt.Errorf("tls handshake with %s failed: %w", addr, err)
	}
	return uconn.Close()
}
