package noise

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/gonoise/gonoise/core/config"
)

// dnsTimeout bounds a single query round trip.
const dnsTimeout = 5 * time.Second

// fallbackResolver answers when no resolver is configured and
// resolv.conf is unusable.
const fallbackResolver = "8.8.8.8:53"

// Exchanger performs one DNS round trip. *dns.Client satisfies it.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
}

// DNSConfig configures the DNS noise generator.
type DNSConfig struct {
	// Server is the resolver to query, as host:port or bare host.
	// Empty selects the first resolv.conf nameserver, then the public
	// fallback.
	Server string

	// Exchanger overrides the DNS client, for tests. Nil selects a
	// dns.Client with the default timeout.
	Exchanger Exchanger

	// Rand overrides the entropy source. Nil selects CryptoRand.
	Rand Rand
}

// DNSGenerator emits queries for plausible names against a real
// resolver.
type DNSGenerator struct {
	server    string
	exchanger Exchanger
	rand      Rand
}

// NewDNSGenerator builds a DNS noise generator.
func NewDNSGenerator(cfg DNSConfig) *DNSGenerator {
	g := &DNSGenerator{
		server:    cfg.Server,
		exchanger: cfg.Exchanger,
		rand:      cfg.Rand,
	}
	if g.server == "" {
		g.server = systemResolver()
	} else {
		g.server = ensurePort(g.server, "53")
	}
	if g.exchanger == nil {
		g.exchanger = &dns.Client{Timeout: dnsTimeout}
	}
	if g.rand == nil {
		g.rand = CryptoRand()
	}
	return g
}

// Protocol implements Generator.
func (g *DNSGenerator) Protocol() config.Protocol { return config.ProtocolDNS }

// Server returns the resolver address the generator queries.
func (g *DNSGenerator) Server() string { return g.server }

var dnsQueryTypes = []uint16{dns.TypeA, dns.TypeAAAA, dns.TypeMX, dns.TypeTXT, dns.TypeNS}

// Attempt sends one query for a random name and waits for the reply.
// Any reply, NXDOMAIN included, is a success: the traffic is the
// point, not the answer.
func (g *DNSGenerator) Attempt(ctx context.Context) error {
	name := g.randomName()
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), pick(g.rand, dnsQueryTypes))

	if _, _, err := g.exchanger.ExchangeContext(ctx, m, g.server); err != nil {
		return fmt.Errorf("query for %s failed: %w", name, err)
	}
	return nil
}

// randomName picks a domain, prefixing a subdomain half the time.
func (g *DNSGenerator) randomName() string {
	domain := pick(g.rand, noiseDomains)
	if g.rand.Float64() > 0.5 {
		return pick(g.rand, noiseSubdomains) + "." + domain
	}
	return domain
}

// systemResolver returns the first resolv.conf nameserver, or the
// public fallback when the file is unusable.
func systemResolver() string {
	cc, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cc.Servers) == 0 {
		return fallbackResolver
	}
	return net.JoinHostPort(cc.Servers[0], cc.Port)
}

// ensurePort appends the default port when addr does not carry one.
func ensurePort(addr, defaultPort string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, defaultPort)
}
