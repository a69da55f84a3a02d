package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/net/proxy"
)

// Dialer establishes outbound connections. It matches net.Dialer's
// DialContext shape so tests can substitute their own implementation.
type Dialer func(ctx context.Context, network, address string) (net.Conn, error)

// Config holds dialer construction options.
type Config struct {
	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration

	// KeepAlive tunes TCP keep-alive probes; zero keeps the
	// net.Dialer default.
	KeepAlive time.Duration

	// SOCKS5Addr, when non-empty, routes TCP connections through the
	// given SOCKS5 proxy. UDP traffic never goes through the proxy.
	SOCKS5Addr string
}

// NewDialer returns the egress dialer described by cfg: a plain
// net.Dialer by default, or a SOCKS5 client dialer when cfg.SOCKS5Addr
// is set.
func NewDialer(cfg *Config) (Dialer, error) {
	base := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	if cfg.SOCKS5Addr == "" {
		return base.DialContext, nil
	}

	socksDialer, err := proxy.SOCKS5("tcp", cfg.SOCKS5Addr, nil, base)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer for '%s': %w", cfg.SOCKS5Addr, err)
	}

	contextDialer, ok := socksDialer.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer does not support context dialing")
	}
	return contextDialer.DialContext, nil
}
