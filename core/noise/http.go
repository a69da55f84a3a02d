package noise

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gonoise/gonoise/core/config"
)

// httpTimeout bounds one full request, body included.
const httpTimeout = 10 * time.Second

// maxDrainBytes caps how much of a response body is read before the
// connection is released.
const maxDrainBytes = 64 << 10

// httpDoer is the slice of http.Client the generator needs.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPConfig configures the HTTP noise generator.
type HTTPConfig struct {
	// Client overrides the HTTP client, for tests or custom egress.
	// Nil selects an http.Client with the default timeout.
	Client httpDoer

	// Rand overrides the entropy source. Nil selects CryptoRand.
	Rand Rand
}

// HTTPGenerator requests well-known pages with rotating browser
// User-Agent strings.
type HTTPGenerator struct {
	client httpDoer
	rand   Rand
}

// NewHTTPGenerator builds an HTTP noise generator.
func NewHTTPGenerator(cfg HTTPConfig) *HTTPGenerator {
	g := &HTTPGenerator{
		client: cfg.Client,
		rand:   cfg.Rand,
	}
	if g.client == nil {
		g.client = &http.Client{Timeout: httpTimeout}
	}
	if g.rand == nil {
		g.rand = CryptoRand()
	}
	return g
}

// Protocol implements Generator.
func (g *HTTPGenerator) Protocol() config.Protocol { return config.ProtocolHTTP }

// Attempt performs one request: GET four times out of five, otherwise
// a small form POST. The response status is irrelevant; the body is
// partially drained so keep-alive connections can be reused.
func (g *HTTPGenerator) Attempt(ctx context.Context) error {
	target := pick(g.rand, noiseURLs)
	agent := pick(g.rand, userAgents)

	var req *http.Request
	var err error
	if g.rand.Float64() > 0.8 {
		form := url.Values{
			"timestamp": {time.Now().Format("2006-01-02 15:04:05.000000")},
			"session":   {strconv.Itoa(1000 + g.rand.Intn(9000))},
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	req.Header.Set("User-Agent", agent)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	return nil
}
