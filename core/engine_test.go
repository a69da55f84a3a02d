package core

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonoise/gonoise/core/config"
	"github.com/gonoise/gonoise/core/noise"
	"github.com/gonoise/gonoise/testutils"
)

// countingGen succeeds instantly, or drags its feet when slow is set.
type countingGen struct {
	proto config.Protocol
	err   error
	slow  time.Duration

	count atomic.Int64
}

func (g *countingGen) Protocol() config.Protocol { return g.proto }

func (g *countingGen) Attempt(context.Context) error {
	g.count.Add(1)
	if g.slow > 0 {
		time.Sleep(g.slow)
	}
	return g.err
}

// fastOptions enables DNS with a profile that admits everything and
// barely pauses, so lifecycle tests turn over quickly.
func fastOptions() *config.Options {
	return &config.Options{
		DNSNoise:  true,
		Pattern:   "fast",
		Intensity: 1.0,
		Profiles: map[string]config.Profile{
			"fast": {
				Name:      "fast",
				HTTPRatio: 1,
				DNSRatio:  1,
				TCPRatio:  1,
				UDPRatio:  1,
				DelayMin:  time.Millisecond,
				DelayMax:  2 * time.Millisecond,
			},
		},
	}
}

func TestNew(t *testing.T) {
	logger := testutils.NewTestLogger()

	t.Run("nil_options_rejected", func(t *testing.T) {
		_, err := New(nil, logger)
		require.Error(t, err)
	})

	t.Run("intensity_out_of_range", func(t *testing.T) {
		opts := fastOptions()
		opts.Intensity = 99
		_, err := New(opts, logger)
		assert.ErrorIs(t, err, config.ErrIntensityRange)
	})

	t.Run("unknown_pattern", func(t *testing.T) {
		opts := fastOptions()
		opts.Pattern = "warp"
		_, err := New(opts, logger)
		assert.ErrorIs(t, err, config.ErrUnknownPattern)
	})

	t.Run("valid", func(t *testing.T) {
		e, err := New(fastOptions(), logger)
		require.NoError(t, err)
		assert.NotEmpty(t, e.RunID())
	})
}

func TestEngineStart(t *testing.T) {
	logger := testutils.NewTestLogger()

	t.Run("nothing_enabled", func(t *testing.T) {
		opts := fastOptions()
		opts.DNSNoise = false
		e, err := New(opts, logger)
		require.NoError(t, err)

		err = e.Start(context.Background())
		assert.ErrorIs(t, err, config.ErrNothingEnabled)
	})

	t.Run("already_running", func(t *testing.T) {
		e, err := New(fastOptions(), logger)
		require.NoError(t, err)
		e.generators = []noise.Generator{&countingGen{proto: config.ProtocolDNS}}

		require.NoError(t, e.Start(context.Background()))
		defer func() { _ = e.Stop() }()

		err = e.Start(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already running")
	})
}

func TestEngineLifecycle(t *testing.T) {
	logger := testutils.NewTestLogger()

	gen := &countingGen{proto: config.ProtocolDNS}
	e, err := New(fastOptions(), logger)
	require.NoError(t, err)
	e.generators = []noise.Generator{gen}

	require.NoError(t, e.Start(context.Background()))

	require.Eventually(t, func() bool {
		return e.Snapshot()[config.ProtocolDNS].Ops > 0
	}, 2*time.Second, 10*time.Millisecond, "loops should produce traffic shortly after start")

	status, err := e.Status()
	require.NoError(t, err)
	assert.Contains(t, status, "running")
	assert.Contains(t, status, "fast")

	require.NoError(t, e.Stop())
	require.NoError(t, e.Stop(), "second stop is a no-op")

	status, err = e.Status()
	require.NoError(t, err)
	assert.Contains(t, status, "stopped")

	// The generator goes quiet once the loops are down.
	n := gen.count.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, gen.count.Load())

	// A stopped engine can run again.
	require.NoError(t, e.Start(context.Background()))
	require.NoError(t, e.Stop())
}

func TestEngineStopBounded(t *testing.T) {
	logger := testutils.NewTestLogger()

	gen := &countingGen{proto: config.ProtocolDNS, slow: 3 * time.Second}
	e, err := New(fastOptions(), logger)
	require.NoError(t, err)
	e.generators = []noise.Generator{gen}

	require.NoError(t, e.Start(context.Background()))
	require.Eventually(t, func() bool { return gen.count.Load() > 0 },
		time.Second, 5*time.Millisecond)

	start := time.Now()
	require.NoError(t, e.Stop())
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, taskStopTimeout, "a wedged task costs one full timeout")
	assert.Less(t, elapsed, 2500*time.Millisecond, "shutdown must abandon wedged tasks")
}

func TestEngineFailingGenerators(t *testing.T) {
	logger := testutils.NewTestLogger()

	dnsGen := &countingGen{proto: config.ProtocolDNS, err: errors.New("resolver down")}
	udpGen := &countingGen{proto: config.ProtocolUDP, err: errors.New("unreachable")}

	opts := fastOptions()
	opts.UDPNoise = true
	opts.TorMode = true
	e, err := New(opts, logger)
	require.NoError(t, err)
	e.generators = []noise.Generator{dnsGen, udpGen}

	require.NoError(t, e.Start(context.Background()))
	require.Eventually(t, func() bool {
		return dnsGen.count.Load() > 0 && udpGen.count.Load() > 0
	}, 2*time.Second, 10*time.Millisecond, "failing generators keep attempting")

	start := time.Now()
	require.NoError(t, e.Stop(), "failures never escape a generator loop")
	assert.Less(t, time.Since(start), 2500*time.Millisecond,
		"tor pacing sleeps must not delay shutdown")

	snap := e.Snapshot()
	assert.Zero(t, snap[config.ProtocolDNS].Ops, "failed acts never count as operations")
	assert.Zero(t, snap[config.ProtocolUDP].Ops)
	assert.Greater(t, snap[config.ProtocolDNS].Failures, uint64(0))
	assert.Greater(t, snap[config.ProtocolUDP].Failures, uint64(0))
}

func TestEngineHTTPOnlyHighIntensity(t *testing.T) {
	logger := testutils.NewTestLogger()

	gen := &countingGen{proto: config.ProtocolHTTP}
	opts := &config.Options{HTTPFlood: true, Pattern: "chaotic", Intensity: 10.0}
	e, err := New(opts, logger)
	require.NoError(t, err)
	e.generators = []noise.Generator{gen}

	require.NoError(t, e.Start(context.Background()))
	require.Eventually(t, func() bool {
		return e.Snapshot()[config.ProtocolHTTP].Ops > 0
	}, 2*time.Second, 10*time.Millisecond)

	start := time.Now()
	require.NoError(t, e.Stop())
	assert.Less(t, time.Since(start), 2500*time.Millisecond)

	snap := e.Snapshot()
	assert.Greater(t, snap[config.ProtocolHTTP].Ops, uint64(0))
	for _, proto := range []config.Protocol{config.ProtocolDNS, config.ProtocolTCP, config.ProtocolUDP} {
		assert.Equal(t, Counts{}, snap[proto], "disabled protocols must stay silent")
	}
}

func TestEngineParentContextCancel(t *testing.T) {
	logger := testutils.NewTestLogger()

	gen := &countingGen{proto: config.ProtocolDNS}
	e, err := New(fastOptions(), logger)
	require.NoError(t, err)
	e.generators = []noise.Generator{gen}

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, e.Start(ctx))
	require.Eventually(t, func() bool { return gen.count.Load() > 0 },
		time.Second, 5*time.Millisecond)

	cancel()

	start := time.Now()
	require.NoError(t, e.Stop())
	assert.Less(t, time.Since(start), 500*time.Millisecond,
		"loops already stopped by the parent context")
}

func TestEngineMetricsCollector(t *testing.T) {
	opts := fastOptions()
	opts.MetricsAddr = "127.0.0.1:0"
	e, err := New(opts, testutils.NewTestLogger())
	require.NoError(t, err)
	require.NotNil(t, e.collector)

	e.Record(config.ProtocolDNS, nil)
	e.Record(config.ProtocolDNS, errors.New("timeout"))

	srv := httptest.NewServer(e.collector.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `gonoise_operations_total{protocol="dns"} 1`)
	assert.Contains(t, string(body), `gonoise_failures_total{protocol="dns"} 1`)
	assert.Contains(t, string(body), e.RunID())

	assert.EqualValues(t, 1, e.Snapshot()[config.ProtocolDNS].Ops,
		"stats and collector observe the same outcomes")
}

func TestEngineEndToEnd(t *testing.T) {
	sink := testutils.NewMockUDPSink()
	defer sink.Close()

	// A real UDP generator with its dial redirected to the sink,
	// driven by the full engine stack.
	dial := func(ctx context.Context, _, _ string) (net.Conn, error) {
		d := &net.Dialer{}
		return d.DialContext(ctx, "udp", sink.Addr())
	}
	gen := noise.NewUDPGenerator(noise.UDPConfig{Dial: dial})

	opts := fastOptions()
	opts.DNSNoise = false
	opts.UDPNoise = true
	e, err := New(opts, testutils.NewTestLogger())
	require.NoError(t, err)
	e.generators = []noise.Generator{gen}

	require.NoError(t, e.Start(context.Background()))

	require.Eventually(t, func() bool { return len(sink.Packets()) > 0 },
		2*time.Second, 10*time.Millisecond, "datagrams should reach the sink")

	require.NoError(t, e.Stop())

	snap := e.Snapshot()
	assert.Greater(t, snap[config.ProtocolUDP].Ops, uint64(0))
	for _, pkt := range sink.Packets() {
		assert.NotEmpty(t, pkt)
	}
}
