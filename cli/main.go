// Command gonoise generates synthetic network noise to frustrate
// traffic analysis. It runs the configured noise generators until
// interrupted, printing periodic traffic stats when verbose logging
// is enabled.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gonoise/gonoise"
	"github.com/gonoise/gonoise/core/config"
	"github.com/gonoise/gonoise/pkg/logging"
)

const banner = `
 ██████╗  ██████╗ ███╗   ██╗ ██████╗ ██╗███████╗███████╗
██╔════╝ ██╔═══██╗████╗  ██║██╔═══██╗██║██╔════╝██╔════╝
██║  ███╗██║   ██║██╔██╗ ██║██║   ██║██║███████╗█████╗
██║   ██║██║   ██║██║╚██╗██║██║   ██║██║╚════██║██╔══╝
╚██████╔╝╚██████╔╝██║ ╚████║╚██████╔╝██║███████║███████╗
 ╚═════╝  ╚═════╝ ╚═╝  ╚═══╝ ╚═════╝ ╚═╝╚══════╝╚══════╝

            Synthetic Network Noise Generator
`

func main() {
	fs := flag.NewFlagSet("gonoise", flag.ExitOnError)

	dnsNoise := fs.Bool("dns-noise", false, "Generate DNS query noise")
	httpFlood := fs.Bool("http-flood", false, "Generate HTTP request noise")
	tcpNoise := fs.Bool("tcp-noise", false, "Generate TCP connection noise")
	udpNoise := fs.Bool("udp-noise", false, "Generate UDP packet noise")
	pattern := fs.String("pattern", config.DefaultPattern, "Traffic pattern (browsing, streaming, gaming, chaotic)")
	intensity := fs.Float64("intensity", config.DefaultIntensity, "Traffic intensity multiplier (0.1-10.0)")
	torMode := fs.Bool("tor-mode", false, "Pace traffic for the Tor network")
	mode := fs.String("mode", "standard", "Legacy operation mode (standard, chaotic)")
	resolver := fs.String("resolver", "", "DNS resolver for query noise (host[:port], system resolver when empty)")
	profilesPath := fs.String("profiles", "", "YAML file with traffic profile overrides")
	socks5 := fs.String("socks5", "", "SOCKS5 proxy address for TCP and HTTP noise (host:port)")
	tlsCamouflage := fs.Bool("tls-camouflage", false, "Use browser TLS fingerprints on TLS ports")
	maxRate := fs.Float64("max-rate", 0, "Global cap on noise actions per second (0 means uncapped)")
	metricsAddr := fs.String("metrics", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9090)")
	logFormat := fs.String("log-format", "console", "Log format (console, json)")
	verbose := fs.Bool("verbose", false, "Enable debug logging and periodic traffic stats")
	fs.BoolVar(verbose, "v", false, "Enable debug logging (shorthand)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	logging.InitLogger(level, *logFormat, nil)
	logger := logging.GetLogger()

	// The legacy chaotic mode only takes effect when the pattern flag
	// was left at its default.
	if *mode == "chaotic" && *pattern == "browsing" {
		*pattern = "chaotic"
	}

	opts := &config.Options{
		DNSNoise:      *dnsNoise,
		HTTPFlood:     *httpFlood,
		TCPNoise:      *tcpNoise,
		UDPNoise:      *udpNoise,
		Pattern:       *pattern,
		Intensity:     *intensity,
		TorMode:       *torMode,
		Resolver:      *resolver,
		SOCKS5Addr:    *socks5,
		TLSCamouflage: *tlsCamouflage,
		MaxRate:       *maxRate,
		MetricsAddr:   *metricsAddr,
	}

	if *profilesPath != "" {
		profiles, err := config.LoadProfilesFile(*profilesPath)
		if err != nil {
			logger.Error("Failed to load profiles file", "path", *profilesPath, "error", err)
			os.Exit(1)
		}
		opts.Profiles = profiles
	}

	fmt.Print(banner + "\n")

	engine, err := gonoise.NewEngine(opts, logger)
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("Starting noise generation",
		"pattern", opts.Pattern,
		"intensity", fmt.Sprintf("%gx", opts.Intensity))
	logger.Info("Active modules", "modules", moduleList(opts))
	if opts.TorMode {
		logger.Info("Tor mode active, traffic will be paced for the Tor network")
	}

	if err := engine.Start(context.Background()); err != nil {
		if errors.Is(err, config.ErrNothingEnabled) {
			logger.Warn("No noise modules enabled, nothing to do",
				"hint", "enable at least one of --dns-noise, --http-flood, --tcp-noise, --udp-noise")
			return
		}
		logger.Error("Failed to start noise engine", "error", err)
		os.Exit(1)
	}

	logger.Info("Noise generation started. Press Ctrl+C to exit.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	<-sigCh

	logger.Info("Received shutdown signal, stopping noise generators...")
	if err := engine.Stop(); err != nil {
		logger.Error("Error stopping noise engine", "error", err)
		os.Exit(1)
	}
	logger.Info("Noise generation stopped.")
}

// moduleList names the enabled generators for the startup summary.
func moduleList(opts *config.Options) string {
	var names []string
	for _, proto := range opts.EnabledProtocols() {
		names = append(names, strings.ToUpper(string(proto)))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, " ")
}
