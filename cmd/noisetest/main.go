// Command noisetest exercises each noise generator once against real
// network targets and reports per-protocol latency. It is a manual
// smoke test for egress paths, not part of the noise engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gonoise/gonoise/core/noise"
)

func main() {
	dnsProbe := flag.Bool("dns", false, "Send one DNS noise query")
	httpProbe := flag.Bool("http", false, "Send one HTTP noise request")
	tcpProbe := flag.Bool("tcp", false, "Open one TCP noise connection")
	udpProbe := flag.Bool("udp", false, "Send one UDP noise packet")
	all := flag.Bool("all", false, "Probe every generator once")
	resolver := flag.String("resolver", "", "DNS resolver to query (host[:port])")
	camouflage := flag.Bool("tls-camouflage", false, "Use a browser TLS fingerprint on the TCP probe")
	timeout := flag.Duration("timeout", 10*time.Second, "Per-probe timeout")

	flag.Parse()

	if *all {
		*dnsProbe, *httpProbe, *tcpProbe, *udpProbe = true, true, true, true
	}

	if !*dnsProbe && !*httpProbe && !*tcpProbe && !*udpProbe {
		fmt.Println("gonoise generator probe")
		fmt.Println("Usage:")
		flag.PrintDefaults()
		return
	}

	var gens []noise.Generator
	if *dnsProbe {
		gens = append(gens, noise.NewDNSGenerator(noise.DNSConfig{Server: *resolver}))
	}
	if *httpProbe {
		gens = append(gens, noise.NewHTTPGenerator(noise.HTTPConfig{}))
	}
	if *tcpProbe {
		gens = append(gens, noise.NewTCPGenerator(noise.TCPConfig{Camouflage: *camouflage}))
	}
	if *udpProbe {
		gens = append(gens, noise.NewUDPGenerator(noise.UDPConfig{}))
	}

	failed := false
	for _, gen := range gens {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		start := time.Now()
		err := gen.Attempt(ctx)
		latency := time.Since(start).Round(time.Millisecond)
		cancel()

		name := strings.ToUpper(string(gen.Protocol()))
		if err != nil {
			failed = true
			fmt.Printf("❌ FAIL  %-5s %v (%s)\n", name, err, latency)
			continue
		}
		fmt.Printf("✅ PASS  %-5s %s\n", name, latency)
	}

	if failed {
		os.Exit(1)
	}
}
