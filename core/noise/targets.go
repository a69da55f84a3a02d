package noise

import (
	"net/netip"

	"github.com/miekg/dns"
)

// The target tables below are deliberately boring: high-traffic public
// sites whose presence in a capture says nothing about the user.

var noiseDomains = []string{
	"google.com", "facebook.com", "amazon.com", "github.com",
	"wikipedia.org", "twitter.com", "instagram.com", "reddit.com",
	"netflix.com", "youtube.com", "twitch.tv", "apple.com",
	"microsoft.com", "yahoo.com", "cloudflare.com", "akamai.com",
	"gitlab.com", "medium.com", "spotify.com", "mozilla.org",
	"stackoverflow.com", "debian.org", "ubuntu.com", "archlinux.org",
	"linux.org", "kernel.org", "gnu.org", "python.org",
	"rust-lang.org", "golang.org", "nasa.gov",
}

var noiseSubdomains = []string{
	"www", "mail", "api", "blog", "shop", "store", "dev", "admin",
	"cdn", "img", "media", "video", "static", "app", "mobile", "m",
}

var noiseURLs = []string{
	"https://httpbin.org/get", "https://en.wikipedia.org/wiki/Special:Random",
	"https://www.eff.org", "https://www.torproject.org",
	"https://www.mozilla.org", "https://www.kernel.org",
	"https://www.debian.org", "https://www.ubuntu.com",
	"https://www.archlinux.org", "https://www.python.org",
	"https://www.rust-lang.org", "https://www.gnu.org",
	"https://www.fsf.org", "https://www.linuxfoundation.org",
	"https://www.opensuse.org", "https://www.redhat.com",
	"https://www.kali.org", "https://www.gnome.org",
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.131 Safari/537.36 Edg/92.0.902.67",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 14_7_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.2 Mobile/15E148 Safari/604.1",
}

var tcpTargets = []string{
	"mozilla.org", "kernel.org",
	"debian.org", "ubuntu.com", "archlinux.org",
	"python.org", "rust-lang.org", "golang.org",
	"gnu.org", "fsf.org", "linuxfoundation.org",
	"opensuse.org", "redhat.com", "kali.org",
}

var tcpPorts = []int{80, 443, 8080, 8443, 22, 25, 143, 993, 587, 110, 995}

// Request heads written on HTTP-family ports so the connection looks
// like an aborted page load rather than a bare SYN scan.
var httpRequestTemplates = []string{
	"GET / HTTP/1.1\r\nHost: %s\r\nUser-Agent: Mozilla/5.0\r\n\r\n",
	"HEAD / HTTP/1.1\r\nHost: %s\r\nUser-Agent: Chrome/92.0\r\n\r\n",
	"GET /index.html HTTP/1.1\r\nHost: %s\r\nUser-Agent: Firefox/89.0\r\n\r\n",
	"GET /about HTTP/1.1\r\nHost: %s\r\nUser-Agent: Safari/605.1\r\n\r\n",
}

// DNS, NTP, SNMP, SSDP, mDNS, game and STUN ports.
var udpPorts = []int{53, 123, 161, 162, 1900, 5353, 27015, 3478, 3479}

// udpFallbackAddr receives the datagrams not sent to a random address.
const udpFallbackAddr = "8.8.8.8"

func isHTTPPort(port int) bool {
	switch port {
	case 80, 443, 8080, 8443:
		return true
	}
	return false
}

func isTLSPort(port int) bool {
	switch port {
	case 443, 8443, 993, 995:
		return true
	}
	return false
}

// dnsProbePayload returns a packed A query for www.mozilla.org, the
// classic innocuous lookup.
func dnsProbePayload() []byte {
	m := new(dns.Msg)
	m.SetQuestion("www.mozilla.org.", dns.TypeA)
	m.Id = 1
	out, err := m.Pack()
	if err != nil {
		// Pack cannot fail for a fixed well-formed question.
		panic(err)
	}
	return out
}

// ntpProbePayload returns a mode 3 (client) NTP request.
func ntpProbePayload() []byte {
	return append([]byte{0x1b}, make([]byte, 47)...)
}

// udpPayloadFor builds the datagram body for the given port: a real
// DNS query on 53, an NTP client request on 123, random filler
// of 16 to 128 bytes everywhere else.
func udpPayloadFor(port int, r Rand) []byte {
	switch port {
	case 53:
		return dnsProbePayload()
	case 123:
		return ntpProbePayload()
	default:
		b := make([]byte, 16+r.Intn(113))
		r.Fill(b)
		return b
	}
}

// randomPublicIPv4 returns a routable-looking IPv4 address outside the
// private, loopback, link-local and multicast ranges.
func randomPublicIPv4(r Rand) string {
	for {
		addr := netip.AddrFrom4([4]byte{octet(r), octet(r), octet(r), octet(r)})
		if addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsMulticast() {
			continue
		}
		return addr.String()
	}
}

func octet(r Rand) byte { return byte(1 + r.Intn(254)) }
