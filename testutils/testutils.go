// Package testutils provides local network fixtures for exercising
// the noise generators without touching real hosts.
package testutils

import (
	"io"
	"net"
	"sync"
	"time"

	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
)

// TestTimeout is the default timeout for operations in tests.
const TestTimeout = 5 * time.Second

// TestInterval is the default interval for polling in tests.
const TestInterval = 100 * time.Millisecond

// MockEchoServer is a simple TCP server that echoes back any data it
// receives.
type MockEchoServer struct {
	listener net.Listener
	addr     string
}

// NewMockEchoServer creates and starts a new MockEchoServer.
func NewMockEchoServer() *MockEchoServer {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	s := &MockEchoServer{
		listener: listener,
		addr:     listener.Addr().String(),
	}
	go s.run()
	return s
}

func (s *MockEchoServer) run() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return // Listener was closed
		}
		go func(c net.Conn) {
			defer func() { _ = c.Close() }()
			_, _ = io.Copy(c, c)
		}(conn)
	}
}

// Addr returns the address of the server.
func (s *MockEchoServer) Addr() string {
	return s.addr
}

// Close stops the server.
func (s *MockEchoServer) Close() {
	_ = s.listener.Close()
}

// MockTLSEchoServer is a TLS server with a self-signed certificate
// that echoes back any data it receives.
type MockTLSEchoServer struct {
	listener net.Listener
	addr     string
	cert     tls.Certificate
}

// NewMockTLSEchoServer creates and starts a new MockTLSEchoServer.
func NewMockTLSEchoServer() *MockTLSEchoServer {
	cert, err := generateTestCert()
	if err != nil {
		panic(err)
	}

	config := &tls.Config{Certificates: []tls.Certificate{cert}}
	listener, err := tls.Listen("tcp", "127.0.0.1:0", config)
	if err != nil {
		panic(err)
	}

	s := &MockTLSEchoServer{
		listener: listener,
		addr:     listener.Addr().String(),
		cert:     cert,
	}
	go s.run()
	return s
}

func (s *MockTLSEchoServer) run() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return // Listener was closed
		}
		go func(c net.Conn) {
			defer func() { _ = c.Close() }()
			_, _ = io.Copy(c, c)
		}(conn)
	}
}

// Addr returns the address of the server.
func (s *MockTLSEchoServer) Addr() string {
	return s.addr
}

// Close stops the server.
func (s *MockTLSEchoServer) Close() {
	_ = s.listener.Close()
}

// MockUDPSink is a UDP listener that stores every datagram it
// receives, so tests can assert on payloads the generators emit.
type MockUDPSink struct {
	conn net.PacketConn
	addr string

	mu      sync.Mutex
	packets [][]byte
}

// NewMockUDPSink creates and starts a new MockUDPSink.
func NewMockUDPSink() *MockUDPSink {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	s := &MockUDPSink{conn: conn, addr: conn.LocalAddr().String()}
	go s.run()
	return s
}

func (s *MockUDPSink) run() {
	buf := make([]byte, 64<<10)
	for {
		n, _, err := s.conn.ReadFrom(buf)
		if err != nil {
			return // Socket was closed
		}
		pkt := append([]byte(nil), buf[:n]...)
		s.mu.Lock()
		s.packets = append(s.packets, pkt)
		s.mu.Unlock()
	}
}

// Addr returns the address of the sink.
func (s *MockUDPSink) Addr() string {
	return s.addr
}

// Packets returns a copy of everything received so far.
func (s *MockUDPSink) Packets() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.packets...)
}

// Close stops the sink.
func (s *MockUDPSink) Close() {
	_ = s.conn.Close()
}

// generateTestCert creates a self-signed certificate for testing.
func generateTestCert() (tls.Certificate, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return tls.Certificate{}, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"Acme Co"},
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, err
	}

	certPem := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: derBytes})
	keyPem := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	return tls.X509KeyPair(certPem, keyPem)
}
