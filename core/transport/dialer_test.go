package transport

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"
)

func TestNewDialerDirect(t *testing.T) {
	server, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start test server: %v", err)
	}
	defer server.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		conn, err := server.Accept()
		if err != nil {
			t.Logf("Server accept error: %v", err)
			return
		}
		defer conn.Close()
		io.CopyN(conn, conn, 4)
	}()

	dial, err := NewDialer(&Config{DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewDialer failed: %v", err)
	}

	conn, err := dial(context.Background(), "tcp", server.Addr().String())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	msg := []byte("ping")
	if _, err := conn.Write(msg); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	buf := make([]byte, 4)
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(buf) != string(msg) {
		t.Errorf("Expected to read %q, got %q", msg, buf)
	}

	wg.Wait()
}

func TestNewDialerCanceledContext(t *testing.T) {
	dial, err := NewDialer(&Config{DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewDialer failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 192.0.2.0/24 is TEST-NET-1; nothing should answer there anyway.
	if _, err := dial(ctx, "tcp", "192.0.2.1:9"); err == nil {
		t.Fatal("expected dial with canceled context to fail")
	}
}

func TestNewDialerSOCKS5(t *testing.T) {
	dial, err := NewDialer(&Config{DialTimeout: time.Second, SOCKS5Addr: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewDialer with SOCKS5 address failed: %v", err)
	}
	if dial == nil {
		t.Fatal("expected a dialer")
	}

	// The proxy is not listening, so dialing through it must fail.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := dial(ctx, "tcp", "example.com:80"); err == nil {
		t.Fatal("expected dial through dead proxy to fail")
	}
}
