package transport

import (
	"testing"
	"time"
)

func TestThrottleUnlimited(t *testing.T) {
	if th := NewThrottle(0); th != nil {
		t.Fatalf("NewThrottle(0) = %v, want nil", th)
	}
	if th := NewThrottle(-3); th != nil {
		t.Fatalf("NewThrottle(-3) = %v, want nil", th)
	}

	var th *Throttle
	for i := 0; i < 100; i++ {
		if !th.Allow() {
			t.Fatal("nil throttle must admit everything")
		}
	}
}

func TestThrottleCapsBurst(t *testing.T) {
	th := NewThrottle(1)

	if !th.Allow() {
		t.Fatal("first action should be admitted")
	}
	if th.Allow() {
		t.Fatal("second immediate action should be rejected at 1/s")
	}
}

func TestThrottleRefills(t *testing.T) {
	th := NewThrottle(50)

	// Drain the burst.
	for th.Allow() {
	}

	time.Sleep(50 * time.Millisecond)
	if !th.Allow() {
		t.Fatal("throttle should admit again after refill")
	}
}

func TestThrottleFractionalRate(t *testing.T) {
	th := NewThrottle(0.5)
	if th == nil {
		t.Fatal("fractional rates are valid")
	}
	if !th.Allow() {
		t.Fatal("burst of one should admit the first action")
	}
	if th.Allow() {
		t.Fatal("second action should wait for the refill")
	}
}
