package ratelimit

import (
	"testing"
	"time"
)

func TestAllowFreshKey(t *testing.T) {
	l := NewLimiter(DefaultConfig())

	res := l.Allow("ip:10.0.0.1")
	if !res.Allowed {
		t.Error("expected fresh key to be allowed")
	}
}

func TestLockoutAfterMaxFailures(t *testing.T) {
	l := NewLimiter(Config{
		MaxAttempts: 3,
		Window:      time.Minute,
		Lockout:     time.Minute,
	})

	for i := 0; i < 3; i++ {
		if res := l.Allow("ip:10.0.0.1"); !res.Allowed {
			t.Fatalf("attempt %d should be allowed", i)
		}
		l.RecordFailure("ip:10.0.0.1")
	}

	res := l.Allow("ip:10.0.0.1")
	if res.Allowed {
		t.Fatal("expected lockout after 3 failures")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("expected positive RetryAfter, got %v", res.RetryAfter)
	}
}

func TestLockoutOnAnyKey(t *testing.T) {
	l := NewLimiter(Config{
		MaxAttempts: 2,
		Window:      time.Minute,
		Lockout:     time.Minute,
	})

	l.RecordFailure("email:ops@example.com")
	l.RecordFailure("email:ops@example.com")

	// Fresh IP, locked email: the combined check fails.
	res := l.Allow("ip:10.0.0.2", "email:ops@example.com")
	if res.Allowed {
		t.Error("expected lockout when any key is locked")
	}
}

func TestResetClearsLockout(t *testing.T) {
	l := NewLimiter(Config{
		MaxAttempts: 1,
		Window:      time.Minute,
		Lockout:     time.Minute,
	})

	l.RecordFailure("ip:10.0.0.1")
	if res := l.Allow("ip:10.0.0.1"); res.Allowed {
		t.Fatal("expected lockout")
	}

	l.Reset("ip:10.0.0.1")
	if res := l.Allow("ip:10.0.0.1"); !res.Allowed {
		t.Error("expected reset to clear lockout")
	}
}

func TestFailuresBelowLimitStayAllowed(t *testing.T) {
	l := NewLimiter(Config{
		MaxAttempts: 5,
		Window:      time.Minute,
		Lockout:     time.Minute,
	})

	for i := 0; i < 4; i++ {
		l.RecordFailure("ip:10.0.0.1")
	}

	if res := l.Allow("ip:10.0.0.1"); !res.Allowed {
		t.Error("expected 4 of 5 failures to stay allowed")
	}
}
