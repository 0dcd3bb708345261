package kit

import (
	"testing"
	"time"
)

func TestIPRateLimiterAllow(t *testing.T) {
	l := NewIPRateLimiter(3, 60)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.allow("10.0.0.1", now) {
			t.Fatalf("request %d blocked under limit", i+1)
		}
	}
	if l.allow("10.0.0.1", now) {
		t.Fatal("request over limit allowed")
	}

	// Other clients are unaffected.
	if !l.allow("10.0.0.2", now) {
		t.Fatal("unrelated client blocked")
	}

	// The window resets.
	if !l.allow("10.0.0.1", now.Add(61*time.Second)) {
		t.Fatal("blocked after window expired")
	}
}
