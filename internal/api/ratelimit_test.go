package api

import (
	"testing"
	"time"
)

func TestRateLimiter_BurstThenBlock(t *testing.T) {
	rl := NewRateLimiter(60, 3)

	for i := 0; i < 3; i++ {
		if allowed, _ := rl.allow("10.0.0.1"); !allowed {
			t.Fatalf("Expected request %d within burst to pass", i+1)
		}
	}

	allowed, retryAfter := rl.allow("10.0.0.1")
	if allowed {
		t.Fatal("Expected the 4th immediate request to be limited")
	}
	if retryAfter <= 0 {
		t.Errorf("Expected a positive Retry-After, got %s", retryAfter)
	}
}

func TestRateLimiter_PerIPIsolation(t *testing.T) {
	rl := NewRateLimiter(60, 1)

	if allowed, _ := rl.allow("10.0.0.1"); !allowed {
		t.Fatal("Expected first IP to pass")
	}
	if allowed, _ := rl.allow("10.0.0.1"); allowed {
		t.Fatal("Expected first IP to be exhausted")
	}
	if allowed, _ := rl.allow("10.0.0.2"); !allowed {
		t.Error("Expected a different IP to have its own bucket")
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	// 6000/min = 100 tokens per second
	rl := NewRateLimiter(6000, 1)

	rl.allow("10.0.0.1")
	if allowed, _ := rl.allow("10.0.0.1"); allowed {
		t.Fatal("Expected the bucket to be empty")
	}

	time.Sleep(50 * time.Millisecond)
	if allowed, _ := rl.allow("10.0.0.1"); !allowed {
		t.Error("Expected the bucket to refill after waiting")
	}
}
