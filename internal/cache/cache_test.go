package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Unexpected Set error: %v", err)
	}

	val, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Unexpected Get error: %v", err)
	}
	if string(val) != "v" {
		t.Errorf("Expected v, got %s", val)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing key, got %v", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected expired key to miss, got %v", err)
	}
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), 0)

	if _, err := c.Get(ctx, "k"); err != nil {
		t.Errorf("Expected zero-TTL entry to persist, got %v", err)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)
	c.Delete(ctx, "a", "b")

	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected a deleted, got %v", err)
	}
	if _, err := c.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected b deleted, got %v", err)
	}
}

func TestMemoryCache_OverwriteResetsTTL(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("old"), time.Nanosecond)
	c.Set(ctx, "k", []byte("new"), time.Minute)

	val, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Expected overwrite to reset the TTL, got %v", err)
	}
	if string(val) != "new" {
		t.Errorf("Expected new value, got %s", val)
	}
}
