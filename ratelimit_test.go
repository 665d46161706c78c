package main

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemoryLimiter_AllowsUpToMax(t *testing.T) {
	l := NewMemoryLimiter(time.Minute, 5)

	for i := 0; i < 5; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("submission %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("6th submission within the window should be rejected")
	}
}

func TestMemoryLimiter_DenialDoesNotMutate(t *testing.T) {
	l := NewMemoryLimiter(time.Minute, 1)

	if !l.Allow("1.2.3.4") {
		t.Fatal("first submission should be allowed")
	}
	for i := 0; i < 3; i++ {
		if l.Allow("1.2.3.4") {
			t.Fatal("capped address should stay rejected")
		}
	}
	if rec := l.hits["1.2.3.4"]; rec.count != 1 {
		t.Errorf("denied calls must not increment the counter, got count=%d", rec.count)
	}
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	now := time.Now()
	l := NewMemoryLimiter(time.Minute, 5)
	l.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		l.Allow("1.2.3.4")
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("expected rejection at the cap")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("1.2.3.4") {
		t.Error("submission after the window elapsed should be accepted")
	}
	if rec := l.hits["1.2.3.4"]; rec.count != 1 {
		t.Errorf("expected counter reset to 1, got %d", rec.count)
	}
}

func TestRedisLimiter_FailsOpenWhenUnreachable(t *testing.T) {
	// Nothing listens on this address; every command errors out at dial.
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	l := NewRedisLimiter(rdb, time.Minute, 5)
	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatal("a broken counter must not reject submissions")
		}
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(time.Minute, 1)

	if !l.Allow("1.1.1.1") {
		t.Fatal("first address should be allowed")
	}
	if l.Allow("1.1.1.1") {
		t.Fatal("first address should now be capped")
	}
	if !l.Allow("2.2.2.2") {
		t.Error("second address must not be affected by the first's cap")
	}
}
