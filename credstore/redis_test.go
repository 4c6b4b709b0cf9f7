package credstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "nunu-test", ttl), server
}

func TestRedisRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t, 0)

	if _, ok, err := store.Get(ctx, "nunu_token"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "nunu_token", "tok123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !server.Exists("nunu-test:nunu_token") {
		t.Fatal("expected key namespaced under the store prefix")
	}
	value, ok, err := store.Get(ctx, "nunu_token")
	if err != nil || !ok || value != "tok123" {
		t.Fatalf("Get = (%q, %v, %v), want (tok123, true, nil)", value, ok, err)
	}

	if err := store.Delete(ctx, "nunu_token"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "nunu_token"); ok {
		t.Fatal("expected key gone after delete")
	}
	if err := store.Delete(ctx, "nunu_token"); err != nil {
		t.Fatalf("deleting a missing key should be a no-op, got %v", err)
	}
}

func TestRedisTTLExpiresSession(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t, time.Minute)

	if err := store.Set(ctx, "nunu_token", "tok123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	server.FastForward(2 * time.Minute)

	if _, ok, err := store.Get(ctx, "nunu_token"); err != nil || ok {
		t.Fatalf("expected expired key to read as missing, got ok=%v err=%v", ok, err)
	}
}

func TestRedisSurfacesBackendErrors(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t, 0)
	server.Close()

	if _, _, err := store.Get(ctx, "nunu_token"); err == nil {
		t.Fatal("expected error from closed backend")
	}
	if err := store.Set(ctx, "nunu_token", "tok123"); err == nil {
		t.Fatal("expected error from closed backend")
	}
}
