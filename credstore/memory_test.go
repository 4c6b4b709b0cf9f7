package credstore

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if _, ok, err := store.Get(ctx, "nunu_token"); err != nil || ok {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "nunu_token", "tok123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := store.Get(ctx, "nunu_token")
	if err != nil || !ok || value != "tok123" {
		t.Fatalf("Get = (%q, %v, %v)", value, ok, err)
	}
	if err := store.Delete(ctx, "nunu_token"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "nunu_token"); ok {
		t.Fatal("expected key gone after delete")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, "nunu_token", "tok")
				_, _, _ = store.Get(ctx, "nunu_token")
				_ = store.Delete(ctx, "nunu_token")
			}
		}()
	}
	wg.Wait()
}
