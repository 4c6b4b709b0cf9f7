package nunu

import (
	"strings"
	"testing"

	"github.com/Paulos19/nunu/credstore"
)

func TestBuildRequiresStoreAndClient(t *testing.T) {
	if _, err := New().WithAPIClient(newTestClient(t)).Build(); err == nil || !strings.Contains(err.Error(), "store") {
		t.Fatalf("expected missing-store error, got %v", err)
	}
	if _, err := New().WithStore(credstore.NewMemory()).Build(); err == nil || !strings.Contains(err.Error(), "client") {
		t.Fatalf("expected missing-client error, got %v", err)
	}
}

func TestBuildStartsBootstrapping(t *testing.T) {
	m, err := New().
		WithStore(credstore.NewMemory()).
		WithAPIClient(newTestClient(t)).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer m.Close()

	st := m.Current()
	if !st.Bootstrapping || st.Authenticated() {
		t.Fatalf("expected empty bootstrapping state, got %+v", st)
	}
}

func TestBuildRejectsReuse(t *testing.T) {
	b := New().WithStore(credstore.NewMemory()).WithAPIClient(newTestClient(t))
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer m.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Guard.LoginPath = "/home/login"

	_, err := New().
		WithConfig(cfg).
		WithStore(credstore.NewMemory()).
		WithAPIClient(newTestClient(t)).
		Build()
	if err == nil {
		t.Fatal("expected config validation error")
	}
}
