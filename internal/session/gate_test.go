package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"bikeroute-client/internal/apitest"
	"bikeroute-client/pkg/api"
)

type user struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Correo string `json:"correo"`
}

func newGate(t *testing.T, users ...any) (*Gate, *apitest.Backend) {
	t.Helper()
	backend := apitest.NewBackend()
	backend.Seed(api.PathUsers, users...)
	return NewGate(api.NewClient(backend.Start(t), nil)), backend
}

func TestAuthenticateCaseInsensitive(t *testing.T) {
	g, _ := newGate(t, user{ID: 1, Nombre: "alice", Correo: "a@x.com"})

	name, err := g.Authenticate(context.Background(), "ALICE")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if name != "ALICE" || g.State() != Authenticated || g.User() != "ALICE" {
		t.Fatalf("unexpected result: %q %v", name, g.State())
	}
}

func TestAuthenticateTrimsWhitespace(t *testing.T) {
	g, _ := newGate(t, user{ID: 1, Nombre: "alice"})

	name, err := g.Authenticate(context.Background(), " Alice ")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if name != "Alice" {
		t.Fatalf("expected trimmed name, got %q", name)
	}
}

func TestAuthenticateNotFound(t *testing.T) {
	g, _ := newGate(t, user{ID: 1, Nombre: "alice"})

	if _, err := g.Authenticate(context.Background(), "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if g.State() != Rejected || g.User() != "" {
		t.Fatalf("expected rejected state")
	}
}

func TestAuthenticateRemoteFailure(t *testing.T) {
	g, backend := newGate(t)
	backend.FailNext(http.MethodGet, api.PathUsers, http.StatusBadGateway, "mantenimiento")

	_, err := g.Authenticate(context.Background(), "alice")
	var f *api.Failure
	if !errors.As(err, &f) || f.Message != "mantenimiento" {
		t.Fatalf("expected remote failure, got %v", err)
	}
	if g.State() != Failed {
		t.Fatalf("expected failed state, got %v", g.State())
	}
}

func TestAuthenticateEmptyNameSkipsNetwork(t *testing.T) {
	g, backend := newGate(t)

	if _, err := g.Authenticate(context.Background(), "   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected empty name error, got %v", err)
	}
	if backend.Calls(http.MethodGet, api.PathUsers) != 0 {
		t.Fatalf("expected no network call")
	}
	if g.State() != Idle {
		t.Fatalf("expected idle state")
	}
}

func TestNextAttemptAfterRejection(t *testing.T) {
	g, backend := newGate(t, user{ID: 1, Nombre: "alice"})
	_, _ = g.Authenticate(context.Background(), "bob")

	g.Reset()
	if g.State() != Idle {
		t.Fatalf("expected idle after reset")
	}
	if _, err := g.Authenticate(context.Background(), "alice"); err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if backend.Calls(http.MethodGet, api.PathUsers) != 2 {
		t.Fatalf("each attempt must fetch a fresh collection")
	}
}

func TestStateString(t *testing.T) {
	if Checking.String() != "checking" || State(42).String() != "unknown" {
		t.Fatalf("unexpected state names")
	}
}
