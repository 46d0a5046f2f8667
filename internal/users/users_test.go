package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"bikeroute-client/internal/apitest"
	"bikeroute-client/internal/form"
	"bikeroute-client/internal/notify"
	"bikeroute-client/internal/session"
	"bikeroute-client/pkg/api"
)

func start(t *testing.T) (*apitest.Backend, *api.Client, *notify.Recorder) {
	t.Helper()
	backend := apitest.NewBackend()
	return backend, api.NewClient(backend.Start(t), nil), &notify.Recorder{}
}

func TestLoginReturnsTrimmedName(t *testing.T) {
	backend, client, rec := start(t)
	backend.Seed(api.PathUsers, User{ID: 1, Name: "alice", Email: "a@x.com"})

	name, err := NewLogin(client, rec).Submit(context.Background(), "  ALICE ")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if name != "ALICE" {
		t.Fatalf("expected trimmed name, got %q", name)
	}
	if len(rec.All()) != 0 {
		t.Fatalf("expected no notifications on success")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	backend, client, rec := start(t)
	backend.Seed(api.PathUsers, User{ID: 1, Name: "alice"})

	l := NewLogin(client, rec)
	if _, err := l.Submit(context.Background(), "bob"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	last, _ := rec.Last()
	if last.Kind != notify.KindError || last.Message != MsgUserNotFound {
		t.Fatalf("unexpected notification: %+v", last)
	}
	if l.State() != session.Rejected {
		t.Fatalf("expected rejected, got %v", l.State())
	}
}

func TestLoginBlankIsIgnored(t *testing.T) {
	backend, client, rec := start(t)

	l := NewLogin(client, rec)
	if _, err := l.Submit(context.Background(), ""); !errors.Is(err, session.ErrEmptyName) {
		t.Fatalf("expected empty name, got %v", err)
	}
	if len(rec.All()) != 0 || backend.Calls(http.MethodGet, api.PathUsers) != 0 {
		t.Fatalf("blank input must be silent and offline")
	}
	if l.State() != session.Idle {
		t.Fatalf("expected idle")
	}
}

func TestLoginConnectionFailure(t *testing.T) {
	backend, client, rec := start(t)
	backend.FailNext(http.MethodGet, api.PathUsers, http.StatusInternalServerError, "")

	if _, err := NewLogin(client, rec).Submit(context.Background(), "alice"); err == nil {
		t.Fatalf("expected failure")
	}
	last, _ := rec.Last()
	if last.Kind != notify.KindError || last.Message != MsgCannotConnect {
		t.Fatalf("unexpected notification: %+v", last)
	}

	backend.FailNext(http.MethodGet, api.PathUsers, http.StatusServiceUnavailable, "servidor en mantenimiento")
	_, _ = NewLogin(client, rec).Submit(context.Background(), "alice")
	last, _ = rec.Last()
	if last.Kind != notify.KindServerError || last.Message != "servidor en mantenimiento" {
		t.Fatalf("unexpected notification: %+v", last)
	}
}

func TestRegisterPostsTrimmedPayload(t *testing.T) {
	backend, client, rec := start(t)

	r := NewRegister(client, rec)
	r.SetName("  Carla ")
	r.SetEmail(" carla@x.com")
	created, err := r.Submit(context.Background())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.ID == 0 || created.Name != "Carla" {
		t.Fatalf("unexpected created user: %+v", created)
	}

	posted := backend.Posted(api.PathUsers)
	if len(posted) != 1 {
		t.Fatalf("expected one post")
	}
	var body map[string]any
	if err := json.Unmarshal(posted[0], &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != float64(0) || body["nombre"] != "Carla" || body["correo"] != "carla@x.com" {
		t.Fatalf("unexpected payload: %v", body)
	}

	if name, email := r.Fields(); name != "" || email != "" {
		t.Fatalf("expected fields cleared, got %q %q", name, email)
	}
	last, _ := rec.Last()
	if last.Kind != notify.KindSuccess || last.Message != MsgRegistered {
		t.Fatalf("unexpected notification: %+v", last)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	backend, client, rec := start(t)

	r := NewRegister(client, rec)
	r.SetEmail("   ")
	_, err := r.Submit(context.Background())
	var verr *form.ValidationError
	if !errors.As(err, &verr) || len(verr.Missing) != 2 {
		t.Fatalf("expected both fields missing, got %v", err)
	}
	last, _ := rec.Last()
	if last.Message != "Please complete the following fields: Name, Email." {
		t.Fatalf("unexpected message: %q", last.Message)
	}
	if backend.Calls(http.MethodPost, api.PathUsers) != 0 {
		t.Fatalf("expected no network call")
	}
}

func TestRegisterFailureKeepsFields(t *testing.T) {
	backend, client, rec := start(t)
	backend.FailNext(http.MethodPost, api.PathUsers, http.StatusConflict, "correo ya registrado")

	r := NewRegister(client, rec)
	r.SetName("Carla")
	r.SetEmail("carla@x.com")
	if _, err := r.Submit(context.Background()); err == nil {
		t.Fatalf("expected failure")
	}
	if name, email := r.Fields(); name != "Carla" || email != "carla@x.com" {
		t.Fatalf("fields must be kept on failure")
	}
	last, _ := rec.Last()
	if last.Kind != notify.KindServerError || last.Message != "correo ya registrado" {
		t.Fatalf("unexpected notification: %+v", last)
	}
}
