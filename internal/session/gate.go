// Package session gates entry to the app on a name lookup against the user collection.
// There is no credential and no token: a known name is enough.
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"bikeroute-client/internal/loader"
	"bikeroute-client/pkg/api"
	"bikeroute-client/pkg/validation"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrEmptyName = errors.New("name is empty")
	ErrPending   = errors.New("authentication already in progress")
)

// State of the gate. Authenticated, Rejected and Failed are terminal for one attempt.
type State int

const (
	Idle State = iota
	Checking
	Authenticated
	Rejected
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type account struct {
	Name string `json:"nombre"`
}

type Gate struct {
	client loader.Lister

	mu    sync.Mutex
	state State
	user  string
}

func NewGate(client loader.Lister) *Gate {
	return &Gate{client: client}
}

// Authenticate looks entered up in a fresh copy of the user collection.
// It returns the trimmed name, which callers carry forward as the signed-in user.
func (g *Gate) Authenticate(ctx context.Context, entered string) (string, error) {
	name := strings.TrimSpace(entered)
	if name == "" {
		return "", ErrEmptyName
	}

	g.mu.Lock()
	if g.state == Checking {
		g.mu.Unlock()
		return "", ErrPending
	}
	g.state = Checking
	g.user = ""
	g.mu.Unlock()

	var users []account
	if err := g.client.List(ctx, api.PathUsers, &users); err != nil {
		log.Printf("[session] user lookup failed: %v", err)
		g.finish(Failed, "")
		return "", err
	}

	for _, u := range users {
		if validation.SameName(u.Name, name) {
			g.finish(Authenticated, name)
			return name, nil
		}
	}
	g.finish(Rejected, "")
	return "", ErrNotFound
}

func (g *Gate) finish(s State, user string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = s
	g.user = user
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// User returns the authenticated name, empty unless State is Authenticated.
func (g *Gate) User() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user
}

// Reset returns a finished gate to Idle.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Checking {
		g.state = Idle
		g.user = ""
	}
}
