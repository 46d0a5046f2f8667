package users

import (
	"context"
	"errors"
	"log"

	"bikeroute-client/internal/loader"
	"bikeroute-client/internal/notify"
	"bikeroute-client/internal/session"
)

const (
	MsgUserNotFound  = "User not found."
	MsgCannotConnect = "Could not connect to the server."
)

// Login is the sign-in screen.
type Login struct {
	gate     *session.Gate
	notifier notify.Notifier
}

func NewLogin(client loader.Lister, n notify.Notifier) *Login {
	return &Login{gate: session.NewGate(client), notifier: n}
}

// Submit signs in as name and returns the trimmed name to carry to the next screen.
// Blank input is ignored.
func (l *Login) Submit(ctx context.Context, name string) (string, error) {
	user, err := l.gate.Authenticate(ctx, name)
	switch {
	case err == nil:
		log.Printf("[users] signed in as %q", user)
		return user, nil
	case errors.Is(err, session.ErrEmptyName), errors.Is(err, session.ErrPending):
		return "", err
	case errors.Is(err, session.ErrNotFound):
		l.notifier.Notify(notify.Error(MsgUserNotFound))
		return "", err
	default:
		l.notifier.Notify(notify.FromError(err, MsgCannotConnect))
		return "", err
	}
}

func (l *Login) State() session.State { return l.gate.State() }
