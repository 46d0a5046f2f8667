package users

import (
	"context"
	"strings"
	"sync"

	"bikeroute-client/internal/form"
	"bikeroute-client/internal/notify"
	"bikeroute-client/pkg/api"
	"bikeroute-client/pkg/validation"
)

const (
	MsgRegistered     = "User registered successfully."
	MsgRegisterFailed = "Could not register the user."
)

// Register is the sign-up screen.
type Register struct {
	ctrl *form.Controller

	mu    sync.Mutex
	name  string
	email string
}

func NewRegister(client form.Creator, n notify.Notifier) *Register {
	return &Register{ctrl: form.NewController(client, n)}
}

func (r *Register) SetName(v string) {
	r.mu.Lock()
	r.name = v
	r.mu.Unlock()
}

func (r *Register) SetEmail(v string) {
	r.mu.Lock()
	r.email = v
	r.mu.Unlock()
}

// Fields returns the current name and email as typed.
func (r *Register) Fields() (name, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name, r.email
}

// Submit creates the account. Both fields are cleared on success.
func (r *Register) Submit(ctx context.Context) (User, error) {
	name, email := r.Fields()

	var created User
	err := r.ctrl.Submit(ctx, form.Submission{
		Path: api.PathUsers,
		Required: []validation.Field{
			{Label: "Name", Value: name},
			{Label: "Email", Value: email},
		},
		Build: func() (any, error) {
			return RegisterRequest{
				ID:    0,
				Name:  strings.TrimSpace(name),
				Email: strings.TrimSpace(email),
			}, nil
		},
		Reset: func() {
			r.SetName("")
			r.SetEmail("")
		},
		Success: MsgRegistered,
		Failure: MsgRegisterFailed,
		Created: &created,
	})
	return created, err
}
