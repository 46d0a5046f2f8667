// Package form validates and submits creation forms against the remote API.
package form

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"bikeroute-client/internal/notify"
	"bikeroute-client/pkg/validation"
)

// ErrPending is returned when a submit arrives while another one is in flight.
var ErrPending = errors.New("submission already in progress")

// ValidationError is a client-side rejection; nothing was sent.
type ValidationError struct {
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "Please complete the following fields: " + strings.Join(e.Missing, ", ") + "."
	}
	return e.Reason
}

// Invalid reports a value that is present but unusable.
func Invalid(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// Creator is the part of the resource client a Controller needs.
type Creator interface {
	Create(ctx context.Context, path string, record, out any) error
}

// Submission describes one create action.
type Submission struct {
	Path string
	// Required fields, checked together before Build runs.
	Required []validation.Field
	// Build resolves numbers, dates and references into the creation payload.
	Build func() (any, error)
	// Reset restores the form's mount-time defaults after a successful create.
	Reset   func()
	Success string
	Failure string
	Created any
}

// Controller runs submissions one at a time.
type Controller struct {
	client   Creator
	notifier notify.Notifier
	pending  atomic.Bool
}

func NewController(client Creator, n notify.Notifier) *Controller {
	return &Controller{client: client, notifier: n}
}

// Pending reports whether a submission is in flight.
func (c *Controller) Pending() bool { return c.pending.Load() }

// Submit validates s, posts the payload and resets the form on success.
// On any failure the form is left untouched.
func (c *Controller) Submit(ctx context.Context, s Submission) error {
	if !c.pending.CompareAndSwap(false, true) {
		return ErrPending
	}
	defer c.pending.Store(false)

	if missing := validation.Missing(s.Required...); len(missing) > 0 {
		err := &ValidationError{Missing: missing}
		c.notifier.Notify(notify.Error(err.Error()))
		return err
	}

	payload, err := s.Build()
	if err != nil {
		c.notifier.Notify(notify.Error(err.Error()))
		return err
	}

	if err := c.client.Create(ctx, s.Path, payload, s.Created); err != nil {
		log.Printf("[form] create %s failed: %v", s.Path, err)
		c.notifier.Notify(notify.FromError(err, s.Failure))
		return err
	}

	if s.Reset != nil {
		s.Reset()
	}
	c.notifier.Notify(notify.Success(s.Success))
	return nil
}
