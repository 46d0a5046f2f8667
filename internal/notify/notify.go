// Package notify delivers the user-facing outcome of a screen action.
package notify

import (
	"fmt"
	"io"
	"sync"

	"bikeroute-client/pkg/api"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess     Kind = "success"
	KindError       Kind = "error"
	KindServerError Kind = "server_error"
)

// Default titles, one per kind.
const (
	TitleSuccess     = "Success"
	TitleError       = "Error"
	TitleServerError = "Server Error"
	TitleDenied      = "Permission Denied"
)

// Notification is one modal message.
type Notification struct {
	Kind    Kind
	Title   string
	Message string
}

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

func Success(msg string) Notification {
	return Notification{Kind: KindSuccess, Title: TitleSuccess, Message: msg}
}

func Error(msg string) Notification {
	return Notification{Kind: KindError, Title: TitleError, Message: msg}
}

func ServerError(msg string) Notification {
	return Notification{Kind: KindServerError, Title: TitleServerError, Message: msg}
}

// FromError builds the failure notification for a remote error: the server's own
// message when it sent one, generic otherwise.
func FromError(err error, generic string) Notification {
	msg := api.MessageOr(err, "")
	if msg != "" {
		return ServerError(msg)
	}
	return Error(generic)
}

// Writer prints notifications, one per line.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriter(out io.Writer) *Writer { return &Writer{out: out} }

func (w *Writer) Notify(n Notification) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "[%s] %s\n", n.Title, n.Message)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

// All returns a copy of the received notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Last returns the latest notification; ok is false when none arrived.
func (r *Recorder) Last() (n Notification, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}

// Failed reports whether any error notification was received.
func (r *Recorder) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.all {
		if n.Kind != KindSuccess {
			return true
		}
	}
	return false
}

// Reset drops every recorded notification.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = nil
}
