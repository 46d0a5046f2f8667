// Package events implements the new-event screen.
package events

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"bikeroute-client/internal/form"
	"bikeroute-client/internal/loader"
	"bikeroute-client/internal/notify"
	"bikeroute-client/internal/routes"
	"bikeroute-client/pkg/api"
	"bikeroute-client/pkg/validation"
)

const (
	MsgRoutesLoadFailed = "Could not load the available routes to create an event."
	MsgBadRoute         = "Select a valid route."
	MsgBadDate          = "Event date is not valid."
	MsgCreated          = "Event created successfully."
	MsgCreateFailed     = "Could not create the event. Check the connection or the data."
)

// Fields holds the event form. Route is the selected route id, empty when nothing is selected.
type Fields struct {
	Route       string
	Date        string
	Description string
}

type CreateForm struct {
	routes *loader.Loader[routes.Route]
	ctrl   *form.Controller
	now    func() time.Time

	mu     sync.Mutex
	fields Fields
}

func NewCreateForm(client routes.Client, n notify.Notifier) *CreateForm {
	f := &CreateForm{
		routes: routes.NewLoader(client, n, MsgRoutesLoadFailed),
		ctrl:   form.NewController(client, n),
		now:    time.Now,
	}
	f.fields = f.defaults()
	return f
}

// Mount loads the routes an event can be attached to and selects the first one.
func (f *CreateForm) Mount(ctx context.Context) error {
	_, err := f.routes.Load(ctx)
	if errors.Is(err, api.ErrShapeMismatch) {
		err = nil
	}
	f.reset()
	return err
}

func (f *CreateForm) defaults() Fields {
	d := Fields{Date: validation.Today(f.now())}
	if r, ok := f.routes.Default(); ok {
		d.Route = strconv.Itoa(r.ID)
	}
	return d
}

func (f *CreateForm) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = f.defaults()
}

func (f *CreateForm) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Routes returns the routes offered for selection.
func (f *CreateForm) Routes() []routes.Route { return f.routes.Items() }

// SelectRoute picks the route by id.
func (f *CreateForm) SelectRoute(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.Route = strconv.Itoa(id)
}

// ClearRoute drops the route selection.
func (f *CreateForm) ClearRoute() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.Route = ""
}

func (f *CreateForm) SetDate(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.Date = v
}

func (f *CreateForm) SetDescription(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.Description = v
}

// Submit validates the form and creates the event.
func (f *CreateForm) Submit(ctx context.Context) (Event, error) {
	fields := f.Fields()

	var created Event
	err := f.ctrl.Submit(ctx, form.Submission{
		Path: api.PathEvents,
		Required: []validation.Field{
			{Label: "Route", Value: fields.Route},
			{Label: "Event Date", Value: fields.Date},
			{Label: "Event Description", Value: fields.Description},
		},
		Build: func() (any, error) {
			id, err := strconv.Atoi(strings.TrimSpace(fields.Route))
			if err != nil {
				return nil, form.Invalid(MsgBadRoute)
			}
			if _, ok := f.routes.Find(func(r routes.Route) bool { return r.ID == id }); !ok {
				return nil, form.Invalid(MsgBadRoute)
			}
			date, err := validation.ParseDate(fields.Date)
			if err != nil {
				return nil, form.Invalid(MsgBadDate)
			}
			return Event{
				ID:          0,
				RouteID:     id,
				Date:        validation.FormatISO(date),
				Description: strings.TrimSpace(fields.Description),
			}, nil
		},
		Reset:   f.reset,
		Success: MsgCreated,
		Failure: MsgCreateFailed,
		Created: &created,
	})
	return created, err
}
