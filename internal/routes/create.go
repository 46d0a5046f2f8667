package routes

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"bikeroute-client/internal/bikes"
	"bikeroute-client/internal/form"
	"bikeroute-client/internal/loader"
	"bikeroute-client/internal/location"
	"bikeroute-client/internal/notify"
	"bikeroute-client/pkg/api"
	"bikeroute-client/pkg/validation"
)

const (
	MsgLocationNeeded = "Location permission is needed to suggest coordinates."
	MsgBadCoordinates = "Invalid latitude or longitude. Enter numbers or allow location access."
	MsgBadDate        = "Date is not valid."
	MsgBadBike        = "Selected bike type is not valid. Choose one from the list."
	MsgCreated        = "Route created successfully."
	MsgCreateFailed   = "Could not create the route. Check the connection or the data."
)

// Fields holds the route form as typed.
type Fields struct {
	Location  string
	Date      string
	Latitude  string
	Longitude string
	Bike      string
}

// CreateForm is the new-route screen.
type CreateForm struct {
	bikes    *loader.Loader[bikes.BikeType]
	locator  location.Provider
	notifier notify.Notifier
	ctrl     *form.Controller
	now      func() time.Time

	mu     sync.Mutex
	fields Fields
	device *location.Coordinates
}

func NewCreateForm(client Client, locator location.Provider, n notify.Notifier) *CreateForm {
	if locator == nil {
		locator = location.Static{}
	}
	f := &CreateForm{
		bikes:    bikes.NewLoader(client, n),
		locator:  locator,
		notifier: n,
		ctrl:     form.NewController(client, n),
		now:      time.Now,
	}
	f.fields = f.defaults()
	return f
}

// Mount asks for the device position and loads the bike catalog, then fills the defaults.
// A denied position is reported but does not fail the mount.
func (f *CreateForm) Mount(ctx context.Context) error {
	coords, err := f.locator.Current(ctx)
	f.mu.Lock()
	if err != nil {
		f.device = nil
	} else {
		f.device = &coords
	}
	f.mu.Unlock()
	if err != nil {
		log.Printf("[routes] no device position: %v", err)
		f.notifier.Notify(notify.Notification{Kind: notify.KindError, Title: notify.TitleDenied, Message: MsgLocationNeeded})
	}

	_, loadErr := f.bikes.Load(ctx)
	if errors.Is(loadErr, api.ErrShapeMismatch) {
		loadErr = nil
	}

	f.reset()
	return loadErr
}

// defaults are the values a fresh or just-submitted form shows.
func (f *CreateForm) defaults() Fields {
	d := Fields{Date: validation.Today(f.now())}
	if f.device != nil {
		d.Latitude = validation.FormatCoordinate(f.device.Latitude)
		d.Longitude = validation.FormatCoordinate(f.device.Longitude)
	}
	if bt, ok := f.bikes.Default(); ok {
		d.Bike = bt.Label
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

// BikeTypes returns the catalog the bike label is chosen from.
func (f *CreateForm) BikeTypes() []bikes.BikeType { return f.bikes.Items() }

// Device returns the last known device position, if any.
func (f *CreateForm) Device() (location.Coordinates, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.device == nil {
		return location.Coordinates{}, false
	}
	return *f.device, true
}

func (f *CreateForm) SetLocation(v string)  { f.set(func(fl *Fields) { fl.Location = v }) }
func (f *CreateForm) SetDate(v string)      { f.set(func(fl *Fields) { fl.Date = v }) }
func (f *CreateForm) SetLatitude(v string)  { f.set(func(fl *Fields) { fl.Latitude = v }) }
func (f *CreateForm) SetLongitude(v string) { f.set(func(fl *Fields) { fl.Longitude = v }) }
func (f *CreateForm) SetBike(label string)  { f.set(func(fl *Fields) { fl.Bike = label }) }

func (f *CreateForm) set(apply func(*Fields)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	apply(&f.fields)
}

// Submit validates the form and creates the route.
// Blank coordinates fall back to the device position.
func (f *CreateForm) Submit(ctx context.Context) (Route, error) {
	fields := f.Fields()
	device, hasDevice := f.Device()

	var created Route
	err := f.ctrl.Submit(ctx, form.Submission{
		Path: api.PathRoutes,
		Required: []validation.Field{
			{Label: "Location", Value: fields.Location},
			{Label: "Bike Type", Value: fields.Bike},
		},
		Build: func() (any, error) {
			lat, err := coordinate(fields.Latitude, device.Latitude, hasDevice)
			if err != nil {
				return nil, form.Invalid(MsgBadCoordinates)
			}
			lng, err := coordinate(fields.Longitude, device.Longitude, hasDevice)
			if err != nil || !validation.ValidateCoordinates(lat, lng) {
				return nil, form.Invalid(MsgBadCoordinates)
			}
			date, err := validation.ParseDate(fields.Date)
			if err != nil {
				return nil, form.Invalid(MsgBadDate)
			}
			bike, ok := f.bikes.Find(bikes.ByLabel(fields.Bike))
			if !ok {
				return nil, form.Invalid(MsgBadBike)
			}
			return CreateRequest{
				ID:        0,
				Location:  strings.TrimSpace(fields.Location),
				Date:      validation.FormatISO(date),
				Latitude:  lat,
				Longitude: lng,
				Bike:      bike,
			}, nil
		},
		Reset:   f.reset,
		Success: MsgCreated,
		Failure: MsgCreateFailed,
		Created: &created,
	})
	return created, err
}

func coordinate(typed string, fallback float64, hasFallback bool) (float64, error) {
	if strings.TrimSpace(typed) == "" {
		if !hasFallback {
			return 0, validation.ErrNotANumber
		}
		return fallback, nil
	}
	return validation.ParseCoordinate(typed)
}
