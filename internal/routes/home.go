package routes

import (
	"context"
	"errors"
	"sync"

	"bikeroute-client/internal/loader"
	"bikeroute-client/internal/notify"
	"bikeroute-client/pkg/api"
	"bikeroute-client/pkg/validation"
)

const (
	MsgHomeLoadFailed = "Could not load the existing routes."
	UnknownBike       = "Unknown"
	InvalidDate       = "Invalid date"
)

// Marker is the map pin of a route that carries coordinates.
type Marker struct {
	RouteID   int
	Title     string
	Latitude  float64
	Longitude float64
}

// Card is the list entry of one route.
type Card struct {
	ID       int
	Bike     string
	Location string
	Date     string
	Expanded bool
}

// Home lists the recorded routes. At most one card is expanded.
type Home struct {
	routes *loader.Loader[Route]

	mu       sync.Mutex
	expanded int
	open     bool
}

func NewHome(client loader.Lister, n notify.Notifier) *Home {
	return &Home{routes: NewLoader(client, n, MsgHomeLoadFailed)}
}

// Mount loads the routes. A response that is not a list leaves the screen as it was.
func (h *Home) Mount(ctx context.Context) error {
	_, err := h.routes.Load(ctx)
	if errors.Is(err, api.ErrShapeMismatch) {
		return nil
	}
	return err
}

func (h *Home) Routes() []Route { return h.routes.Items() }

func (h *Home) Markers() []Marker {
	var out []Marker
	for _, r := range h.routes.Items() {
		if r.Latitude == nil || r.Longitude == nil {
			continue
		}
		out = append(out, Marker{RouteID: r.ID, Title: r.Location, Latitude: *r.Latitude, Longitude: *r.Longitude})
	}
	return out
}

func (h *Home) Cards() []Card {
	id, open := h.Expanded()
	items := h.routes.Items()
	out := make([]Card, 0, len(items))
	for _, r := range items {
		c := Card{ID: r.ID, Bike: UnknownBike, Location: r.Location, Date: InvalidDate}
		if r.Bike != nil && r.Bike.Label != "" {
			c.Bike = r.Bike.Label
		}
		if t, err := validation.ParseDate(r.Date); err == nil {
			c.Date = t.UTC().Format(validation.DateLayout)
		}
		c.Expanded = open && id == r.ID
		out = append(out, c)
	}
	return out
}

// Toggle expands the route with id, or collapses it when it is already expanded.
func (h *Home) Toggle(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.open && h.expanded == id {
		h.open = false
		return
	}
	h.expanded, h.open = id, true
}

func (h *Home) Expanded() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.expanded, h.open
}
