package routes

import (
	"context"

	"bikeroute-client/internal/bikes"
	"bikeroute-client/internal/loader"
	"bikeroute-client/internal/notify"
	"bikeroute-client/pkg/api"
)

// Route is a recorded cycling route as the server returns it.
// Coordinates and bike may be absent on older records.
type Route struct {
	ID        int             `json:"id"`
	Location  string          `json:"ubicacion"`
	Date      string          `json:"fecha"`
	Latitude  *float64        `json:"latitud,omitempty"`
	Longitude *float64        `json:"longitud,omitempty"`
	Bike      *bikes.BikeType `json:"bike,omitempty"`
}

// CreateRequest is the body for POST /Rutas.
type CreateRequest struct {
	ID        int            `json:"id"`
	Location  string         `json:"ubicacion"`
	Date      string         `json:"fecha"`
	Latitude  float64        `json:"latitud"`
	Longitude float64        `json:"longitud"`
	Bike      bikes.BikeType `json:"bike"`
}

// Client is what the route screens need from the resource client.
type Client interface {
	loader.Lister
	Create(ctx context.Context, path string, record, out any) error
}

// NewLoader returns a loader over /Rutas; generic is shown when loading fails.
func NewLoader(client loader.Lister, n notify.Notifier, generic string) *loader.Loader[Route] {
	return loader.New[Route](client, api.PathRoutes, n, generic)
}
