// Package location supplies device coordinates used to default new-route fields.
package location

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrDenied means no position is available: permission refused or nothing recorded.
var ErrDenied = errors.New("location unavailable")

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Provider returns the device's current (or last known) position.
type Provider interface {
	Current(ctx context.Context) (Coordinates, error)
}

// Static always answers with the same position. The zero value denies.
type Static struct {
	coords Coordinates
	ok     bool
}

func NewStatic(lat, lng float64) Static {
	return Static{coords: Coordinates{Latitude: lat, Longitude: lng}, ok: true}
}

func (s Static) Current(context.Context) (Coordinates, error) {
	if !s.ok {
		return Coordinates{}, ErrDenied
	}
	return s.coords, nil
}

// GeoStore is the subset of the redis client GeoProvider reads from.
type GeoStore interface {
	DeviceLocation(ctx context.Context, deviceID string) (lat, lng float64, ok bool, err error)
}

// GeoProvider reads the last position a device reported into the GEO store.
type GeoProvider struct {
	store    GeoStore
	deviceID string
}

func NewGeoProvider(store GeoStore, deviceID string) *GeoProvider {
	return &GeoProvider{store: store, deviceID: deviceID}
}

func (p *GeoProvider) Current(ctx context.Context) (Coordinates, error) {
	lat, lng, ok, err := p.store.DeviceLocation(ctx, p.deviceID)
	if err != nil {
		return Coordinates{}, fmt.Errorf("device %s: %w", p.deviceID, err)
	}
	if !ok {
		return Coordinates{}, ErrDenied
	}
	return Coordinates{Latitude: lat, Longitude: lng}, nil
}

type chain []Provider

// First asks each provider in turn and returns the first position found.
func First(providers ...Provider) Provider {
	return chain(providers)
}

func (c chain) Current(ctx context.Context) (Coordinates, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		coords, err := p.Current(ctx)
		if err == nil {
			return coords, nil
		}
		if !errors.Is(err, ErrDenied) {
			log.Printf("[location] provider failed: %v", err)
		}
	}
	return Coordinates{}, ErrDenied
}
