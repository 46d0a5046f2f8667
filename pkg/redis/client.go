package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const deviceLocationsKey = "device:locations"

// Client wraps the Redis connection holding last-known device positions.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects to Redis, retrying up to attempts times.
func NewClient(addr string, attempts int) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	for i := 0; i < attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err == nil {
			log.Println("[redis] connected to", addr)
			return &Client{rdb: rdb}, nil
		}
		log.Printf("[redis] waiting for %s... (%d/%d)", addr, i+1, attempts)
		if i+1 < attempts {
			time.Sleep(time.Second)
		}
	}
	rdb.Close()
	return nil, fmt.Errorf("redis: failed to connect to %s after %d attempts", addr, attempts)
}

// Wrap adopts an existing go-redis client.
func Wrap(rdb *goredis.Client) *Client { return &Client{rdb: rdb} }

// SetDeviceLocation stores a device's position in the GEO set.
func (c *Client) SetDeviceLocation(ctx context.Context, deviceID string, lat, lng float64) error {
	return c.rdb.GeoAdd(ctx, deviceLocationsKey, &goredis.GeoLocation{
		Name:      deviceID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// DeviceLocation returns the last stored position; ok is false when the device is unknown.
func (c *Client) DeviceLocation(ctx context.Context, deviceID string) (lat, lng float64, ok bool, err error) {
	res, err := c.rdb.GeoPos(ctx, deviceLocationsKey, deviceID).Result()
	if err != nil {
		return 0, 0, false, err
	}
	if len(res) == 0 || res[0] == nil {
		return 0, 0, false, nil
	}
	return res[0].Latitude, res[0].Longitude, true, nil
}

// RemoveDeviceLocation forgets a device's position.
func (c *Client) RemoveDeviceLocation(ctx context.Context, deviceID string) error {
	return c.rdb.ZRem(ctx, deviceLocationsKey, deviceID).Err()
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }
