// Package geo describes the device-location capability used to pick weather
// by position.
package geo

import (
	"context"
	"errors"
	"strings"
)

// ErrUnsupported is returned when no location source is available.
var ErrUnsupported = errors.New("geolocation is not supported")

type Position struct {
	Lat float64
	Lon float64
}

// Locator resolves the current device position or fails.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// LocatorFunc adapts a plain function to Locator.
type LocatorFunc func(ctx context.Context) (Position, error)

func (f LocatorFunc) Locate(ctx context.Context) (Position, error) {
	return f(ctx)
}

// Fixed always reports the same position, e.g. coordinates given on the
// command line.
func Fixed(lat, lon float64) Locator {
	return LocatorFunc(func(ctx context.Context) (Position, error) {
		if err := ctx.Err(); err != nil {
			return Position{}, err
		}
		return Position{Lat: lat, Lon: lon}, nil
	})
}

// Unavailable is the locator used when the host offers no position source.
func Unavailable() Locator {
	return LocatorFunc(func(context.Context) (Position, error) {
		return Position{}, ErrUnsupported
	})
}

// Reason extracts a short human readable cause from a locator error.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "unknown error"
	}
	return msg
}
