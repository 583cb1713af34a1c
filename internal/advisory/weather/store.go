// Package weather holds the shared location/weather state read by every view.
package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/fasal-sarthi-core/client/internal/advisory/async"
	"github.com/fasal-sarthi-core/client/internal/advisory/geo"
	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
	logx "github.com/fasal-sarthi-core/client/pkg/logger"
)

const (
	cityNotFound         = "city not found"
	cityNotFoundFriendly = "City not found. Check spelling."
	invalidInputMessage  = "Invalid input for fetching weather."
	geoUnsupported       = "Geolocation is not supported by your browser."
)

// Snapshot is the store state at one instant.
type Snapshot struct {
	Version   uint64                              `json:"version"`
	Selection string                              `json:"selection"`
	Weather   async.State[model.WeatherSnapshot] `json:"weather"`
}

func (s Snapshot) SnapshotVersion() uint64 { return s.Version }

// Store owns the current weather snapshot. Only the most recently issued
// fetch may land in the store; older settlements are discarded.
type Store struct {
	gw          model.WeatherGateway
	defaultCity string

	mu        sync.Mutex
	slot      async.Slot[model.WeatherSnapshot]
	selection string
	version   uint64

	activate sync.Once
	hub      *async.Hub[Snapshot]
}

func NewStore(gw model.WeatherGateway, cfg model.WeatherConfig) *Store {
	city := strings.TrimSpace(cfg.DefaultCity)
	if city == "" {
		city = "Bhopal"
	}
	return &Store{
		gw:          gw,
		defaultCity: city,
		selection:   city,
		hub:         async.NewHub[Snapshot](),
	}
}

// Activate fetches the default city the first time it is called during the
// store's lifetime. Later calls return the current snapshot without any
// network call.
func (s *Store) Activate(ctx context.Context) Snapshot {
	ran := false
	var snap Snapshot
	s.activate.Do(func() {
		ran = true
		logx.Debug().Str("city", s.defaultCity).Msg("activating weather store")
		snap = s.SelectCity(ctx, s.defaultCity)
	})
	if !ran {
		return s.Snapshot()
	}
	return snap
}

func (s *Store) SelectCity(ctx context.Context, name string) Snapshot {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.reject(errx.Validation(invalidInputMessage))
	}
	return s.fetch(ctx, model.ByName(name))
}

// SelectCoordinates fetches weather for a position; on success the selection
// label becomes the city resolved by the service.
func (s *Store) SelectCoordinates(ctx context.Context, lat, lon float64) Snapshot {
	if !validCoordinate(lat, 90) || !validCoordinate(lon, 180) {
		return s.reject(errx.Validation(invalidInputMessage))
	}
	return s.fetch(ctx, model.ByCoordinates(lat, lon))
}

// SelectCurrentLocation asks the locator for a position and fetches its
// weather. A locator failure is returned to the caller and leaves the store
// untouched.
func (s *Store) SelectCurrentLocation(ctx context.Context, locator geo.Locator) (Snapshot, error) {
	pos, err := locator.Locate(ctx)
	if err != nil {
		logx.Warn().Err(err).Msg("location detection failed")
		if errors.Is(err, geo.ErrUnsupported) {
			return s.Snapshot(), errx.Validation(geoUnsupported)
		}
		return s.Snapshot(), errx.Validation(fmt.Sprintf("Could not detect location: %s. Please allow access or search manually.", geo.Reason(err)))
	}
	return s.SelectCoordinates(ctx, pos.Lat, pos.Lon), nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	return s.hub.Subscribe()
}

func (s *Store) fetch(ctx context.Context, sel model.LocationSelector) Snapshot {
	s.mu.Lock()
	tok := s.slot.Begin()
	snap := s.commitLocked()
	s.mu.Unlock()
	s.hub.Publish(snap)

	result, err := s.gw.GetWeather(ctx, sel)

	s.mu.Lock()
	var applied bool
	if err != nil {
		applied = s.slot.FailWith(tok, errx.KindOf(err), rewriteError(errx.UserMessage(err)))
	} else {
		result.Selector = sel
		applied = s.slot.Succeed(tok, result)
		if applied {
			s.selection = selectionLabel(sel, result)
		}
	}
	if !applied {
		logx.Debug().
			Uint64("token", uint64(tok)).
			Uint64("latest", uint64(s.slot.Latest())).
			Str("selector", sel.String()).
			Msg("discarding stale weather settlement")
		snap = s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	snap = s.commitLocked()
	s.mu.Unlock()
	s.hub.Publish(snap)
	return snap
}

func (s *Store) reject(err error) Snapshot {
	s.mu.Lock()
	s.slot.Reject(err)
	snap := s.commitLocked()
	s.mu.Unlock()
	s.hub.Publish(snap)
	return snap
}

func (s *Store) commitLocked() Snapshot {
	s.version++
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Version:   s.version,
		Selection: s.selection,
		Weather:   s.slot.State(),
	}
}

func selectionLabel(sel model.LocationSelector, result model.WeatherSnapshot) string {
	if sel.Kind == model.SelectByCoordinates {
		return result.City
	}
	return sel.City
}

// rewriteError swaps the service's terse not-found text for a friendlier one.
// Every other message passes through unchanged.
func rewriteError(msg string) string {
	return strings.Replace(msg, cityNotFound, cityNotFoundFriendly, 1)
}

func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= limit
}
