package weather

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/fasal-sarthi-core/client/internal/advisory/async"
	"github.com/fasal-sarthi-core/client/internal/advisory/geo"
	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
)

type fakeWeather struct {
	mu      sync.Mutex
	calls   []model.LocationSelector
	respond func(ctx context.Context, sel model.LocationSelector) (model.WeatherSnapshot, error)
}

func (f *fakeWeather) GetWeather(ctx context.Context, sel model.LocationSelector) (model.WeatherSnapshot, error) {
	f.mu.Lock()
	f.calls = append(f.calls, sel)
	f.mu.Unlock()
	if f.respond != nil {
		return f.respond(ctx, sel)
	}
	return model.WeatherSnapshot{City: sel.City, Temperature: 30, Humidity: 50}, nil
}

func (f *fakeWeather) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func assertValid(t *testing.T, snap Snapshot) {
	t.Helper()
	if !snap.Weather.Valid() {
		t.Fatalf("state invariant broken: %+v", snap.Weather)
	}
}

func TestActivateFetchesDefaultCityOnce(t *testing.T) {
	gw := &fakeWeather{}
	store := NewStore(gw, model.WeatherConfig{DefaultCity: "Bhopal"})

	if got := store.Snapshot().Weather.Status; got != async.Idle {
		t.Fatalf("expected idle before activation, got %s", got)
	}

	snap := store.Activate(context.Background())
	assertValid(t, snap)
	store.Activate(context.Background())
	store.Activate(context.Background())

	if gw.callCount() != 1 {
		t.Fatalf("expected exactly one fetch, got %d", gw.callCount())
	}
	if gw.calls[0].Kind != model.SelectByName || gw.calls[0].City != "Bhopal" {
		t.Fatalf("unexpected first call %+v", gw.calls[0])
	}
	if snap.Selection != "Bhopal" || snap.Weather.Status != async.Succeeded {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestSelectCityUpdatesSelectionOnSuccess(t *testing.T) {
	gw := &fakeWeather{}
	store := NewStore(gw, model.WeatherConfig{})

	snap := store.SelectCity(context.Background(), "  Indore ")
	assertValid(t, snap)
	if snap.Selection != "Indore" {
		t.Fatalf("expected selection Indore, got %q", snap.Selection)
	}
	got, ok := snap.Weather.Value()
	if !ok || got.City != "Indore" || got.Selector.City != "Indore" {
		t.Fatalf("unexpected weather %+v", got)
	}
}

func TestSelectCoordinatesUsesResolvedCity(t *testing.T) {
	gw := &fakeWeather{respond: func(ctx context.Context, sel model.LocationSelector) (model.WeatherSnapshot, error) {
		return model.WeatherSnapshot{City: "Sehore", Temperature: 28, Humidity: 60}, nil
	}}
	store := NewStore(gw, model.WeatherConfig{DefaultCity: "Bhopal"})

	snap := store.SelectCoordinates(context.Background(), 23.2, 77.08)
	assertValid(t, snap)
	if snap.Selection != "Sehore" {
		t.Fatalf("expected label from response, got %q", snap.Selection)
	}
	got, _ := snap.Weather.Value()
	if got.Selector.Kind != model.SelectByCoordinates || got.Selector.Lat != 23.2 {
		t.Fatalf("unexpected selector %+v", got.Selector)
	}
}

func TestCityNotFoundIsRewritten(t *testing.T) {
	gw := &fakeWeather{respond: func(ctx context.Context, sel model.LocationSelector) (model.WeatherSnapshot, error) {
		if sel.City == "Atlantis" {
			return model.WeatherSnapshot{}, errx.Server(errors.New("http 404"), http.StatusNotFound, "city not found")
		}
		return model.WeatherSnapshot{}, errx.Server(errors.New("http 429"), http.StatusTooManyRequests, "rate limited")
	}}
	store := NewStore(gw, model.WeatherConfig{DefaultCity: "Bhopal"})

	snap := store.SelectCity(context.Background(), "Atlantis")
	assertValid(t, snap)
	if snap.Weather.ErrorMessage != "City not found. Check spelling." {
		t.Fatalf("unexpected message %q", snap.Weather.ErrorMessage)
	}
	if snap.Selection != "Bhopal" {
		t.Fatalf("selection must not change on failure, got %q", snap.Selection)
	}

	snap = store.SelectCity(context.Background(), "Pune")
	if snap.Weather.ErrorMessage != "rate limited" {
		t.Fatalf("unrelated message must pass through, got %q", snap.Weather.ErrorMessage)
	}
}

func TestInvalidInputNeverCallsGateway(t *testing.T) {
	gw := &fakeWeather{}
	store := NewStore(gw, model.WeatherConfig{})

	for _, snap := range []Snapshot{
		store.SelectCity(context.Background(), "   "),
		store.SelectCoordinates(context.Background(), 91, 10),
		store.SelectCoordinates(context.Background(), 10, 181),
	} {
		assertValid(t, snap)
		if snap.Weather.Status != async.Failed || snap.Weather.ErrorKind != errx.KindValidation {
			t.Fatalf("expected validation failure, got %+v", snap.Weather)
		}
		if snap.Weather.ErrorMessage != "Invalid input for fetching weather." {
			t.Fatalf("unexpected message %q", snap.Weather.ErrorMessage)
		}
	}
	if gw.callCount() != 0 {
		t.Fatalf("expected no calls, got %d", gw.callCount())
	}
}

func TestLastIssuedFetchWins(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gw := &fakeWeather{respond: func(ctx context.Context, sel model.LocationSelector) (model.WeatherSnapshot, error) {
		if sel.City == "Indore" {
			close(started)
			<-release
		}
		return model.WeatherSnapshot{City: sel.City, Temperature: 25, Humidity: 40}, nil
	}}
	store := NewStore(gw, model.WeatherConfig{DefaultCity: "Bhopal"})

	done := make(chan Snapshot)
	go func() {
		done <- store.SelectCity(context.Background(), "Indore")
	}()
	<-started

	latest := store.SelectCity(context.Background(), "Pune")
	if latest.Selection != "Pune" {
		t.Fatalf("expected Pune, got %q", latest.Selection)
	}

	close(release)
	stale := <-done
	if stale.Selection != "Pune" {
		t.Fatalf("stale settlement returned overwritten state: %+v", stale)
	}

	final := store.Snapshot()
	assertValid(t, final)
	got, _ := final.Weather.Value()
	if final.Selection != "Pune" || got.City != "Pune" {
		t.Fatalf("stale fetch overwrote newer result: %+v", final)
	}
}

func TestSelectCurrentLocation(t *testing.T) {
	gw := &fakeWeather{respond: func(ctx context.Context, sel model.LocationSelector) (model.WeatherSnapshot, error) {
		return model.WeatherSnapshot{City: "Vidisha", Temperature: 27, Humidity: 45}, nil
	}}
	store := NewStore(gw, model.WeatherConfig{DefaultCity: "Bhopal"})

	snap, err := store.SelectCurrentLocation(context.Background(), geo.Unavailable())
	if err == nil {
		t.Fatal("expected locator failure")
	}
	if errx.UserMessage(err) != "Geolocation is not supported by your browser." {
		t.Fatalf("unexpected message %q", errx.UserMessage(err))
	}
	if snap.Weather.Status != async.Idle || gw.callCount() != 0 {
		t.Fatalf("locator failure must not touch the store: %+v", snap)
	}

	denied := geo.LocatorFunc(func(context.Context) (geo.Position, error) {
		return geo.Position{}, errors.New("User denied Geolocation")
	})
	if _, err := store.SelectCurrentLocation(context.Background(), denied); errx.UserMessage(err) != "Could not detect location: User denied Geolocation. Please allow access or search manually." {
		t.Fatalf("unexpected message %q", errx.UserMessage(err))
	}

	snap, err = store.SelectCurrentLocation(context.Background(), geo.Fixed(23.52, 77.81))
	if err != nil {
		t.Fatalf("select current location: %v", err)
	}
	if snap.Selection != "Vidisha" {
		t.Fatalf("unexpected selection %q", snap.Selection)
	}
}

func TestSubscribersSeePendingThenResult(t *testing.T) {
	release := make(chan struct{})
	gw := &fakeWeather{respond: func(ctx context.Context, sel model.LocationSelector) (model.WeatherSnapshot, error) {
		<-release
		return model.WeatherSnapshot{City: sel.City, Temperature: 20, Humidity: 30}, nil
	}}
	store := NewStore(gw, model.WeatherConfig{})
	ch, cancel := store.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		store.SelectCity(context.Background(), "Ujjain")
		close(done)
	}()

	first := <-ch
	if first.Weather.Status != async.Pending {
		t.Fatalf("expected pending snapshot, got %s", first.Weather.Status)
	}
	close(release)
	<-done

	second := <-ch
	if second.Weather.Status != async.Succeeded || second.Version <= first.Version {
		t.Fatalf("unexpected second snapshot %+v", second)
	}
}
