package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestServerClassifiesByStatus(t *testing.T) {
	if got := Server(nil, http.StatusNotFound, "city not found").Kind; got != KindValidation {
		t.Fatalf("expected 404 to be validation, got %s", got)
	}
	if got := Server(nil, http.StatusInternalServerError, "boom").Kind; got != KindServer {
		t.Fatalf("expected 500 to be server, got %s", got)
	}
	if got := Server(nil, http.StatusOK, "bad body").Kind; got != KindServer {
		t.Fatalf("expected schema mismatch on 200 to be server, got %s", got)
	}
}

func TestUserMessageUnwrapsChain(t *testing.T) {
	base := Network(errors.New("dial tcp: refused"), "Failed to fetch weather data.")
	wrapped := fmt.Errorf("get weather: %w", base)

	if got := UserMessage(wrapped); got != "Failed to fetch weather data." {
		t.Fatalf("unexpected user message %q", got)
	}
	if got := KindOf(wrapped); got != KindNetwork {
		t.Fatalf("expected network kind, got %s", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Fatalf("expected plain error text, got %q", got)
	}
	if got := UserMessage(nil); got != "" {
		t.Fatalf("expected empty message for nil, got %q", got)
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Fatalf("expected internal kind, got %s", got)
	}
}

func TestWrapRedis(t *testing.T) {
	if WrapRedis(nil) != nil {
		t.Fatal("expected nil passthrough")
	}
	err := WrapRedis(redis.Nil)
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 app error, got %v", err)
	}
	if !errors.Is(err, redis.Nil) {
		t.Fatal("expected redis.Nil to remain reachable")
	}
	err = WrapRedis(errors.New("connection reset"))
	if !errors.As(err, &appErr) || appErr.Status != http.StatusBadGateway {
		t.Fatalf("expected 502 app error, got %v", err)
	}
}
