package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewConnectsAndPings(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := Config{URL: "redis://" + mr.Addr(), ReadTimeout: 1, WriteTimeout: 1, DialTimeout: 1}
	if !cfg.Enabled() {
		t.Fatal("expected config with URL to be enabled")
	}
	client, err := cfg.New()
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()
}

func TestNewRejectsBadURL(t *testing.T) {
	cfg := Config{URL: "not-a-redis-url"}
	if _, err := cfg.New(); err == nil {
		t.Fatal("expected parse error")
	}
	if (&Config{}).Enabled() {
		t.Fatal("expected empty config to be disabled")
	}
}
