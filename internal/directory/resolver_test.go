package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/paydesk/payroll-engine/internal/domain"
)

func TestResolver_ResolveAndCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/accounts/W1", r.URL.Path)
		json.NewEncoder(w).Encode(domain.Identity{ID: "W1", DisplayName: "Wanda Okafor", Role: "worker"})
	}))
	defer server.Close()

	resolver := NewResolver(NewHTTPClient(server.URL, time.Second), time.Minute)

	identity := resolver.Resolve(context.Background(), "W1")
	assert.Equal(t, "Wanda Okafor", identity.DisplayName)

	// Second lookup is served from cache.
	identity = resolver.Resolve(context.Background(), "W1")
	assert.Equal(t, "Wanda Okafor", identity.DisplayName)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestResolver_FallsBackToRawID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resolver := NewResolver(NewHTTPClient(server.URL, time.Second), time.Minute)

	identity := resolver.Resolve(context.Background(), "ghost-account")
	assert.Equal(t, "ghost-account", identity.ID)
	assert.Equal(t, "ghost-account", identity.DisplayName)
}

func TestDebouncedLookup_OnlyLatestDelivers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/accounts/"):]
		json.NewEncoder(w).Encode(domain.Identity{ID: id, DisplayName: "name:" + id})
	}))
	defer server.Close()

	resolver := NewResolver(NewHTTPClient(server.URL, time.Second), time.Minute)

	results := make(chan *domain.Identity, 4)
	lookup := NewDebouncedLookup(resolver, 50*time.Millisecond, func(identity *domain.Identity) {
		results <- identity
	})
	defer lookup.Stop()

	// Rapid keystrokes: only the final value survives the quiet period.
	lookup.Lookup("W")
	time.Sleep(10 * time.Millisecond)
	lookup.Lookup("W1")
	time.Sleep(10 * time.Millisecond)
	lookup.Lookup("W12")

	select {
	case identity := <-results:
		assert.Equal(t, "W12", identity.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced lookup never delivered")
	}

	select {
	case extra := <-results:
		t.Fatalf("unexpected second delivery: %v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDebouncedLookup_StopCancelsInFlight(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.Identity{ID: "W1"})
	}))
	defer server.Close()

	resolver := NewResolver(NewHTTPClient(server.URL, time.Second), time.Minute)

	results := make(chan *domain.Identity, 1)
	lookup := NewDebouncedLookup(resolver, 50*time.Millisecond, func(identity *domain.Identity) {
		results <- identity
	})

	lookup.Lookup("W1")
	lookup.Stop()

	select {
	case identity := <-results:
		t.Fatalf("delivery after stop: %v", identity)
	case <-time.After(300 * time.Millisecond):
	}
}
