package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/pkg/logger"
)

func appFixture() domain.CompetitorApp {
	return domain.CompetitorApp{Name: "MyFitnessPal", Category: "Health & Fitness", Rating: 4.6}
}

func TestLookupParsesListing(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Query().Get("id") != "341232718" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"resultCount":1,"results":[{
			"trackName":"MyFitnessPal",
			"description":"Track calories and macros.",
			"sellerName":"MyFitnessPal, Inc.",
			"primaryGenreName":"Health & Fitness",
			"genres":["Health & Fitness","Lifestyle"],
			"price":0,
			"averageUserRating":4.6,
			"version":"24.1"}]}`))
	}))
	defer server.Close()

	cache := NewFileCacheAt(t.TempDir(), time.Hour)
	l := NewITunesLookupAt(server.URL, cache, logger.NewStd())

	app, err := l.Lookup(context.Background(), "341232718")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if app.Name != "MyFitnessPal" || app.Category != "Health & Fitness" {
		t.Fatalf("app = %+v", app)
	}
	if app.Rating != 4.6 {
		t.Fatalf("rating = %v", app.Rating)
	}

	// Second lookup is served from the cache.
	if _, err := l.Lookup(context.Background(), "341232718"); err != nil {
		t.Fatalf("cached Lookup: %v", err)
	}
	if hits != 1 {
		t.Fatalf("network hits = %d, want 1", hits)
	}
}

func TestLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultCount":0,"results":[]}`))
	}))
	defer server.Close()

	l := NewITunesLookupAt(server.URL, nil, logger.NewStd())
	if _, err := l.Lookup(context.Background(), "999999999"); err == nil {
		t.Fatal("missing app must return an error")
	}
}

func TestCacheExpiresEntries(t *testing.T) {
	cache := NewFileCacheAt(t.TempDir(), time.Nanosecond)
	if err := cache.Set("123456789", appFixture()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, ok, err := cache.Get("123456789")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expired entry must miss")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewFileCacheAt(t.TempDir(), time.Hour)
	want := appFixture()
	if err := cache.Set("123456789", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := cache.Get("123456789")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Name != want.Name || got.Rating != want.Rating {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
