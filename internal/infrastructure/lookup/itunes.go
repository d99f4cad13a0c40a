// Package lookup resolves App Store identifiers to competitor metadata via
// the public iTunes lookup API, with a TTL file cache in front.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

const defaultLookupEndpoint = "https://itunes.apple.com/lookup"

// ITunesLookup fetches store listings by numeric app id.
type ITunesLookup struct {
	endpoint   string
	httpClient *http.Client
	cache      ports.LookupCache
	logger     ports.Logger
}

var _ ports.CompetitorLookup = (*ITunesLookup)(nil)

// NewITunesLookup builds a lookup client. cache may be nil to disable
// memoization.
func NewITunesLookup(cache ports.LookupCache, logger ports.Logger) *ITunesLookup {
	return &ITunesLookup{
		endpoint:   defaultLookupEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cache,
		logger:     logger,
	}
}

// NewITunesLookupAt overrides the endpoint, used by tests.
func NewITunesLookupAt(endpoint string, cache ports.LookupCache, logger ports.Logger) *ITunesLookup {
	l := NewITunesLookup(cache, logger)
	l.endpoint = endpoint
	return l
}

type lookupResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		TrackName        string   `json:"trackName"`
		Description      string   `json:"description"`
		SellerName       string   `json:"sellerName"`
		PrimaryGenreName string   `json:"primaryGenreName"`
		Genres           []string `json:"genres"`
		Price            float64  `json:"price"`
		AverageRating    float64  `json:"averageUserRating"`
		Version          string   `json:"version"`
	} `json:"results"`
}

// Lookup resolves appID to competitor metadata, serving the cache first.
// Cache failures are logged and ignored; the network result wins.
func (l *ITunesLookup) Lookup(ctx context.Context, appID string) (domain.CompetitorApp, error) {
	if l.cache != nil {
		if app, ok, err := l.cache.Get(appID); err != nil {
			l.logger.Warn("lookup cache read failed", map[string]interface{}{"error": err.Error()})
		} else if ok {
			return app, nil
		}
	}

	reqURL := fmt.Sprintf("%s?id=%s", l.endpoint, url.QueryEscape(appID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.CompetitorApp{}, err
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return domain.CompetitorApp{}, &domain.ConnectionError{Op: "itunes lookup", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return domain.CompetitorApp{}, fmt.Errorf("itunes lookup: %s", resp.Status)
	}

	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.CompetitorApp{}, fmt.Errorf("decoding lookup response: %w", err)
	}
	if out.ResultCount == 0 || len(out.Results) == 0 {
		return domain.CompetitorApp{}, fmt.Errorf("no app found for id %s", appID)
	}

	r := out.Results[0]
	app := domain.CompetitorApp{
		Name:        r.TrackName,
		Description: r.Description,
		Seller:      r.SellerName,
		Category:    r.PrimaryGenreName,
		Genres:      r.Genres,
		Price:       r.Price,
		Rating:      r.AverageRating,
		Version:     r.Version,
	}

	if l.cache != nil {
		if err := l.cache.Set(appID, app); err != nil {
			l.logger.Warn("lookup cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return app, nil
}
