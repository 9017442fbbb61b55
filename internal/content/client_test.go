// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ibanezbetes/trinity-sub002/internal/config"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

func testContentConfig(baseURL string) *config.ContentConfig {
	return &config.ContentConfig{
		BaseURL:  baseURL,
		APIKey:   "secret-key",
		Language: "es-ES",
		SortBy:   "popularity.desc",
		Timeout:  2 * time.Second,
		MaxPages: 3,
	}
}

func TestClientDiscover_RouteAndParams(t *testing.T) {
	tests := []struct {
		name      string
		kind      models.MediaKind
		wantPath  string
		wantTitle string
		wantDate  string
		body      string
	}{
		{
			name:      "movie",
			kind:      models.MediaKindMovie,
			wantPath:  "/discover/movie",
			wantTitle: "Fight Club",
			wantDate:  "1999-10-15",
			body:      `{"page":2,"total_pages":9,"results":[{"id":550,"title":"Fight Club","release_date":"1999-10-15","vote_average":8.4,"genre_ids":[18],"poster_path":"/p.jpg"}]}`,
		},
		{
			name:      "tv",
			kind:      models.MediaKindTV,
			wantPath:  "/discover/tv",
			wantTitle: "Breaking Bad",
			wantDate:  "2008-01-20",
			body:      `{"page":2,"total_pages":9,"results":[{"id":1396,"name":"Breaking Bad","first_air_date":"2008-01-20","vote_average":8.9,"genre_ids":[18,80]}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != tt.wantPath {
					t.Errorf("path = %q, want %q", r.URL.Path, tt.wantPath)
				}
				q := r.URL.Query()
				if q.Get("api_key") != "secret-key" {
					t.Errorf("api_key = %q", q.Get("api_key"))
				}
				if q.Get("with_genres") != "18,80" {
					t.Errorf("with_genres = %q", q.Get("with_genres"))
				}
				if q.Get("sort_by") != "vote_average.desc" {
					t.Errorf("sort_by = %q", q.Get("sort_by"))
				}
				if q.Get("page") != "2" {
					t.Errorf("page = %q", q.Get("page"))
				}
				if q.Get("language") != "es-ES" {
					t.Errorf("language = %q", q.Get("language"))
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(testContentConfig(srv.URL))
			got, err := c.Discover(context.Background(), tt.kind, Query{
				GenreIDs: []int{18, 80},
				SortBy:   "vote_average.desc",
				Page:     2,
			})
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("got %d candidates, want 1", len(got))
			}
			if got[0].Title != tt.wantTitle || got[0].ReleaseDate != tt.wantDate || got[0].MediaKind != tt.kind {
				t.Errorf("candidate = %+v", got[0])
			}
		})
	}
}

func TestClientDiscover_DefaultsWithoutFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if _, ok := q["with_genres"]; ok {
			t.Error("with_genres should be omitted when no genres are requested")
		}
		if q.Get("sort_by") != "popularity.desc" {
			t.Errorf("sort_by = %q, want configured default", q.Get("sort_by"))
		}
		if q.Get("page") != "1" {
			t.Errorf("page = %q, want 1", q.Get("page"))
		}
		_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
	}))
	defer srv.Close()

	got, err := NewClient(testContentConfig(srv.URL)).Discover(context.Background(), models.MediaKindMovie, Query{})
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0", len(got))
	}
}

func TestClientDiscover_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(testContentConfig(srv.URL)).Discover(context.Background(), models.MediaKindTV, Query{})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
	var se *SourceError
	if !errors.As(err, &se) {
		t.Fatalf("err is not a *SourceError: %T", err)
	}
	if se.Route != "tv" || se.StatusCode != http.StatusUnauthorized {
		t.Errorf("SourceError = %+v", se)
	}
}

func TestClientDiscover_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(testContentConfig(url)).Discover(context.Background(), models.MediaKindMovie, Query{})
	var se *SourceError
	if !errors.As(err, &se) || se.Route != "movie" || se.StatusCode != 0 {
		t.Fatalf("err = %v, want transport SourceError for movie", err)
	}
}

func TestClientDiscover_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := testContentConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := NewClient(cfg).Discover(context.Background(), models.MediaKindMovie, Query{})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestClientDiscover_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	defer srv.Close()

	_, err := NewClient(testContentConfig(srv.URL)).Discover(context.Background(), models.MediaKindMovie, Query{})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestClientDiscover_UnknownKind(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := NewClient(testContentConfig(srv.URL)).Discover(context.Background(), models.MediaKind("ANIME"), Query{})
	if !errors.Is(err, ErrUnknownMediaKind) {
		t.Fatalf("err = %v, want ErrUnknownMediaKind", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("no request should be made for an unknown kind")
	}
}

func TestClientDiscover_RateLimitExceedsDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	cfg := testContentConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	cfg.RateLimit = 0.1 // one token every 10s
	cfg.RateBurst = 1
	c := NewClient(cfg)

	if _, err := c.Discover(context.Background(), models.MediaKindMovie, Query{}); err != nil {
		t.Fatalf("first call should use the burst token: %v", err)
	}
	_, err := c.Discover(context.Background(), models.MediaKindMovie, Query{})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable when the limiter cannot meet the deadline", err)
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		kind    models.MediaKind
		want    string
		wantErr bool
	}{
		{models.MediaKindMovie, "movie", false},
		{models.MediaKindTV, "tv", false},
		{"", "", true},
		{"movie", "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := Route(tt.kind)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("Route(%q) = %q, %v", tt.kind, got, err)
			}
		})
	}
}
