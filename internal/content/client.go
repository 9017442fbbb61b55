// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/ibanezbetes/trinity-sub002/internal/config"
	"github.com/ibanezbetes/trinity-sub002/internal/logging"
	"github.com/ibanezbetes/trinity-sub002/internal/metrics"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

const maxErrorBodySize = 64 * 1024

// Client calls the TMDB discover endpoints.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	sortBy   string
	timeout  time.Duration
	client   *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a discovery client. A zero RateLimit disables throttling.
func NewClient(cfg *config.ContentConfig) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		sortBy:   cfg.SortBy,
		timeout:  cfg.Timeout,
		// The per-call context deadline is authoritative; this is a backstop.
		client:  &http.Client{Timeout: cfg.Timeout + time.Second},
		limiter: limiter,
	}
}

type discoverResponse struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      []discoverItem `json:"results"`
}

// discoverItem covers both movie (title, release_date) and TV (name, first_air_date) shapes.
type discoverItem struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
}

func (it *discoverItem) toCandidate(kind models.MediaKind) models.Candidate {
	title := it.Title
	if title == "" {
		title = it.Name
	}
	released := it.ReleaseDate
	if released == "" {
		released = it.FirstAirDate
	}
	genres := it.GenreIDs
	if genres == nil {
		genres = []int{}
	}
	return models.Candidate{
		ContentID:   strconv.FormatInt(it.ID, 10),
		Title:       title,
		Overview:    it.Overview,
		PosterPath:  it.PosterPath,
		ReleaseDate: released,
		Rating:      it.VoteAverage,
		GenreIDs:    genres,
		MediaKind:   kind,
	}
}

// Discover fetches one page of candidates. An empty page is not an error.
func (c *Client) Discover(ctx context.Context, kind models.MediaKind, q Query) ([]models.Candidate, error) {
	route, err := Route(kind)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &SourceError{Route: route, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	reqURL := c.buildURL(route, q)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, &SourceError{Route: route, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(route, 0, time.Since(start))
		return nil, &SourceError{Route: route, Err: fmt.Errorf("HTTP request failed: %w", err)}
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamRequest(route, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readBodyForError(resp.Body)
		return nil, &SourceError{Route: route, StatusCode: resp.StatusCode, Err: errors.New(string(body))}
	}

	var payload discoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &SourceError{Route: route, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	out := make([]models.Candidate, 0, len(payload.Results))
	for i := range payload.Results {
		if payload.Results[i].ID == 0 {
			continue
		}
		out = append(out, payload.Results[i].toCandidate(kind))
	}

	logging.Ctx(ctx).Debug().
		Str("route", route).
		Int("page", payload.Page).
		Int("total_pages", payload.TotalPages).
		Int("results", len(out)).
		Msg("Discover page fetched")
	return out, nil
}

func (c *Client) buildURL(route string, q Query) string {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = c.sortBy
	}
	if sortBy != "" {
		params.Set("sort_by", sortBy)
	}
	if genres := (models.FilterCriteria{GenreIDs: q.GenreIDs}).GenreParam(); genres != "" {
		params.Set("with_genres", genres)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	return fmt.Sprintf("%s/discover/%s?%s", c.baseURL, route, params.Encode())
}

// readBodyForError reads at most 64KB of an error body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
