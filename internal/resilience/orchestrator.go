// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ibanezbetes/trinity-sub002/internal/cache"
	"github.com/ibanezbetes/trinity-sub002/internal/content"
	"github.com/ibanezbetes/trinity-sub002/internal/logging"
	"github.com/ibanezbetes/trinity-sub002/internal/metrics"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
	"github.com/ibanezbetes/trinity-sub002/internal/store"
)

// Request describes one fetch for a room.
type Request struct {
	RoomID string
	Filter models.FilterCriteria

	// BatchNumber is the batch the store tier looks up. Zero skips that tier.
	BatchNumber int

	// Exclude holds content IDs that must not be returned.
	Exclude map[string]struct{}

	Limit int
}

// Result is what Fetch served.
type Result struct {
	Candidates []models.Candidate
	Source     Tier
	Attempts   []Attempt
}

// Options wires the orchestrator's collaborators. Store and Pool may be nil.
type Options struct {
	Store    store.Store
	Source   content.Source
	Pool     *cache.Pool
	Fallback *content.Fallback

	// MaxPages bounds the upstream pages read per fetch.
	MaxPages int

	// SortBy is used when the filter does not carry a sort order.
	SortBy string

	HistorySize int
}

// Orchestrator runs the fallback chain.
type Orchestrator struct {
	store    store.Store
	source   content.Source
	pool     *cache.Pool
	fallback *content.Fallback
	maxPages int
	sortBy   string
	history  *History
	logger   zerolog.Logger

	// pages remembers the next upstream page per room so later batches
	// do not re-read pages that were already consumed.
	pagesMu sync.Mutex
	pages   map[string]int
}

// New creates an orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Fallback == nil {
		opts.Fallback = content.NewFallback()
	}
	if opts.MaxPages < 1 {
		opts.MaxPages = 1
	}
	return &Orchestrator{
		store:    opts.Store,
		source:   opts.Source,
		pool:     opts.Pool,
		fallback: opts.Fallback,
		maxPages: opts.MaxPages,
		sortBy:   opts.SortBy,
		history:  NewHistory(opts.HistorySize),
		logger:   logging.WithComponent("resilience"),
		pages:    make(map[string]int),
	}
}

// History exposes the attempt log for diagnostics.
func (o *Orchestrator) History() *History {
	return o.history
}

// Forget drops per-room paging state and the room's pool.
func (o *Orchestrator) Forget(roomID string) {
	o.pagesMu.Lock()
	delete(o.pages, roomID)
	o.pagesMu.Unlock()
	if o.pool != nil {
		o.pool.Drop(roomID)
	}
}

// Fetch returns up to req.Limit candidates not in req.Exclude. It does not
// return an error: the fallback tier always answers, possibly with nothing
// when every fallback entry is excluded.
func (o *Orchestrator) Fetch(ctx context.Context, req Request) *Result {
	res := &Result{}
	exclude := req.Exclude
	if exclude == nil {
		exclude = map[string]struct{}{}
	}

	if got := o.fromStore(ctx, req, exclude, res); len(got) > 0 {
		res.Candidates = got
		res.Source = TierRoomCache
		return res
	}

	collected := o.fromPool(ctx, req, exclude, res)
	if len(collected) > 0 {
		res.Source = TierMemoryCache
	}
	if len(collected) < req.Limit {
		seen := make(map[string]struct{}, len(exclude)+len(collected))
		for id := range exclude {
			seen[id] = struct{}{}
		}
		for i := range collected {
			seen[collected[i].ContentID] = struct{}{}
		}
		if more := o.fromUpstream(ctx, req, seen, req.Limit-len(collected), res); len(more) > 0 {
			collected = append(collected, more...)
			res.Source = TierUpstream
		}
	}
	if len(collected) > 0 {
		res.Candidates = collected
		return res
	}

	res.Candidates = o.fromFallback(ctx, req, exclude, res)
	res.Source = TierFallback
	return res
}

func (o *Orchestrator) record(ctx context.Context, res *Result, req Request, tier Tier, outcome string, count int, err error, start time.Time) {
	a := Attempt{
		ID:        uuid.New().String(),
		RequestID: logging.RequestIDFromContext(ctx),
		RoomID:    req.RoomID,
		Tier:      tier,
		Outcome:   outcome,
		Count:     count,
		Duration:  time.Since(start),
		At:        start,
	}
	if err != nil {
		a.Error = err.Error()
	}
	o.history.Add(a)
	res.Attempts = append(res.Attempts, a)
	metrics.RecordTierAttempt(string(tier), outcome, a.Duration)

	logger := logging.Ctx(ctx)
	var ev *zerolog.Event
	if err != nil {
		ev = logger.Warn().Err(err)
	} else {
		ev = logger.Debug()
	}
	ev.Str("room_id", req.RoomID).
		Str("tier", string(tier)).
		Str("outcome", outcome).
		Int("count", count).
		Dur("duration", a.Duration).
		Msg("Fallback tier attempt")
}

func (o *Orchestrator) fromStore(ctx context.Context, req Request, exclude map[string]struct{}, res *Result) []models.Candidate {
	if o.store == nil || req.BatchNumber < 1 {
		return nil
	}
	start := time.Now()
	entries, err := o.store.GetByBatch(ctx, req.RoomID, req.BatchNumber)
	if err != nil {
		o.record(ctx, res, req, TierRoomCache, OutcomeFailure, 0, err, start)
		return nil
	}

	out := make([]models.Candidate, 0, len(entries))
	for i := range entries {
		if _, skip := exclude[entries[i].Candidate.ContentID]; skip {
			continue
		}
		out = append(out, entries[i].Candidate)
		if req.Limit > 0 && len(out) == req.Limit {
			break
		}
	}
	outcome := OutcomeSuccess
	if len(out) == 0 {
		outcome = OutcomeEmpty
	}
	o.record(ctx, res, req, TierRoomCache, outcome, len(out), nil, start)
	return out
}

func (o *Orchestrator) fromPool(ctx context.Context, req Request, exclude map[string]struct{}, res *Result) []models.Candidate {
	if o.pool == nil {
		return nil
	}
	start := time.Now()
	got := o.pool.Take(req.RoomID, exclude, req.Limit)
	outcome := OutcomeSuccess
	if len(got) == 0 {
		outcome = OutcomeEmpty
	}
	o.record(ctx, res, req, TierMemoryCache, outcome, len(got), nil, start)
	return got
}

func (o *Orchestrator) nextPage(roomID string) int {
	o.pagesMu.Lock()
	defer o.pagesMu.Unlock()
	if p, ok := o.pages[roomID]; ok {
		return p
	}
	return 1
}

func (o *Orchestrator) setNextPage(roomID string, page int) {
	o.pagesMu.Lock()
	o.pages[roomID] = page
	o.pagesMu.Unlock()
}

// fromUpstream pages the source until limit unseen candidates are collected,
// a page comes back empty, or the page budget is spent. A failure after at
// least one useful page keeps what was collected.
func (o *Orchestrator) fromUpstream(ctx context.Context, req Request, seen map[string]struct{}, limit int, res *Result) []models.Candidate {
	if o.source == nil || limit <= 0 {
		return nil
	}
	start := time.Now()

	sortBy := req.Filter.SortBy
	if sortBy == "" {
		sortBy = o.sortBy
	}

	var collected, leftovers []models.Candidate
	var lastErr error
	page := o.nextPage(req.RoomID)
	for i := 0; i < o.maxPages && len(collected) < limit; i++ {
		items, err := o.source.Discover(ctx, req.Filter.MediaKind, content.Query{
			GenreIDs: req.Filter.GenreIDs,
			SortBy:   sortBy,
			Page:     page,
		})
		if err != nil {
			lastErr = err
			break
		}
		page++
		if len(items) == 0 {
			break
		}
		for _, c := range items {
			if _, dup := seen[c.ContentID]; dup {
				continue
			}
			seen[c.ContentID] = struct{}{}
			if len(collected) < limit {
				collected = append(collected, c)
			} else {
				leftovers = append(leftovers, c)
			}
		}
	}
	o.setNextPage(req.RoomID, page)

	if len(leftovers) > 0 && o.pool != nil {
		o.pool.Put(req.RoomID, leftovers)
	}

	switch {
	case len(collected) > 0:
		// Partial pages are kept; the error is still visible in history.
		o.record(ctx, res, req, TierUpstream, OutcomeSuccess, len(collected), lastErr, start)
	case errors.Is(lastErr, content.ErrCircuitOpen):
		o.record(ctx, res, req, TierUpstream, OutcomeCircuitOpen, 0, lastErr, start)
	case lastErr != nil:
		o.record(ctx, res, req, TierUpstream, OutcomeFailure, 0, lastErr, start)
	default:
		o.record(ctx, res, req, TierUpstream, OutcomeEmpty, 0, nil, start)
	}
	return collected
}

func (o *Orchestrator) fromFallback(ctx context.Context, req Request, exclude map[string]struct{}, res *Result) []models.Candidate {
	start := time.Now()
	got := o.fallback.Select(req.Filter, exclude, req.Limit)
	outcome := OutcomeSuccess
	if len(got) == 0 {
		outcome = OutcomeEmpty
	}
	o.record(ctx, res, req, TierFallback, outcome, len(got), nil, start)
	return got
}
