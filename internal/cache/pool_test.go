// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package cache

import (
	"testing"
	"time"

	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

func candidates(ids ...string) []models.Candidate {
	out := make([]models.Candidate, len(ids))
	for i, id := range ids {
		out[i] = models.Candidate{ContentID: id, MediaKind: models.MediaKindMovie}
	}
	return out
}

func ids(cs []models.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ContentID
	}
	return out
}

func TestPoolPutDeduplicates(t *testing.T) {
	p := NewPool(time.Minute, 0)
	defer p.Close()

	p.Put("r1", candidates("1", "2"))
	p.Put("r1", candidates("2", "3"))

	if got := p.Len("r1"); got != 3 {
		t.Errorf("Len = %d, want 3", got)
	}
}

func TestPoolTake(t *testing.T) {
	p := NewPool(time.Minute, 0)
	defer p.Close()

	p.Put("r1", candidates("1", "2", "3", "4", "5"))
	exclude := map[string]struct{}{"2": {}}

	got := p.Take("r1", exclude, 2)
	if want := []string{"1", "3"}; len(got) != 2 || got[0].ContentID != want[0] || got[1].ContentID != want[1] {
		t.Fatalf("Take = %v, want %v", ids(got), want)
	}
	// "2" was excluded and discarded; 4 and 5 remain.
	if n := p.Len("r1"); n != 2 {
		t.Errorf("Len after take = %d, want 2", n)
	}

	rest := p.Take("r1", nil, 10)
	if len(rest) != 2 {
		t.Errorf("second Take = %v", ids(rest))
	}
	if n := p.Len("r1"); n != 0 {
		t.Errorf("pool should be empty, Len = %d", n)
	}
}

func TestPoolRoomIsolation(t *testing.T) {
	p := NewPool(time.Minute, 0)
	defer p.Close()

	p.Put("a", candidates("1"))
	p.Put("b", candidates("2"))
	p.Drop("a")

	if p.Len("a") != 0 {
		t.Error("room a should be dropped")
	}
	if got := p.Take("b", nil, 5); len(got) != 1 || got[0].ContentID != "2" {
		t.Errorf("room b Take = %v", ids(got))
	}
}

func TestPoolTakeEmpty(t *testing.T) {
	p := NewPool(time.Minute, 0)
	defer p.Close()

	if got := p.Take("missing", nil, 5); len(got) != 0 {
		t.Errorf("Take on empty pool = %v", ids(got))
	}
}
