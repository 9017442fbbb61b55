// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MediaKind selects between the movie and TV catalogs.
type MediaKind string

const (
	MediaKindMovie MediaKind = "MOVIE"
	MediaKindTV    MediaKind = "TV"
)

// ParseMediaKind accepts MOVIE/TV in any case.
func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(strings.ToUpper(strings.TrimSpace(s))) {
	case MediaKindMovie:
		return MediaKindMovie, nil
	case MediaKindTV:
		return MediaKindTV, nil
	default:
		return "", fmt.Errorf("unknown media kind %q", s)
	}
}

// Valid reports whether k is one of the known kinds.
func (k MediaKind) Valid() bool {
	return k == MediaKindMovie || k == MediaKindTV
}

// Candidate is one content item eligible to be shown to room members.
// It is never mutated after storage.
type Candidate struct {
	ContentID   string    `json:"content_id"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview,omitempty"`
	PosterPath  string    `json:"poster_path,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	Rating      float64   `json:"rating"`
	GenreIDs    []int     `json:"genre_ids"`
	MediaKind   MediaKind `json:"media_kind"`
	Priority    int       `json:"priority,omitempty"`
}

// HasAnyGenre reports whether the candidate carries at least one of genres.
// An empty filter matches nothing.
func (c *Candidate) HasAnyGenre(genres []int) bool {
	for _, want := range genres {
		for _, have := range c.GenreIDs {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ContentIDLess orders content IDs numerically when both parse as integers
// and lexically otherwise. Numeric IDs sort before non-numeric ones.
func ContentIDLess(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

// SortCandidates sorts in place by ascending content ID.
func SortCandidates(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		return ContentIDLess(cs[i].ContentID, cs[j].ContentID)
	})
}

// FilterCriteria is fixed at room cache creation and never changes.
type FilterCriteria struct {
	MediaKind MediaKind `json:"media_kind" validate:"required,oneof=MOVIE TV"`
	GenreIDs  []int     `json:"genre_ids,omitempty" validate:"max=10,dive,gt=0"`
	SortBy    string    `json:"sort_by,omitempty" validate:"omitempty,oneof=popularity.desc popularity.asc vote_average.desc vote_average.asc release_date.desc release_date.asc"`
}

// GenreParam renders the genre filter the way the upstream expects it: "28,12".
func (f FilterCriteria) GenreParam() string {
	parts := make([]string, len(f.GenreIDs))
	for i, id := range f.GenreIDs {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
