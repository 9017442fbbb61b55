// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package content

import (
	"context"
	"fmt"

	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// Query carries the discovery filters passed verbatim to the upstream.
type Query struct {
	GenreIDs []int
	SortBy   string
	Page     int
}

// Source discovers candidates for a media kind.
type Source interface {
	Discover(ctx context.Context, kind models.MediaKind, q Query) ([]models.Candidate, error)
}

// Route maps a media kind to its upstream path segment.
func Route(kind models.MediaKind) (string, error) {
	switch kind {
	case models.MediaKindMovie:
		return "movie", nil
	case models.MediaKindTV:
		return "tv", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMediaKind, kind)
	}
}
