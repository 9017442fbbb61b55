// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package content

import (
	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// TMDB genre IDs used by the fallback set.
const (
	GenreAction      = 28
	GenreAdventure   = 12
	GenreAnimation   = 16
	GenreComedy      = 35
	GenreCrime       = 80
	GenreDocumentary = 99
	GenreDrama       = 18
	GenreFamily      = 10751
	GenreFantasy     = 14
	GenreHistory     = 36
	GenreHorror      = 27
	GenreMusic       = 10402
	GenreMystery     = 9648
	GenreRomance     = 10749
	GenreSciFi       = 878
	GenreThriller    = 53
	GenreWar         = 10752
	GenreWestern     = 37

	// TV-only genres.
	GenreActionAdventureTV = 10759
	GenreSciFiFantasyTV    = 10765
)

func movie(id, title, date string, rating float64, genres ...int) models.Candidate {
	return models.Candidate{
		ContentID:   id,
		Title:       title,
		ReleaseDate: date,
		Rating:      rating,
		GenreIDs:    genres,
		MediaKind:   models.MediaKindMovie,
		Priority:    1,
	}
}

func show(id, title, date string, rating float64, genres ...int) models.Candidate {
	c := movie(id, title, date, rating, genres...)
	c.MediaKind = models.MediaKindTV
	return c
}

var fallbackSet = []models.Candidate{
	movie("11", "Star Wars", "1977-05-25", 8.2, GenreAdventure, GenreAction, GenreSciFi),
	movie("13", "Forrest Gump", "1994-06-23", 8.5, GenreComedy, GenreDrama, GenreRomance),
	movie("105", "Back to the Future", "1985-07-03", 8.3, GenreAdventure, GenreComedy, GenreSciFi),
	movie("120", "The Lord of the Rings: The Fellowship of the Ring", "2001-12-18", 8.4, GenreAdventure, GenreFantasy, GenreAction),
	movie("129", "Spirited Away", "2001-07-20", 8.5, GenreAnimation, GenreFamily, GenreFantasy),
	movie("155", "The Dark Knight", "2008-07-16", 8.5, GenreDrama, GenreAction, GenreCrime, GenreThriller),
	movie("194", "Amélie", "2001-04-25", 7.9, GenreComedy, GenreRomance),
	movie("238", "The Godfather", "1972-03-14", 8.7, GenreDrama, GenreCrime),
	movie("278", "The Shawshank Redemption", "1994-09-23", 8.7, GenreDrama, GenreCrime),
	movie("424", "Schindler's List", "1993-12-15", 8.6, GenreDrama, GenreHistory, GenreWar),
	movie("497", "The Green Mile", "1999-12-10", 8.5, GenreFantasy, GenreDrama, GenreCrime),
	movie("539", "Psycho", "1960-06-22", 8.4, GenreHorror, GenreThriller, GenreMystery),
	movie("550", "Fight Club", "1999-10-15", 8.4, GenreDrama),
	movie("603", "The Matrix", "1999-03-30", 8.2, GenreAction, GenreSciFi),
	movie("680", "Pulp Fiction", "1994-09-10", 8.5, GenreThriller, GenreCrime),
	movie("694", "The Shining", "1980-05-23", 8.2, GenreHorror, GenreThriller),
	movie("769", "GoodFellas", "1990-09-12", 8.5, GenreDrama, GenreCrime),
	movie("862", "Toy Story", "1995-10-30", 8.0, GenreAnimation, GenreAdventure, GenreFamily, GenreComedy),
	movie("8587", "The Lion King", "1994-06-24", 8.3, GenreFamily, GenreAnimation, GenreDrama),
	movie("27205", "Inception", "2010-07-15", 8.4, GenreAction, GenreSciFi, GenreAdventure),
	show("1396", "Breaking Bad", "2008-01-20", 8.9, GenreDrama, GenreCrime),
	show("1399", "Game of Thrones", "2011-04-17", 8.5, GenreSciFiFantasyTV, GenreDrama, GenreActionAdventureTV),
	show("1668", "Friends", "1994-09-22", 8.4, GenreComedy),
	show("60059", "Better Call Saul", "2015-02-08", 8.7, GenreCrime, GenreDrama),
	show("66732", "Stranger Things", "2016-07-15", 8.6, GenreSciFiFantasyTV, GenreMystery, GenreDrama),
}

// Fallback serves the static set. It never touches the network and never fails.
type Fallback struct {
	set []models.Candidate
}

// NewFallback returns the built-in fallback set.
func NewFallback() *Fallback {
	return NewFallbackWith(fallbackSet)
}

// NewFallbackWith builds a fallback from a custom set.
func NewFallbackWith(set []models.Candidate) *Fallback {
	cp := make([]models.Candidate, len(set))
	copy(cp, set)
	models.SortCandidates(cp)
	return &Fallback{set: cp}
}

// Select returns the fallback entries for a filter, minus excluded IDs, in
// ascending content ID order. Entries of the requested kind are used when
// there are any. Among those, entries whose genres intersect the filter are
// preferred; with no intersection the whole remaining set is returned.
func (f *Fallback) Select(filter models.FilterCriteria, exclude map[string]struct{}, limit int) []models.Candidate {
	pool := make([]models.Candidate, 0, len(f.set))
	for _, c := range f.set {
		if c.MediaKind == filter.MediaKind {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = append(pool, f.set...)
	}

	remaining := pool[:0:0]
	for _, c := range pool {
		if _, seen := exclude[c.ContentID]; !seen {
			remaining = append(remaining, c)
		}
	}

	result := remaining
	if len(filter.GenreIDs) > 0 {
		var matching []models.Candidate
		for i := range remaining {
			if remaining[i].HasAnyGenre(filter.GenreIDs) {
				matching = append(matching, remaining[i])
			}
		}
		if len(matching) > 0 {
			result = matching
		}
	}

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	out := make([]models.Candidate, len(result))
	copy(out, result)
	return out
}

// Len returns the size of the whole set.
func (f *Fallback) Len() int {
	return len(f.set)
}
