// Package query holds the in-memory sort and filter semantics shared by every
// local store that cannot push them down to a database.
package query

import (
	"sort"

	"github.com/Clark-Hu/moviegrid/internal/domain"
)

// ReleaseYear extracts the year prefix of an ISO 8601 date.
func ReleaseYear(date string) string {
	return domain.Movie{ReleaseDate: date}.ReleaseYear()
}

// Filter keeps movies whose release year is in years. Blank entries are
// ignored; when none remain the input is returned unchanged.
func Filter(movies []domain.Movie, years []string) []domain.Movie {
	set := domain.Query{Years: years}.YearSet()
	if len(set) == 0 {
		return movies
	}
	out := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if _, ok := set[m.ReleaseYear()]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Sort orders movies in place. The sort is stable, so equal keys keep their
// relative order in both directions.
func Sort(movies []domain.Movie, by domain.SortBy, dir domain.SortDirection) {
	key := sortKey(by)
	sort.SliceStable(movies, func(i, j int) bool {
		a, b := key(movies[i]), key(movies[j])
		if dir == domain.Descending {
			return a > b
		}
		return a < b
	})
}

func sortKey(by domain.SortBy) func(domain.Movie) string {
	if by == domain.SortByReleaseDate {
		return func(m domain.Movie) string { return m.ReleaseDate }
	}
	return func(m domain.Movie) string { return m.Title }
}

// Apply filters then sorts a copy of movies according to q.
func Apply(movies []domain.Movie, q domain.Query) []domain.Movie {
	filtered := Filter(movies, q.Years)
	out := make([]domain.Movie, len(filtered))
	copy(out, filtered)
	Sort(out, q.SortBy, q.Direction)
	return out
}

// DistinctYears lists each release year once, in first-seen order. Movies
// without a usable date are skipped.
func DistinctYears(movies []domain.Movie) []string {
	seen := make(map[string]struct{})
	years := make([]string, 0)
	for _, m := range movies {
		y := m.ReleaseYear()
		if y == "" {
			continue
		}
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	return years
}
