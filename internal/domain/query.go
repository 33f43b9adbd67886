package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuery is returned when a sort key or direction cannot be parsed.
var ErrInvalidQuery = errors.New("domain: invalid query")

// SortBy selects the field movies are ordered by.
type SortBy int

const (
	SortByName SortBy = iota
	SortByReleaseDate
)

func (s SortBy) String() string {
	switch s {
	case SortByName:
		return "name"
	case SortByReleaseDate:
		return "releaseDate"
	default:
		return fmt.Sprintf("SortBy(%d)", int(s))
	}
}

// ParseSortBy accepts the wire names "name" and "releaseDate" (case-insensitive).
// An empty string selects the default, SortByName.
func ParseSortBy(raw string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "name", "title":
		return SortByName, nil
	case "releasedate", "release_date":
		return SortByReleaseDate, nil
	default:
		return SortByName, fmt.Errorf("%w: unknown sortBy %q", ErrInvalidQuery, raw)
	}
}

// SortDirection selects ascending or descending order.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("SortDirection(%d)", int(d))
	}
}

// ParseSortDirection accepts "asc" and "desc". An empty string selects Ascending.
func ParseSortDirection(raw string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("%w: unknown sortDirection %q", ErrInvalidQuery, raw)
	}
}

// Query bundles the sort and filter parameters of a single lookup.
// An empty Years set disables year filtering.
type Query struct {
	SortBy    SortBy
	Direction SortDirection
	Years     []string
}

// DefaultQuery orders by name ascending with no filter.
func DefaultQuery() Query {
	return Query{SortBy: SortByName, Direction: Ascending}
}

// FilterYears returns Years with blank entries removed. A release year is
// never blank, so a blank entry cannot select anything. The result is nil when
// no filter applies.
func (q Query) FilterYears() []string {
	var years []string
	for _, y := range q.Years {
		if y = strings.TrimSpace(y); y != "" {
			years = append(years, y)
		}
	}
	return years
}

// YearSet returns FilterYears as a lookup set; nil when no filter applies.
func (q Query) YearSet() map[string]struct{} {
	years := q.FilterYears()
	if len(years) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(years))
	for _, y := range years {
		set[y] = struct{}{}
	}
	return set
}
