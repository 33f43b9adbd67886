package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildMovieQuery(f *testing.F) {
	seeds := []string{
		"page=2&sortBy=name&sortDirection=asc&year=2010",
		"year=abc",
		"year=2019,2020&year=2021",
		"page=-5",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		page, q, err := buildMovieQuery(values)
		if err != nil {
			return
		}
		if page < 1 {
			t.Fatalf("accepted page %d", page)
		}
		for _, y := range q.Years {
			if !isYear(y) {
				t.Fatalf("accepted year %q", y)
			}
		}
	})
}
