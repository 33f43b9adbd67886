package domain

import (
	"errors"
	"testing"
)

func TestParseSortBy(t *testing.T) {
	tests := []struct {
		raw     string
		want    SortBy
		wantErr bool
	}{
		{"", SortByName, false},
		{"name", SortByName, false},
		{"Name", SortByName, false},
		{"releaseDate", SortByReleaseDate, false},
		{"release_date", SortByReleaseDate, false},
		{"rating", SortByName, true},
	}
	for _, tt := range tests {
		got, err := ParseSortBy(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseSortBy(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidQuery) {
			t.Fatalf("ParseSortBy(%q) error = %v, want ErrInvalidQuery", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseSortBy(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseSortDirection(t *testing.T) {
	tests := []struct {
		raw     string
		want    SortDirection
		wantErr bool
	}{
		{"", Ascending, false},
		{"asc", Ascending, false},
		{"DESC", Descending, false},
		{"descending", Descending, false},
		{"sideways", Ascending, true},
	}
	for _, tt := range tests {
		got, err := ParseSortDirection(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseSortDirection(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseSortDirection(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestMovieReleaseYear(t *testing.T) {
	if got := (Movie{ReleaseDate: "2020-05-01"}).ReleaseYear(); got != "2020" {
		t.Fatalf("ReleaseYear = %q, want 2020", got)
	}
	if got := (Movie{ReleaseDate: "20"}).ReleaseYear(); got != "" {
		t.Fatalf("ReleaseYear of short date = %q, want empty", got)
	}
}

func TestResourceVariants(t *testing.T) {
	if Loading().Done() {
		t.Fatalf("loading resource should not be terminal")
	}
	ok := Success([]Movie{{ID: 1}})
	if !ok.Done() || ok.Status != StatusSuccess || len(ok.Movies) != 1 {
		t.Fatalf("unexpected success resource: %+v", ok)
	}
	failed := Failure("boom")
	if !failed.Done() || failed.Status.String() != "error" || failed.Message != "boom" {
		t.Fatalf("unexpected error resource: %+v", failed)
	}
}

func TestQueryYearSet(t *testing.T) {
	if DefaultQuery().YearSet() != nil {
		t.Fatalf("default query should not filter")
	}
	set := Query{Years: []string{"2020", "2020", "2019"}}.YearSet()
	if len(set) != 2 {
		t.Fatalf("YearSet size = %d, want 2", len(set))
	}
}

func TestQueryFilterYearsDropsBlanks(t *testing.T) {
	q := Query{Years: []string{"2020", "", " ", " 2019 "}}
	got := q.FilterYears()
	if len(got) != 2 || got[0] != "2020" || got[1] != "2019" {
		t.Fatalf("FilterYears = %q, want [2020 2019]", got)
	}
	if _, ok := q.YearSet()[""]; ok {
		t.Fatalf("YearSet must not contain the blank year")
	}
	if (Query{Years: []string{"", ""}}).YearSet() != nil {
		t.Fatalf("only blank years should not filter")
	}
}
