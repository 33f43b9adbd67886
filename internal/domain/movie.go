package domain

// Movie is a single record from the upstream catalogue. Records are immutable
// once fetched and are identified by the server-assigned ID.
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"` // ISO 8601, YYYY-MM-DD
	PosterPath  string `json:"poster_path"`
}

// ReleaseYear returns the four-digit year prefix of the release date, or an
// empty string when the date is too short to carry one.
func (m Movie) ReleaseYear() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}
