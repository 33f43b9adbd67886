package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/Clark-Hu/moviegrid/internal/catalog"
	"github.com/Clark-Hu/moviegrid/internal/domain"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type movieListResponse struct {
	Status string          `json:"status"`
	Page   int             `json:"page"`
	Data   []movieResponse `json:"data"`
}

type movieResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"releaseDate"`
	PosterPath  string `json:"posterPath,omitempty"`
	PosterURL   string `json:"posterUrl,omitempty"`
}

type yearsResponse struct {
	Years []string `json:"years"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	page, q, err := buildMovieQuery(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	movies, err := s.catalog.GetMovies(r.Context(), page, q)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidPage) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.WithError(err).WithField("page", page).Warn("list movies failed")
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	items := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, s.toMovieResponse(movie))
	}
	s.respondJSON(w, http.StatusOK, movieListResponse{
		Status: statusSuccess,
		Page:   page,
		Data:   items,
	})
}

func (s *Server) handleListYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.catalog.Years(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("list years failed")
		s.respondError(w, http.StatusInternalServerError, "Failed to list years")
		return
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	s.respondJSON(w, http.StatusOK, yearsResponse{Years: years})
}

// buildMovieQuery parses page, sortBy, sortDirection and year. year may be
// repeated or comma-separated.
func buildMovieQuery(values url.Values) (int, domain.Query, error) {
	page := 1
	if val := strings.TrimSpace(values.Get("page")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 1 {
			return 0, domain.Query{}, fmt.Errorf("invalid page value")
		}
		page = parsed
	}

	sortBy, err := domain.ParseSortBy(values.Get("sortBy"))
	if err != nil {
		return 0, domain.Query{}, fmt.Errorf("invalid sortBy value")
	}
	direction, err := domain.ParseSortDirection(values.Get("sortDirection"))
	if err != nil {
		return 0, domain.Query{}, fmt.Errorf("invalid sortDirection value")
	}

	var years []string
	seen := make(map[string]struct{})
	for _, raw := range values["year"] {
		for _, part := range strings.Split(raw, ",") {
			year := strings.TrimSpace(part)
			if year == "" {
				continue
			}
			if !isYear(year) {
				return 0, domain.Query{}, fmt.Errorf("invalid year value")
			}
			if _, ok := seen[year]; ok {
				continue
			}
			seen[year] = struct{}{}
			years = append(years, year)
		}
	}

	return page, domain.Query{SortBy: sortBy, Direction: direction, Years: years}, nil
}

func isYear(val string) bool {
	if len(val) != 4 {
		return false
	}
	for _, c := range val {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (s *Server) toMovieResponse(movie domain.Movie) movieResponse {
	resp := movieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		ReleaseDate: movie.ReleaseDate,
		PosterPath:  movie.PosterPath,
	}
	if movie.PosterPath != "" && s.cfg.ImageBaseURL != "" {
		resp.PosterURL = s.cfg.ImageBaseURL + "/" + strings.TrimLeft(movie.PosterPath, "/")
	}
	return resp
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.WithError(err).Error("failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{
		Status:  statusError,
		Message: message,
	})
}
