package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviegrid/internal/logging"
)

type movieEntry struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
}

type pageResponse struct {
	Page         int          `json:"page"`
	Results      []movieEntry `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

func main() {
	var (
		port     = flag.String("port", "9099", "port to listen on")
		data     = flag.String("data", "cmd/tmdb-mock/testdata/popular.json", "path to mock data file (JSON array of movies)")
		pageSize = flag.Int("page-size", 20, "movies per page")
		apiKey   = flag.String("api-key", "", "expected bearer token; empty accepts any")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logger := logging.New(*logLevel)

	file, err := os.ReadFile(*data)
	if err != nil {
		logger.Fatalf("read mock data: %v", err)
	}

	var movies []movieEntry
	if err := json.Unmarshal(file, &movies); err != nil {
		logger.Fatalf("parse mock data: %v", err)
	}
	if *pageSize <= 0 {
		logger.Fatalf("page-size must be positive")
	}

	handler := popularHandler(movies, *pageSize, *apiKey, logger)
	mux := http.NewServeMux()
	mux.Handle("/movie/popular", handler)
	mux.Handle("/3/movie/popular", handler)

	addr := ":" + *port
	logger.WithFields(logrus.Fields{
		"addr":   addr,
		"movies": len(movies),
	}).Info("mock tmdb listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}

func popularHandler(movies []movieEntry, pageSize int, apiKey string, logger *logrus.Logger) http.HandlerFunc {
	totalPages := (len(movies) + pageSize - 1) / pageSize
	return func(w http.ResponseWriter, r *http.Request) {
		if apiKey != "" && r.Header.Get("Authorization") != "Bearer "+apiKey {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}

		resp := pageResponse{
			Page:         page,
			Results:      []movieEntry{},
			TotalPages:   totalPages,
			TotalResults: len(movies),
		}
		if page <= totalPages {
			start := (page - 1) * pageSize
			end := start + pageSize
			if end > len(movies) {
				end = len(movies)
			}
			resp.Results = movies[start:end]
		}

		logger.WithFields(logrus.Fields{
			"page":  page,
			"count": len(resp.Results),
		}).Debug("served page")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
