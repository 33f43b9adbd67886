package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/moviegrid/internal/domain"
)

// MoviesRepository is the Postgres-backed local movie cache. Sorting and
// filtering are pushed down to SQL.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    title,
    release_date,
    poster_path
`

// Query returns cached movies matching q. Equal sort keys keep insertion order.
func (r *MoviesRepository) Query(ctx context.Context, q domain.Query) ([]domain.Movie, error) {
	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if years := q.FilterYears(); len(years) > 0 {
		where = append(where, fmt.Sprintf("left(release_date, 4) = ANY(%s)", arg(years)))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(movieColumns)
	queryBuilder.WriteString(" FROM movies")

	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY ")
	queryBuilder.WriteString(orderColumn(q.SortBy))
	queryBuilder.WriteString(` COLLATE "C" `)
	queryBuilder.WriteString(orderDirection(q.Direction))
	queryBuilder.WriteString(", seq ASC")

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Insert appends movies in order. Movies whose ID is already cached are
// skipped, so the first write wins.
func (r *MoviesRepository) Insert(ctx context.Context, movies []domain.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	const query = `
        INSERT INTO movies (id, title, release_date, poster_path)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (id) DO NOTHING
    `

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, m := range movies {
			batch.Queue(query, m.ID, m.Title, m.ReleaseDate, m.PosterPath)
		}
		results := tx.SendBatch(ctx, batch)
		for range movies {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("insert movie: %w", err)
			}
		}
		return results.Close()
	})
}

// Count returns the number of cached movies.
func (r *MoviesRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

func orderColumn(by domain.SortBy) string {
	if by == domain.SortByReleaseDate {
		return "release_date"
	}
	return "title"
}

func orderDirection(dir domain.SortDirection) string {
	if dir == domain.Descending {
		return "DESC"
	}
	return "ASC"
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.ReleaseDate,
		&movie.PosterPath,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}
