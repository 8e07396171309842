package sqlite

import (
	"context"
	"database/sql"

	"cinema/catalog"
)

// CatalogRepository implements catalog.Store on database/sql.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) AllMovies(ctx context.Context) ([]catalog.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM movies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []catalog.Movie{}
	for rows.Next() {
		var m catalog.Movie
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *CatalogRepository) AllTheatresWithMovies(ctx context.Context) ([]catalog.Theatre, error) {
	theatres, err := r.allTheatres(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[int]int, len(theatres))
	for i, t := range theatres {
		index[t.ID] = i
	}

	const q = `
SELECT tm.theatre_id, m.id, m.name
FROM theatre_movies tm
JOIN movies m ON m.id = tm.movie_id
ORDER BY tm.theatre_id, m.id`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			theatreID int
			m         catalog.Movie
		)
		if err := rows.Scan(&theatreID, &m.ID, &m.Name); err != nil {
			return nil, err
		}
		if i, ok := index[theatreID]; ok {
			theatres[i].Movies = append(theatres[i].Movies, m)
		}
	}
	return theatres, rows.Err()
}

func (r *CatalogRepository) allTheatres(ctx context.Context) ([]catalog.Theatre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM theatres ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	theatres := []catalog.Theatre{}
	for rows.Next() {
		t := catalog.Theatre{Movies: []catalog.Movie{}}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		theatres = append(theatres, t)
	}
	return theatres, rows.Err()
}

// Seed replaces the whole catalog in one transaction.
func (r *CatalogRepository) Seed(ctx context.Context, movies []catalog.Movie, theatres []catalog.Theatre) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		`DELETE FROM theatre_movies`,
		`DELETE FROM theatres`,
		`DELETE FROM movies`,
	} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	for _, m := range movies {
		if _, err = tx.ExecContext(ctx, `INSERT INTO movies (id, name) VALUES (?, ?)`, m.ID, m.Name); err != nil {
			return err
		}
	}

	for _, t := range theatres {
		if _, err = tx.ExecContext(ctx, `INSERT INTO theatres (id, name) VALUES (?, ?)`, t.ID, t.Name); err != nil {
			return err
		}
		for _, m := range t.Movies {
			if _, err = tx.ExecContext(ctx, `INSERT INTO theatre_movies (theatre_id, movie_id) VALUES (?, ?)`, t.ID, m.ID); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
