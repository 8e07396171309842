package catalog

import "context"

// Movie is a film listed in the catalog. Theatres embed the same {id, name}
// shape as their movie summaries.
type Movie struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Theatre lists the movies it shows, ordered by movie id.
type Theatre struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Movies []Movie `json:"movies"`
}

// Store is the read side of a catalog storage adapter.
type Store interface {
	AllMovies(ctx context.Context) ([]Movie, error)
	AllTheatresWithMovies(ctx context.Context) ([]Theatre, error)
}

// Reader performs the two catalog reads and never fails past its boundary:
// failures are reported inside the returned FetchResult.
type Reader interface {
	ListMovies(ctx context.Context) FetchResult[[]Movie]
	ListTheatresWithMovies(ctx context.Context) FetchResult[[]Theatre]
}

// Seeder replaces the whole catalog held by a storage adapter.
type Seeder interface {
	Seed(ctx context.Context, movies []Movie, theatres []Theatre) error
}
