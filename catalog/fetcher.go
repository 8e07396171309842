package catalog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// SequentialFetcher reads movies, then theatres. The theatres read starts
// only after the movies read, latency included, has returned.
type SequentialFetcher struct {
	r Reader
}

func NewSequentialFetcher(r Reader) *SequentialFetcher {
	return &SequentialFetcher{r: r}
}

func (f *SequentialFetcher) Run(ctx context.Context) AggregateResponse {
	start := time.Now()

	movies := f.r.ListMovies(ctx)
	theatres := f.r.ListTheatresWithMovies(ctx)

	return Assemble(movies, theatres, time.Since(start))
}

// ConcurrentFetcher runs both reads on their own goroutine and waits for
// both. A failed read does not cancel the other one.
type ConcurrentFetcher struct {
	r Reader
}

func NewConcurrentFetcher(r Reader) *ConcurrentFetcher {
	return &ConcurrentFetcher{r: r}
}

func (f *ConcurrentFetcher) Run(ctx context.Context) AggregateResponse {
	var (
		g        errgroup.Group
		movies   FetchResult[[]Movie]
		theatres FetchResult[[]Theatre]
	)

	start := time.Now()

	g.Go(func() error {
		movies = f.r.ListMovies(ctx)
		return nil
	})
	g.Go(func() error {
		theatres = f.r.ListTheatresWithMovies(ctx)
		return nil
	})

	// Reads report failures in their results, never through the group.
	_ = g.Wait()

	return Assemble(movies, theatres, time.Since(start))
}
