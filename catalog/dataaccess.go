package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var errUnknownFailure = errors.New("catalog: read failed")

// Latency is the simulated I/O cost of each read.
type Latency struct {
	Movies   time.Duration
	Theatres time.Duration
}

// DefaultLatency is 2 units for movies and 5 for theatres, one unit being a second.
var DefaultLatency = Latency{
	Movies:   2 * time.Second,
	Theatres: 5 * time.Second,
}

type DataAccessOption func(d *DataAccess)

func WithLatency(l Latency) DataAccessOption {
	return func(d *DataAccess) {
		d.latency = l
	}
}

func WithLogger(l *zap.SugaredLogger) DataAccessOption {
	return func(d *DataAccess) {
		if l != nil {
			d.logger = l
		}
	}
}

// DataAccess wraps a Store with the simulated latency of each read and turns
// every store failure, panics included, into a failed FetchResult.
type DataAccess struct {
	store   Store
	latency Latency
	logger  *zap.SugaredLogger
}

func NewDataAccess(store Store, opts ...DataAccessOption) *DataAccess {
	d := &DataAccess{
		store:   store,
		latency: DefaultLatency,
		logger:  zap.NewNop().Sugar(),
	}
	for _, fn := range opts {
		fn(d)
	}
	return d
}

func (d *DataAccess) ListMovies(ctx context.Context) (res FetchResult[[]Movie]) {
	const op = "list movies"
	defer recoverInto(op, &res)

	d.logger.Infow("getting movies", "latency", d.latency.Movies)
	time.Sleep(d.latency.Movies)

	movies, err := d.store.AllMovies(context.WithoutCancel(ctx))
	if err != nil {
		d.logger.Errorw("cannot fetch movies", "error", err)
		return Failed[[]Movie](op, err)
	}

	d.logger.Infow("all movies fetched", "count", len(movies))
	return Succeeded(movies)
}

func (d *DataAccess) ListTheatresWithMovies(ctx context.Context) (res FetchResult[[]Theatre]) {
	const op = "list theatres"
	defer recoverInto(op, &res)

	d.logger.Infow("getting theatres", "latency", d.latency.Theatres)
	time.Sleep(d.latency.Theatres)

	theatres, err := d.store.AllTheatresWithMovies(context.WithoutCancel(ctx))
	if err != nil {
		d.logger.Errorw("cannot fetch theatres", "error", err)
		return Failed[[]Theatre](op, err)
	}

	d.logger.Infow("all theatres fetched", "count", len(theatres))
	return Succeeded(theatres)
}

func recoverInto[T any](op string, res *FetchResult[T]) {
	if r := recover(); r != nil {
		*res = Failed[T](op, fmt.Errorf("%v", r))
	}
}
