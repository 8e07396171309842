package catalog

import (
	"encoding/json"
	"time"
)

// DataAccessError reports a failed store read. Its message is the
// underlying store error, unchanged.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	if e.Err == nil {
		return errUnknownFailure.Error()
	}
	return e.Err.Error()
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// FetchResult is the outcome of one store read. Data is set iff Success,
// Err iff !Success.
type FetchResult[T any] struct {
	Success bool
	Data    T
	Err     *DataAccessError
}

func Succeeded[T any](data T) FetchResult[T] {
	return FetchResult[T]{Success: true, Data: data}
}

func Failed[T any](op string, err error) FetchResult[T] {
	return FetchResult[T]{Err: &DataAccessError{Op: op, Err: err}}
}

func (r FetchResult[T]) ErrorMessage() string {
	if r.Success || r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// AggregateResponse is either the success variant (Err == nil) carrying the
// elapsed time and both datasets, or the error variant carrying Err only.
type AggregateResponse struct {
	TimeTaken time.Duration
	Movies    []Movie
	Theatres  []Theatre
	Err       *DataAccessError
}

func (r AggregateResponse) Failed() bool {
	return r.Err != nil
}

type successBody struct {
	TimeTaken float64   `json:"time_taken"`
	Movies    []Movie   `json:"movies"`
	Theatres  []Theatre `json:"theatres"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (r AggregateResponse) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(errorBody{Error: r.Err.Error()})
	}
	return json.Marshal(successBody{
		TimeTaken: r.TimeTaken.Seconds(),
		Movies:    r.Movies,
		Theatres:  r.Theatres,
	})
}

// Assemble combines two read results into one response. The first failure,
// movies before theatres, wins; partial success is never reported.
func Assemble(movies FetchResult[[]Movie], theatres FetchResult[[]Theatre], elapsed time.Duration) AggregateResponse {
	if !movies.Success {
		return AggregateResponse{Err: failure(movies.Err, "list movies")}
	}
	if !theatres.Success {
		return AggregateResponse{Err: failure(theatres.Err, "list theatres")}
	}

	return AggregateResponse{
		TimeTaken: elapsed,
		Movies:    nonNil(movies.Data),
		Theatres:  theatresNonNil(theatres.Data),
	}
}

func failure(err *DataAccessError, op string) *DataAccessError {
	if err != nil {
		return err
	}
	return &DataAccessError{Op: op, Err: errUnknownFailure}
}

func nonNil(movies []Movie) []Movie {
	if movies == nil {
		return []Movie{}
	}
	return movies
}

func theatresNonNil(theatres []Theatre) []Theatre {
	out := make([]Theatre, len(theatres))
	for i, t := range theatres {
		t.Movies = nonNil(t.Movies)
		out[i] = t
	}
	return out
}
