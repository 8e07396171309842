package httpserver

import (
	"context"
	"net/http"
	"time"

	"cinema/catalog"
	"cinema/errs"
	"cinema/pkg/metrics"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterCatalogRoutes() {
	for _, path := range []string{"/sync_api/", "/sync_api"} {
		s.Router.GET(path, s.handleSyncAPI)
	}
	for _, path := range []string{"/async_api/", "/async_api"} {
		s.Router.GET(path, s.handleAsyncAPI)
	}
}

// catalogResponse documents the success body of both catalog routes.
//
//nolint:unused
type catalogResponse struct {
	TimeTaken float64           `json:"time_taken"`
	Movies    []catalog.Movie   `json:"movies"`
	Theatres  []catalog.Theatre `json:"theatres"`
}

// handleSyncAPI godoc
// @Summary Sequential catalog fetch
// @Description Read movies, then theatres
// @Tags catalog
// @Produce json
// @Success 200 {object} catalogResponse
// @Failure 500 {object} map[string]string
// @Router /sync_api/ [get]
func (s *Server) handleSyncAPI(c echo.Context) error {
	return s.fetch(c, metrics.StrategySequential, func(ctx context.Context) catalog.AggregateResponse {
		return s.CatalogService.FetchSequential(ctx)
	})
}

// handleAsyncAPI godoc
// @Summary Concurrent catalog fetch
// @Description Read movies and theatres at the same time
// @Tags catalog
// @Produce json
// @Success 200 {object} catalogResponse
// @Failure 500 {object} map[string]string
// @Router /async_api/ [get]
func (s *Server) handleAsyncAPI(c echo.Context) error {
	return s.fetch(c, metrics.StrategyConcurrent, func(ctx context.Context) catalog.AggregateResponse {
		return s.CatalogService.FetchConcurrent(ctx)
	})
}

func (s *Server) fetch(c echo.Context, strategy string, run func(context.Context) catalog.AggregateResponse) error {
	if s.CatalogService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "catalog service not configured")
	}

	start := time.Now()
	resp := run(c.Request().Context())

	elapsed := resp.TimeTaken
	if resp.Failed() {
		elapsed = time.Since(start)
	}
	s.Metrics.ObserveFetch(strategy, elapsed, resp.Failed())

	if resp.Failed() {
		return errs.Errorf(errs.EUNAVAILABLE, "%s", resp.Err.Error())
	}

	s.Logger.Infow("catalog fetched",
		"strategy", strategy,
		"request_id", requestID(c),
		"time_taken", resp.TimeTaken.Seconds(),
	)
	return writePretty(c, http.StatusOK, resp)
}
