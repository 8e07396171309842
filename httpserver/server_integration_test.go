package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"cinema/catalog"
	"cinema/httpserver"
	"cinema/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMoviesLatency   = 40 * time.Millisecond
	testTheatresLatency = 100 * time.Millisecond
)

type successBody struct {
	TimeTaken float64           `json:"time_taken"`
	Movies    []catalog.Movie   `json:"movies"`
	Theatres  []catalog.Theatre `json:"theatres"`
}

func MustCreateServer(t testing.TB) *httpserver.Server {
	t.Helper()

	db, err := sqlite.NewConnection(sqlite.Options{Path: sqlite.MemoryPath})
	require.NoError(t, err, "failed to open sqlite database")
	t.Cleanup(func() { _ = db.Close() })

	_, err = sqlite.Migrate(db, "../migrations/sqlite")
	require.NoError(t, err, "failed to run database migrations")

	repo := sqlite.NewCatalogRepository(db)
	inception := catalog.Movie{ID: 1, Name: "Inception"}
	err = repo.Seed(context.Background(),
		[]catalog.Movie{inception},
		[]catalog.Theatre{{ID: 1, Name: "Cineplex", Movies: []catalog.Movie{inception}}},
	)
	require.NoError(t, err, "failed to seed catalog")

	access := catalog.NewDataAccess(repo, catalog.WithLatency(catalog.Latency{
		Movies:   testMoviesLatency,
		Theatres: testTheatresLatency,
	}))
	return httpserver.Default(testConfig(), httpserver.WithCatalogService(catalog.NewUsecase(access)))
}

func getCatalog(t testing.TB, server *httpserver.Server, path string) successBody {
	t.Helper()
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body successBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCatalogIntegration(t *testing.T) {
	server := MustCreateServer(t)
	expectedMovies := []catalog.Movie{{ID: 1, Name: "Inception"}}
	expectedTheatres := []catalog.Theatre{{ID: 1, Name: "Cineplex", Movies: expectedMovies}}

	sequential := getCatalog(t, server, "/sync_api/")
	concurrent := getCatalog(t, server, "/async_api/")

	assert.Equal(t, expectedMovies, sequential.Movies)
	assert.Equal(t, expectedTheatres, sequential.Theatres)
	assert.Equal(t, sequential.Movies, concurrent.Movies)
	assert.Equal(t, sequential.Theatres, concurrent.Theatres)

	assert.GreaterOrEqual(t, sequential.TimeTaken, (testMoviesLatency + testTheatresLatency).Seconds())
	assert.GreaterOrEqual(t, concurrent.TimeTaken, testTheatresLatency.Seconds())
	assert.Less(t, concurrent.TimeTaken, sequential.TimeTaken)
}

func TestCatalogIntegration_SimultaneousRequests(t *testing.T) {
	server := MustCreateServer(t)

	var wg sync.WaitGroup
	recorders := make([]*httptest.ResponseRecorder, 8)
	for i := range recorders {
		recorders[i] = httptest.NewRecorder()
		wg.Add(1)
		go func(rec *httptest.ResponseRecorder) {
			defer wg.Done()
			server.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/async_api/", nil))
		}(recorders[i])
	}
	wg.Wait()

	for _, rec := range recorders {
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body successBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Movies, 1)
		require.Len(t, body.Theatres, 1)
		assert.Equal(t, "Cineplex", body.Theatres[0].Name)
	}
}
