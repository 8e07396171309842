package dynamodb

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"cinema/catalog"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient keeps items per table in insertion order and serves scans one
// item per page so pagination is exercised.
type fakeClient struct {
	mu      sync.Mutex
	tables  map[string][]map[string]types.AttributeValue
	scanErr error
	putErr  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{tables: map[string][]map[string]types.AttributeValue{}}
}

func (f *fakeClient) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.scanErr != nil {
		return nil, f.scanErr
	}

	items := f.tables[*in.TableName]
	start := 0
	if in.ExclusiveStartKey != nil {
		n, ok := in.ExclusiveStartKey["offset"].(*types.AttributeValueMemberN)
		if !ok {
			return nil, errors.New("bad start key")
		}
		start, _ = strconv.Atoi(n.Value)
	}
	if start >= len(items) {
		return &dynamodb.ScanOutput{}, nil
	}

	out := &dynamodb.ScanOutput{Items: items[start : start+1]}
	if start+1 < len(items) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"offset": &types.AttributeValueMemberN{Value: strconv.Itoa(start + 1)},
		}
	}
	return out, nil
}

func (f *fakeClient) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.putErr != nil {
		return nil, f.putErr
	}
	f.tables[*in.TableName] = append(f.tables[*in.TableName], in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := in.Key["id"].(*types.AttributeValueMemberN).Value
	items := f.tables[*in.TableName]
	for i, item := range items {
		if item["id"].(*types.AttributeValueMemberN).Value == id {
			f.tables[*in.TableName] = append(items[:i:i], items[i+1:]...)
			break
		}
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeClient) putRaw(t *testing.T, table string, item interface{}) {
	t.Helper()
	av, err := attributevalue.MarshalMap(item)
	require.NoError(t, err)
	f.tables[table] = append(f.tables[table], av)
}

func TestCatalogRepository_AllMovies(t *testing.T) {
	client := newFakeClient()
	client.putRaw(t, "movies", movieItem{ID: 3, Name: "Arrival"})
	client.putRaw(t, "movies", movieItem{ID: 1, Name: "Inception"})
	client.putRaw(t, "movies", movieItem{ID: 2, Name: "Interstellar"})
	repo := NewCatalogRepository(client, "movies", "theatres")

	movies, err := repo.AllMovies(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []catalog.Movie{
		{ID: 1, Name: "Inception"},
		{ID: 2, Name: "Interstellar"},
		{ID: 3, Name: "Arrival"},
	}, movies)
}

func TestCatalogRepository_AllMovies_Empty(t *testing.T) {
	repo := NewCatalogRepository(newFakeClient(), "movies", "theatres")

	movies, err := repo.AllMovies(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestCatalogRepository_AllTheatresWithMovies(t *testing.T) {
	client := newFakeClient()
	client.putRaw(t, "theatres", theatreItem{ID: 2, Name: "Odeon"})
	client.putRaw(t, "theatres", theatreItem{ID: 1, Name: "Cineplex", Movies: []movieItem{
		{ID: 2, Name: "Interstellar"},
		{ID: 1, Name: "Inception"},
	}})
	repo := NewCatalogRepository(client, "movies", "theatres")

	theatres, err := repo.AllTheatresWithMovies(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []catalog.Theatre{
		{ID: 1, Name: "Cineplex", Movies: []catalog.Movie{{ID: 1, Name: "Inception"}, {ID: 2, Name: "Interstellar"}}},
		{ID: 2, Name: "Odeon", Movies: []catalog.Movie{}},
	}, theatres)
}

func TestCatalogRepository_ScanError(t *testing.T) {
	client := newFakeClient()
	client.scanErr = errors.New("ResourceNotFoundException: table not found")
	repo := NewCatalogRepository(client, "movies", "theatres")

	_, err := repo.AllMovies(context.Background())
	assert.ErrorIs(t, err, client.scanErr)

	_, err = repo.AllTheatresWithMovies(context.Background())
	assert.ErrorContains(t, err, "dynamodb: scan theatres")
}

func TestCatalogRepository_MissingTable(t *testing.T) {
	repo := NewCatalogRepository(newFakeClient(), "", "theatres")

	_, err := repo.AllMovies(context.Background())

	assert.ErrorContains(t, err, "table name is required")
}

func TestCatalogRepository_Seed(t *testing.T) {
	client := newFakeClient()
	client.putRaw(t, "movies", movieItem{ID: 99, Name: "Stale"})
	repo := NewCatalogRepository(client, "movies", "theatres")

	err := repo.Seed(context.Background(),
		[]catalog.Movie{{ID: 1, Name: "Inception"}, {ID: 2, Name: "Interstellar"}},
		[]catalog.Theatre{{ID: 1, Name: "Cineplex", Movies: []catalog.Movie{{ID: 2}}}},
	)
	require.NoError(t, err)

	movies, err := repo.AllMovies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.Movie{{ID: 1, Name: "Inception"}, {ID: 2, Name: "Interstellar"}}, movies)

	theatres, err := repo.AllTheatresWithMovies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.Theatre{
		{ID: 1, Name: "Cineplex", Movies: []catalog.Movie{{ID: 2, Name: "Interstellar"}}},
	}, theatres)
}

func TestCatalogRepository_SeedPutError(t *testing.T) {
	client := newFakeClient()
	client.putErr = errors.New("ProvisionedThroughputExceededException")
	repo := NewCatalogRepository(client, "movies", "theatres")

	err := repo.Seed(context.Background(), []catalog.Movie{{ID: 1, Name: "Inception"}}, nil)

	assert.ErrorIs(t, err, client.putErr)
}

func TestCatalogRepository_WithDataAccess(t *testing.T) {
	client := newFakeClient()
	client.putRaw(t, "movies", movieItem{ID: 1, Name: "Inception"})
	client.putRaw(t, "theatres", theatreItem{ID: 1, Name: "Cineplex", Movies: []movieItem{{ID: 1, Name: "Inception"}}})

	access := catalog.NewDataAccess(
		NewCatalogRepository(client, "movies", "theatres"),
		catalog.WithLatency(catalog.Latency{}),
	)
	resp := catalog.NewConcurrentFetcher(access).Run(context.Background())

	require.False(t, resp.Failed())
	assert.Len(t, resp.Movies, 1)
	assert.Equal(t, "Inception", resp.Theatres[0].Movies[0].Name)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(context.Background(), Options{})
	assert.EqualError(t, err, "dynamodb: region is required")

	_, err = NewClient(context.Background(), Options{Region: "eu-west-1", AccessKey: "key"})
	assert.EqualError(t, err, "dynamodb: access key and secret key must be set together")

	client, err := NewClient(context.Background(), Options{
		Region:    "eu-west-1",
		Endpoint:  "http://localhost:8000",
		AccessKey: "local",
		SecretKey: "local",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}
