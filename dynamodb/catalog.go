package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"cinema/catalog"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/samber/lo"
)

// CatalogRepository stores movies and theatres in two tables keyed by the
// numeric "id" attribute. Theatre items embed their movie summaries.
type CatalogRepository struct {
	client        API
	moviesTable   string
	theatresTable string
}

type movieItem struct {
	ID   int    `dynamodbav:"id"`
	Name string `dynamodbav:"name"`
}

type theatreItem struct {
	ID     int         `dynamodbav:"id"`
	Name   string      `dynamodbav:"name"`
	Movies []movieItem `dynamodbav:"movies"`
}

func NewCatalogRepository(client API, moviesTable, theatresTable string) *CatalogRepository {
	return &CatalogRepository{
		client:        client,
		moviesTable:   moviesTable,
		theatresTable: theatresTable,
	}
}

func (r *CatalogRepository) AllMovies(ctx context.Context) ([]catalog.Movie, error) {
	var items []movieItem
	if err := r.scan(ctx, r.moviesTable, &items); err != nil {
		return nil, fmt.Errorf("dynamodb: scan movies: %w", err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return lo.Map(items, toMovie), nil
}

func (r *CatalogRepository) AllTheatresWithMovies(ctx context.Context) ([]catalog.Theatre, error) {
	var items []theatreItem
	if err := r.scan(ctx, r.theatresTable, &items); err != nil {
		return nil, fmt.Errorf("dynamodb: scan theatres: %w", err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return lo.Map(items, func(item theatreItem, _ int) catalog.Theatre {
		movies := lo.Map(item.Movies, toMovie)
		sort.Slice(movies, func(i, j int) bool { return movies[i].ID < movies[j].ID })
		return catalog.Theatre{ID: item.ID, Name: item.Name, Movies: movies}
	}), nil
}

// Seed replaces the content of both tables. Theatre movie names are taken
// from movies when the summary leaves them empty.
func (r *CatalogRepository) Seed(ctx context.Context, movies []catalog.Movie, theatres []catalog.Theatre) error {
	if err := r.clear(ctx, r.theatresTable); err != nil {
		return err
	}
	if err := r.clear(ctx, r.moviesTable); err != nil {
		return err
	}

	names := lo.SliceToMap(movies, func(m catalog.Movie) (int, string) { return m.ID, m.Name })

	for _, m := range movies {
		if err := r.put(ctx, r.moviesTable, movieItem{ID: m.ID, Name: m.Name}); err != nil {
			return err
		}
	}
	for _, t := range theatres {
		item := theatreItem{
			ID:   t.ID,
			Name: t.Name,
			Movies: lo.Map(t.Movies, func(m catalog.Movie, _ int) movieItem {
				if m.Name == "" {
					m.Name = names[m.ID]
				}
				return movieItem{ID: m.ID, Name: m.Name}
			}),
		}
		if err := r.put(ctx, r.theatresTable, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *CatalogRepository) scan(ctx context.Context, table string, out interface{}) error {
	if err := validateTable(table); err != nil {
		return err
	}

	var all []map[string]types.AttributeValue
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: &table,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		all = append(all, page.Items...)
	}

	return attributevalue.UnmarshalListOfMaps(all, out)
}

func (r *CatalogRepository) put(ctx context.Context, table string, item interface{}) error {
	if err := validateTable(table); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal %s item: %w", table, err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &table,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put %s item: %w", table, err)
	}
	return nil
}

func (r *CatalogRepository) clear(ctx context.Context, table string) error {
	var keys []struct {
		ID int `dynamodbav:"id"`
	}
	if err := r.scan(ctx, table, &keys); err != nil {
		return fmt.Errorf("dynamodb: scan %s: %w", table, err)
	}

	for _, k := range keys {
		key, err := attributevalue.MarshalMap(k)
		if err != nil {
			return err
		}
		_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: &table,
			Key:       key,
		})
		if err != nil {
			return fmt.Errorf("dynamodb: delete %s item: %w", table, err)
		}
	}
	return nil
}

func toMovie(item movieItem, _ int) catalog.Movie {
	return catalog.Movie{ID: item.ID, Name: item.Name}
}
