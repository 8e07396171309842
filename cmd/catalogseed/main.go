package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cinema/catalog"
	"cinema/pkg/config"
	"cinema/pkg/logger"
	"cinema/store"

	"github.com/alecthomas/kong"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMovieLensURL = "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"

// CLI seeds the configured store. Without --csv or --download it writes the
// built-in sample catalog.
type CLI struct {
	CSV      string `kong:"name='csv',type='existingfile',xor='source',help='Path to a MovieLens movies.csv to import'"`
	Download bool   `kong:"xor='source',help='Download the MovieLens archive and import its movies.csv'"`
	URL      string `kong:"name='url',default='${movielens_url}',help='MovieLens zip URL'"`
	Limit    int    `kong:"default='0',help='Limit number of movies to import (0 = all)'"`
	Theatres int    `kong:"default='3',help='Number of theatres the imported movies are spread across'"`
}

func (c *CLI) Validate() error {
	if c.Limit < 0 {
		return errors.New("--limit must not be negative")
	}
	if c.Theatres < 1 {
		return errors.New("--theatres must be at least 1")
	}
	return nil
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("catalogseed"),
		kong.Description("Replace the movies and theatres of the configured store"),
		kong.UsageOnError(),
		kong.Vars{"movielens_url": defaultMovieLensURL},
	)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := cli.run(context.Background(), cfg, log); err != nil {
		log.Fatalw("seed failed", "error", err)
	}
}

func (c *CLI) run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	movies, theatres, err := c.dataset(log)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.DB.Driver, err)
	}
	defer func() { _ = st.Close() }()

	if err := st.Seed(ctx, movies, theatres); err != nil {
		return err
	}

	log.Infow("seed completed",
		"driver", st.Driver(),
		"movies", len(movies),
		"theatres", len(theatres),
	)
	return nil
}

func (c *CLI) dataset(log *zap.SugaredLogger) ([]catalog.Movie, []catalog.Theatre, error) {
	csvPath := c.CSV
	if c.Download {
		path, cleanup, err := downloadAndExtract(c.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("download dataset: %w", err)
		}
		defer cleanup()
		csvPath = path
		log.Infow("dataset downloaded", "url", c.URL)
	}

	if csvPath == "" {
		movies, theatres := sampleCatalog()
		return movies, theatres, nil
	}

	movies, err := readMovies(csvPath, c.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", csvPath, err)
	}
	return movies, spreadAcrossTheatres(movies, c.Theatres), nil
}
