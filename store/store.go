// Package store opens the catalog storage adapter selected by DB_DRIVER.
package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"strconv"

	"cinema/catalog"
	"cinema/dynamodb"
	"cinema/errs"
	"cinema/pkg/config"
	"cinema/postgres"
	"cinema/sqlite"

	migrate "github.com/rubenv/sql-migrate"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

type Repository interface {
	catalog.Store
	catalog.Seeder
}

// Store is an opened adapter. sqlDB is nil for DynamoDB.
type Store struct {
	Repository

	driver string
	sqlDB  *sql.DB
}

func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.DB.Driver {
	case DriverPostgres:
		db, err := postgres.NewConnection(PostgresOptions(cfg))
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &Store{Repository: postgres.NewCatalogRepository(db), driver: DriverPostgres, sqlDB: sqlDB}, nil

	case DriverSQLite:
		db, err := sqlite.NewConnection(sqlite.Options{Path: cfg.DB.Path})
		if err != nil {
			return nil, err
		}
		return &Store{Repository: sqlite.NewCatalogRepository(db), driver: DriverSQLite, sqlDB: db}, nil

	case DriverDynamoDB:
		client, err := dynamodb.NewClient(ctx, dynamodb.Options{
			Region:       cfg.DynamoDB.Region,
			Endpoint:     cfg.DynamoDB.Endpoint,
			AccessKey:    cfg.DynamoDB.AccessKey,
			SecretKey:    cfg.DynamoDB.SecretKey,
			SessionToken: cfg.DynamoDB.SessionToken,
		})
		if err != nil {
			return nil, err
		}
		repo := dynamodb.NewCatalogRepository(client, cfg.DynamoDB.MoviesTable, cfg.DynamoDB.TheatresTable)
		return &Store{Repository: repo, driver: DriverDynamoDB}, nil
	}

	return nil, errs.Errorf(errs.EINVALID, "unknown DB_DRIVER %q", cfg.DB.Driver)
}

func PostgresOptions(cfg *config.Config) postgres.Options {
	return postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	}
}

// MigrationsDir is where the SQL migrations for driver live, relative to root.
func MigrationsDir(root, driver string) string {
	return filepath.Join(root, "migrations", driver)
}

func (s *Store) Driver() string {
	return s.driver
}

// Migrate applies the SQL migrations in dir. DynamoDB tables are provisioned
// outside the service.
func (s *Store) Migrate(dir string) (int, error) {
	switch s.driver {
	case DriverPostgres:
		return migrate.Exec(s.sqlDB, "postgres", &migrate.FileMigrationSource{Dir: dir}, migrate.Up)
	case DriverSQLite:
		return sqlite.Migrate(s.sqlDB, dir)
	}
	return 0, errs.Errorf(errs.ENOTIMPLEMENTED, "%s has no migrations", s.driver)
}

func (s *Store) Close() error {
	if s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
