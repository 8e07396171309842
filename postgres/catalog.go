package postgres

import (
	"context"

	"cinema/catalog"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// MovieModel represents the database model for movies
type MovieModel struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null"`
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

// TheatreModel represents the database model for theatres. The join table
// only references movies; a theatre owns neither side.
type TheatreModel struct {
	ID     int          `gorm:"primaryKey"`
	Name   string       `gorm:"size:100;not null"`
	Movies []MovieModel `gorm:"many2many:theatre_movies;joinForeignKey:TheatreID;joinReferences:MovieID"`
}

func (TheatreModel) TableName() string {
	return "theatres"
}

// CatalogRepository implements catalog.Store
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) AllMovies(ctx context.Context) ([]catalog.Movie, error) {
	var models []MovieModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return lo.Map(models, toMovie), nil
}

func (r *CatalogRepository) AllTheatresWithMovies(ctx context.Context) ([]catalog.Theatre, error) {
	var models []TheatreModel
	err := r.db.WithContext(ctx).
		Preload("Movies", func(db *gorm.DB) *gorm.DB {
			return db.Order("movies.id")
		}).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return lo.Map(models, toTheatre), nil
}

// Seed replaces the whole catalog. Theatre movies must reference movies
// present in the same call.
func (r *CatalogRepository) Seed(ctx context.Context, movies []catalog.Movie, theatres []catalog.Theatre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("TRUNCATE TABLE theatre_movies, theatres, movies RESTART IDENTITY CASCADE").Error; err != nil {
			return err
		}

		if len(movies) > 0 {
			models := lo.Map(movies, func(m catalog.Movie, _ int) MovieModel {
				return MovieModel{ID: m.ID, Name: m.Name}
			})
			if err := tx.Create(&models).Error; err != nil {
				return err
			}
		}

		for _, t := range theatres {
			model := TheatreModel{
				ID:   t.ID,
				Name: t.Name,
				Movies: lo.Map(t.Movies, func(m catalog.Movie, _ int) MovieModel {
					return MovieModel{ID: m.ID, Name: m.Name}
				}),
			}
			if err := tx.Omit("Movies.*").Create(&model).Error; err != nil {
				return err
			}
		}

		return resetSequences(tx)
	})
}

// resetSequences moves the serial counters past the explicit seed ids.
func resetSequences(tx *gorm.DB) error {
	for _, table := range []string{"movies", "theatres"} {
		stmt := "SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM " + table
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func toMovie(m MovieModel, _ int) catalog.Movie {
	return catalog.Movie{ID: m.ID, Name: m.Name}
}

func toTheatre(t TheatreModel, _ int) catalog.Theatre {
	return catalog.Theatre{
		ID:     t.ID,
		Name:   t.Name,
		Movies: lo.Map(t.Movies, toMovie),
	}
}
