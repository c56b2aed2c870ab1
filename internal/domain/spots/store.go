package spots

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// Create inserts a new spot. Aggregate columns start at their zero
// values and are never written by clients.
func (r *Repository) Create(ctx context.Context, spot *Spot) error {
	const query = `
        INSERT INTO spots (
            owner_id, name, location, longitude, latitude,
            image_urls, description, tags, author
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, average_rating, review_count, created_at, updated_at
    `

	imageURLs := spot.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}
	tags := spot.Tags
	if tags == nil {
		tags = []string{}
	}

	row := r.db.QueryRow(ctx, query,
		spot.OwnerID,
		spot.Name,
		spot.Location,
		spot.Longitude,
		spot.Latitude,
		imageURLs,
		spot.Description,
		tags,
		spot.Author,
	)
	if err := row.Scan(&spot.ID, &spot.AverageRating, &spot.ReviewCount, &spot.CreatedAt, &spot.UpdatedAt); err != nil {
		return fmt.Errorf("insert spot: %w", err)
	}
	return nil
}

// List returns all spots, newest first.
func (r *Repository) List(ctx context.Context) ([]Spot, error) {
	const query = `
        SELECT id, owner_id, name, location, longitude, latitude,
               image_urls, description, tags, author,
               average_rating, review_count, created_at, updated_at
        FROM spots
        ORDER BY created_at DESC
    `

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list spots: %w", err)
	}
	defer rows.Close()

	var spots []Spot
	for rows.Next() {
		var s Spot
		if err := rows.Scan(
			&s.ID, &s.OwnerID, &s.Name, &s.Location, &s.Longitude, &s.Latitude,
			&s.ImageURLs, &s.Description, &s.Tags, &s.Author,
			&s.AverageRating, &s.ReviewCount, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan spot row: %w", err)
		}
		spots = append(spots, s)
	}
	return spots, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, spotID int64) (*Spot, error) {
	const query = `
        SELECT id, owner_id, name, location, longitude, latitude,
               image_urls, description, tags, author,
               average_rating, review_count, created_at, updated_at
        FROM spots
        WHERE id = $1
    `

	var s Spot
	err := r.db.QueryRow(ctx, query, spotID).Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Location, &s.Longitude, &s.Latitude,
		&s.ImageURLs, &s.Description, &s.Tags, &s.Author,
		&s.AverageRating, &s.ReviewCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// AddPhotoURL appends a photo URL to a spot's image_urls array
func (r *Repository) AddPhotoURL(ctx context.Context, spotID int64, photoURL string) error {
	const query = `
        UPDATE spots
        SET image_urls = array_append(image_urls, $1), updated_at = now()
        WHERE id = $2
    `

	result, err := r.db.Exec(ctx, query, photoURL, spotID)
	if err != nil {
		return fmt.Errorf("add photo url: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSpotNotFound
	}
	return nil
}

// RemovePhotoURL removes a specific photo URL from a spot's image_urls array
func (r *Repository) RemovePhotoURL(ctx context.Context, spotID int64, photoURL string) error {
	const query = `
        UPDATE spots
        SET image_urls = array_remove(image_urls, $1), updated_at = now()
        WHERE id = $2
    `

	result, err := r.db.Exec(ctx, query, photoURL, spotID)
	if err != nil {
		return fmt.Errorf("remove photo url: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSpotNotFound
	}
	return nil
}

func (r *Repository) IsOwner(ctx context.Context, spotID, userID int64) (bool, error) {
	var ownerID int64
	err := r.db.QueryRow(ctx, `SELECT owner_id FROM spots WHERE id = $1`, spotID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrSpotNotFound
		}
		return false, err
	}
	return ownerID == userID, nil
}
