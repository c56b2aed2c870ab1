package bucketlist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tambii/internal/domain/spots"
)

// Entry records one spot saved to a user's bucket list.
type Entry struct {
	UserID    int64     `json:"user_id"`
	SpotID    int64     `json:"spot_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Add(ctx context.Context, userID, spotID int64) error
	Remove(ctx context.Context, userID, spotID int64) error
	ListByUser(ctx context.Context, userID int64) ([]spots.Spot, error)
	Contains(ctx context.Context, userID, spotID int64) (bool, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// Add saves a spot to the user's bucket list. Saving the same spot
// twice is a no-op.
func (r *Repository) Add(ctx context.Context, userID, spotID int64) error {
	query := `
        INSERT INTO bucket_list (user_id, spot_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, userID, spotID)
	if err != nil {
		return fmt.Errorf("failed to add to bucket list: %w", err)
	}
	return nil
}

func (r *Repository) Remove(ctx context.Context, userID, spotID int64) error {
	query := `
        DELETE FROM bucket_list
        WHERE user_id = $1 AND spot_id = $2
    `
	_, err := r.db.Exec(ctx, query, userID, spotID)
	if err != nil {
		return fmt.Errorf("failed to remove from bucket list: %w", err)
	}
	return nil
}

// ListByUser returns all saved spots, most recently saved first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]spots.Spot, error) {
	query := `
        SELECT s.id, s.owner_id, s.name, s.location, s.longitude, s.latitude,
               s.image_urls, s.description, s.tags, s.author,
               s.average_rating, s.review_count, s.created_at, s.updated_at
        FROM spots s
        JOIN bucket_list b ON s.id = b.spot_id
        WHERE b.user_id = $1
        ORDER BY b.created_at DESC
    `

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket list: %w", err)
	}
	defer rows.Close()

	var saved []spots.Spot
	for rows.Next() {
		var s spots.Spot
		if err := rows.Scan(
			&s.ID, &s.OwnerID, &s.Name, &s.Location, &s.Longitude, &s.Latitude,
			&s.ImageURLs, &s.Description, &s.Tags, &s.Author,
			&s.AverageRating, &s.ReviewCount, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan spot row: %w", err)
		}
		saved = append(saved, s)
	}
	return saved, rows.Err()
}

func (r *Repository) Contains(ctx context.Context, userID, spotID int64) (bool, error) {
	query := `
        SELECT EXISTS (
          SELECT 1 FROM bucket_list
          WHERE user_id = $1 AND spot_id = $2
        )
    `
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, spotID).Scan(&exists)
	return exists, err
}
