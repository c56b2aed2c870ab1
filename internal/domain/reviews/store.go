package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Upsert(ctx context.Context, review *Review) error
	ListBySpot(ctx context.Context, spotID int64) ([]Review, error)
	GetByUserAndSpot(ctx context.Context, userID, spotID int64) (*Review, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// Upsert writes the review and recomputes the owning spot's aggregate
// columns in one transaction. The unique constraint on
// (spot_id, user_id) plus the conflict clause keeps the
// one-review-per-user-per-spot invariant enforceable in one place, and
// a reader never observes a review without its aggregate reflected.
func (r *Repository) Upsert(ctx context.Context, review *Review) error {
	mediaJSON, err := json.Marshal(review.Media)
	if err != nil {
		return fmt.Errorf("marshal media attachments: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin review upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	const upsertQuery = `
        INSERT INTO reviews (spot_id, user_id, author, rating, comment, media)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (spot_id, user_id) DO UPDATE
        SET author = EXCLUDED.author,
            rating = EXCLUDED.rating,
            comment = EXCLUDED.comment,
            media = EXCLUDED.media,
            updated_at = now()
        RETURNING id, created_at, updated_at
    `

	err = tx.QueryRow(ctx, upsertQuery,
		review.SpotID,
		review.UserID,
		review.Author,
		review.Rating,
		review.Comment,
		mediaJSON,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}

	const recomputeQuery = `
        UPDATE spots
        SET average_rating = stats.avg_rating,
            review_count = stats.total
        FROM (
            SELECT COALESCE(AVG(rating), 0) AS avg_rating,
                   COUNT(id) AS total
            FROM reviews
            WHERE spot_id = $1
        ) AS stats
        WHERE spots.id = $1
    `

	if _, err := tx.Exec(ctx, recomputeQuery, review.SpotID); err != nil {
		return fmt.Errorf("recompute spot aggregates: %w", err)
	}

	return tx.Commit(ctx)
}

// ListBySpot returns a spot's reviews, newest first.
func (r *Repository) ListBySpot(ctx context.Context, spotID int64) ([]Review, error) {
	const query = `
        SELECT id, spot_id, user_id, author, rating, comment, media,
               created_at, updated_at
        FROM reviews
        WHERE spot_id = $1
        ORDER BY created_at DESC
    `

	rows, err := r.db.Query(ctx, query, spotID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *review)
	}
	return reviews, rows.Err()
}

// GetByUserAndSpot returns the user's review for a spot, or nil when
// the user has not reviewed it yet.
func (r *Repository) GetByUserAndSpot(ctx context.Context, userID, spotID int64) (*Review, error) {
	const query = `
        SELECT id, spot_id, user_id, author, rating, comment, media,
               created_at, updated_at
        FROM reviews
        WHERE user_id = $1 AND spot_id = $2
    `

	row := r.db.QueryRow(ctx, query, userID, spotID)
	review, err := scanReview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return review, nil
}

func scanReview(row pgx.Row) (*Review, error) {
	var review Review
	var mediaJSON []byte
	err := row.Scan(
		&review.ID,
		&review.SpotID,
		&review.UserID,
		&review.Author,
		&review.Rating,
		&review.Comment,
		&mediaJSON,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(mediaJSON) > 0 {
		if err := json.Unmarshal(mediaJSON, &review.Media); err != nil {
			return nil, fmt.Errorf("unmarshal media attachments: %w", err)
		}
	}
	return &review, nil
}
