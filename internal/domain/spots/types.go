package spots

import (
	"context"
	"errors"
	"time"
)

var ErrSpotNotFound = errors.New("spot not found")

// Spot represents a discoverable place in the database.
// AverageRating and ReviewCount are derived from the reviews table and
// written only by the review upsert transaction.
type Spot struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	Longitude     *float64  `json:"longitude,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	ImageURLs     []string  `json:"image_urls,omitempty"`
	Description   string    `json:"description"`
	Tags          []string  `json:"tags,omitempty"`
	Author        string    `json:"author"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Store interface {
	Create(ctx context.Context, spot *Spot) error
	List(ctx context.Context) ([]Spot, error)
	GetByID(ctx context.Context, spotID int64) (*Spot, error)
	AddPhotoURL(ctx context.Context, spotID int64, photoURL string) error
	RemovePhotoURL(ctx context.Context, spotID int64, photoURL string) error
	IsOwner(ctx context.Context, spotID, userID int64) (bool, error)
}
