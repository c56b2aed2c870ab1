package reviews

import (
	"errors"
	"time"

	"tambii/internal/media"
)

var (
	ErrUnauthenticated = errors.New("you must be signed in to review a spot")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// Review is one user's evaluation of one spot. At most one review
// exists per (user, spot); resubmission updates it in place.
type Review struct {
	ID        int64              `json:"id"`
	SpotID    int64              `json:"spot_id"`
	UserID    int64              `json:"user_id"`
	Author    string             `json:"author"`
	Rating    int                `json:"rating"` // 1-5
	Comment   string             `json:"comment"`
	Media     []media.Attachment `json:"media,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
