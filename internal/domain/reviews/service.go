package reviews

import (
	"context"
	"fmt"

	"tambii/internal/domain/spots"
	"tambii/internal/domain/users"
	"tambii/internal/media"
)

// SpotGetter is the slice of the spots store the workflow needs.
type SpotGetter interface {
	GetByID(ctx context.Context, spotID int64) (*spots.Spot, error)
}

// MediaResolver turns raw files into hosted attachments before the
// review is persisted.
type MediaResolver interface {
	Process(ctx context.Context, userID int64, tier string, files []media.File) ([]media.Attachment, error)
}

type SubmitInput struct {
	Rating  int
	Comment string
	Files   []media.File
}

// SubmitResult carries the refreshed spot and review list back so the
// UI can re-render without a second round trip. UploadedMedia may be
// smaller than RequestedMedia when individual uploads were dropped.
type SubmitResult struct {
	Spot           *spots.Spot `json:"spot"`
	Reviews        []Review    `json:"reviews"`
	Review         *Review     `json:"review"`
	UploadedMedia  int         `json:"uploaded_media"`
	RequestedMedia int         `json:"requested_media"`
}

// Service owns the submit workflow: validate, resolve media, upsert
// keyed by (user, spot), return refreshed data.
type Service struct {
	store Store
	spots SpotGetter
	media MediaResolver
}

func NewService(store Store, spotGetter SpotGetter, resolver MediaResolver) *Service {
	return &Service{
		store: store,
		spots: spotGetter,
		media: resolver,
	}
}

// Submit validates the caller's input, resolves media through the
// intake pipeline, and applies the upsert-and-recompute transaction.
// Any failure leaves the spot's aggregates at their last committed
// value.
func (s *Service) Submit(ctx context.Context, user *users.User, spotID int64, input SubmitInput) (*SubmitResult, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.spots.GetByID(ctx, spotID); err != nil {
		return nil, err
	}

	attachments, err := s.media.Process(ctx, user.ID, user.Tier, input.Files)
	if err != nil {
		return nil, err
	}

	review := &Review{
		SpotID:  spotID,
		UserID:  user.ID,
		Author:  user.Username,
		Rating:  input.Rating,
		Comment: input.Comment,
		Media:   attachments,
	}

	if err := s.store.Upsert(ctx, review); err != nil {
		return nil, fmt.Errorf("persist review: %w", err)
	}

	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Spot:           spot,
		Reviews:        list,
		Review:         review,
		UploadedMedia:  len(attachments),
		RequestedMedia: len(input.Files),
	}, nil
}

// ListForSpot returns a spot's reviews, newest first.
func (s *Service) ListForSpot(ctx context.Context, spotID int64) ([]Review, error) {
	return s.store.ListBySpot(ctx, spotID)
}

// UserReview returns the caller's review for a spot, nil when absent.
// The client uses it to decide between the submit and already-reviewed
// affordances.
func (s *Service) UserReview(ctx context.Context, userID, spotID int64) (*Review, error) {
	return s.store.GetByUserAndSpot(ctx, userID, spotID)
}
