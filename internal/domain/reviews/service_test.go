package reviews

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"tambii/internal/domain/spots"
	"tambii/internal/domain/users"
	"tambii/internal/media"
)

// memStore mimics the Postgres repository: one review per (user, spot)
// and aggregates recomputed atomically with every upsert.
type memStore struct {
	seq     int64
	reviews map[[2]int64]*Review // key: {userID, spotID}
	spots   map[int64]*spots.Spot
	failing bool
}

func newMemStore(spotList ...*spots.Spot) *memStore {
	m := &memStore{
		reviews: make(map[[2]int64]*Review),
		spots:   make(map[int64]*spots.Spot),
	}
	for _, s := range spotList {
		m.spots[s.ID] = s
	}
	return m
}

func (m *memStore) Upsert(_ context.Context, review *Review) error {
	if m.failing {
		return errors.New("database unavailable")
	}

	key := [2]int64{review.UserID, review.SpotID}
	now := time.Now()
	if existing, ok := m.reviews[key]; ok {
		review.ID = existing.ID
		review.CreatedAt = existing.CreatedAt
		review.UpdatedAt = now.Add(time.Millisecond) // strictly after creation
	} else {
		m.seq++
		review.ID = m.seq
		review.CreatedAt = now
		review.UpdatedAt = now
	}
	cp := *review
	m.reviews[key] = &cp

	m.recompute(review.SpotID)
	return nil
}

func (m *memStore) recompute(spotID int64) {
	spot := m.spots[spotID]
	total := 0
	sum := 0
	for _, r := range m.reviews {
		if r.SpotID == spotID {
			total++
			sum += r.Rating
		}
	}
	spot.ReviewCount = total
	if total == 0 {
		spot.AverageRating = 0
	} else {
		spot.AverageRating = float64(sum) / float64(total)
	}
}

func (m *memStore) ListBySpot(_ context.Context, spotID int64) ([]Review, error) {
	var list []Review
	for _, r := range m.reviews {
		if r.SpotID == spotID {
			list = append(list, *r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (m *memStore) GetByUserAndSpot(_ context.Context, userID, spotID int64) (*Review, error) {
	if r, ok := m.reviews[[2]int64{userID, spotID}]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) GetByID(_ context.Context, spotID int64) (*spots.Spot, error) {
	if s, ok := m.spots[spotID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, spots.ErrSpotNotFound
}

type memResolver struct {
	attachments []media.Attachment
	err         error
	calls       int
}

func (m *memResolver) Process(_ context.Context, _ int64, _ string, files []media.File) ([]media.Attachment, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(files) == 0 {
		return nil, nil
	}
	return m.attachments, nil
}

func testUser(id int64, name string) *users.User {
	return &users.User{ID: id, Username: name, Tier: users.TierStandard}
}

func newTestService(store *memStore, resolver *memResolver) *Service {
	return NewService(store, store, resolver)
}

func TestSubmitFirstReviewSetsAggregates(t *testing.T) {
	store := newMemStore(&spots.Spot{ID: 1, Name: "Cloud 9"})
	svc := newTestService(store, &memResolver{})

	res, err := svc.Submit(context.Background(), testUser(1, "u1"), 1, SubmitInput{Rating: 5, Comment: "Great"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if res.Spot.AverageRating != 5.0 {
		t.Errorf("average_rating = %v, want 5.0", res.Spot.AverageRating)
	}
	if res.Spot.ReviewCount != 1 {
		t.Errorf("review_count = %d, want 1", res.Spot.ReviewCount)
	}
	if len(res.Reviews) != 1 || res.Reviews[0].Comment != "Great" {
		t.Errorf("unexpected review list: %+v", res.Reviews)
	}
}

func TestSubmitSecondUserAveragesRatings(t *testing.T) {
	store := newMemStore(&spots.Spot{ID: 1})
	svc := newTestService(store, &memResolver{})

	ctx := context.Background()
	if _, err := svc.Submit(ctx, testUser(1, "u1"), 1, SubmitInput{Rating: 5}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	res, err := svc.Submit(ctx, testUser(2, "u2"), 1, SubmitInput{Rating: 3})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if res.Spot.AverageRating != 4.0 {
		t.Errorf("average_rating = %v, want 4.0", res.Spot.AverageRating)
	}
	if res.Spot.ReviewCount != 2 {
		t.Errorf("review_count = %d, want 2", res.Spot.ReviewCount)
	}
}

func TestResubmitUpdatesInPlace(t *testing.T) {
	store := newMemStore(&spots.Spot{ID: 1})
	svc := newTestService(store, &memResolver{})

	ctx := context.Background()
	if _, err := svc.Submit(ctx, testUser(1, "u1"), 1, SubmitInput{Rating: 5}); err != nil {
		t.Fatalf("u1 submit: %v", err)
	}
	if _, err := svc.Submit(ctx, testUser(2, "u2"), 1, SubmitInput{Rating: 3}); err != nil {
		t.Fatalf("u2 submit: %v", err)
	}

	// u1 changes their mind: (1+3)/2, count stays 2
	res, err := svc.Submit(ctx, testUser(1, "u1"), 1, SubmitInput{Rating: 1})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	if res.Spot.ReviewCount != 2 {
		t.Errorf("review_count = %d, want 2 after resubmit", res.Spot.ReviewCount)
	}
	if res.Spot.AverageRating != 2.0 {
		t.Errorf("average_rating = %v, want 2.0", res.Spot.AverageRating)
	}

	mine, err := svc.UserReview(ctx, 1, 1)
	if err != nil {
		t.Fatalf("UserReview: %v", err)
	}
	if mine == nil || mine.Rating != 1 {
		t.Fatalf("expected updated review with rating 1, got %+v", mine)
	}
	if !mine.UpdatedAt.After(mine.CreatedAt) {
		t.Error("resubmission should bump updated_at past created_at")
	}
}

func TestResubmitIdenticalContentKeepsOneReview(t *testing.T) {
	store := newMemStore(&spots.Spot{ID: 1})
	svc := newTestService(store, &memResolver{})

	ctx := context.Background()
	in := SubmitInput{Rating: 4, Comment: "solid"}
	if _, err := svc.Submit(ctx, testUser(1, "u1"), 1, in); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	res, err := svc.Submit(ctx, testUser(1, "u1"), 1, in)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if res.Spot.ReviewCount != 1 {
		t.Errorf("review_count = %d, want 1", res.Spot.ReviewCount)
	}
}

func TestSubmitRejectsOutOfRangeRatings(t *testing.T) {
	store := newMemStore(&spots.Spot{ID: 1})
	svc := newTestService(store, &memResolver{})

	ctx := context.Background()
	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Submit(ctx, testUser(1, "u1"), 1, SubmitInput{Rating: rating}); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
	if len(store.reviews) != 0 {
		t.Errorf("rejected ratings must write nothing, got %d reviews", len(store.reviews))
	}

	for _, rating := range []int{1, 5} {
		if _, err := svc.Submit(ctx, testUser(int64(rating), "u"), 1, SubmitInput{Rating: rating}); err != nil {
			t.Errorf("rating %d should be accepted: %v", rating, err)
		}
	}
}

func TestSubmitRequiresAuthenticatedUser(t *testing.T) {
	store := newMemStore(&spots.Spot{ID: 1})
	svc := newTestService(store, &memResolver{})

	if _, err := svc.Submit(context.Background(), nil, 1, SubmitInput{Rating: 5}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(store.reviews) != 0 {
		t.Error("unauthenticated submit must write nothing")
	}
}

func TestSubmitMediaFailureWritesNothing(t *testing.T) {
	store := newMemStore(&spots.Spot{ID: 1, ReviewCount: 0})
	resolver := &memResolver{err: &media.SizeLimitError{Files: []string{"big.jpg"}, Limit: 5 << 20}}
	svc := newTestService(store, resolver)

	files := []media.File{{Name: "big.jpg", Data: []byte("x")}}
	_, err := svc.Submit(context.Background(), testUser(1, "u1"), 1, SubmitInput{Rating: 5, Files: files})

	var sizeErr *media.SizeLimitError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("expected SizeLimitError to propagate, got %v", err)
	}
	if len(store.reviews) != 0 {
		t.Error("failed media intake must abort before any review write")
	}
	if store.spots[1].ReviewCount != 0 || store.spots[1].AverageRating != 0 {
		t.Error("aggregates must stay at last committed values on failure")
	}
}

func TestSubmitAttachesResolvedMedia(t *testing.T) {
	store := newMemStore(&spots.Spot{ID: 1})
	resolver := &memResolver{
		attachments: []media.Attachment{{URL: "https://cdn.example.com/a.jpg", Kind: media.KindImage}},
	}
	svc := newTestService(store, resolver)

	files := []media.File{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.jpg", Data: []byte("b")},
	}
	res, err := svc.Submit(context.Background(), testUser(1, "u1"), 1, SubmitInput{Rating: 4, Files: files})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(res.Review.Media) != 1 {
		t.Fatalf("expected 1 attachment on the review, got %d", len(res.Review.Media))
	}
	// one of two uploads was dropped; the counts expose that to the UI
	if res.UploadedMedia != 1 || res.RequestedMedia != 2 {
		t.Errorf("uploaded/requested = %d/%d, want 1/2", res.UploadedMedia, res.RequestedMedia)
	}
}

func TestSubmitUnknownSpotFails(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, &memResolver{})

	if _, err := svc.Submit(context.Background(), testUser(1, "u1"), 99, SubmitInput{Rating: 3}); !errors.Is(err, spots.ErrSpotNotFound) {
		t.Fatalf("expected ErrSpotNotFound, got %v", err)
	}
}

func TestSubmitPersistenceFailureSurfaces(t *testing.T) {
	store := newMemStore(&spots.Spot{ID: 1})
	store.failing = true
	svc := newTestService(store, &memResolver{})

	if _, err := svc.Submit(context.Background(), testUser(1, "u1"), 1, SubmitInput{Rating: 5}); err == nil {
		t.Fatal("expected persistence error to surface")
	}
}

func TestListForSpotNewestFirst(t *testing.T) {
	store := newMemStore(&spots.Spot{ID: 1})
	svc := newTestService(store, &memResolver{})

	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		if _, err := svc.Submit(ctx, testUser(i, "u"), 1, SubmitInput{Rating: int(i) + 1}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	list, err := svc.ListForSpot(ctx, 1)
	if err != nil {
		t.Fatalf("ListForSpot: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Errorf("reviews not ordered newest first at index %d", i)
		}
	}
}
