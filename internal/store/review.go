package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/validator"
)

type ratingSum struct {
	total int
	count int
}

// Reviews stores product reviews with per-product indexes that are updated
// in place on every write.
type Reviews struct {
	base

	mu        sync.RWMutex
	order     []string
	byID      map[string]*domain.Review
	byProduct map[string][]string
	ratings   map[string]ratingSum
	now       func() time.Time
}

// NewReviews creates an empty review store.
func NewReviews(l *slog.Logger) *Reviews {
	r := &Reviews{base: newBase(NameReviews, l), now: time.Now}
	r.resetLocked()
	return r
}

func (r *Reviews) resetLocked() {
	r.order = []string{}
	r.byID = map[string]*domain.Review{}
	r.byProduct = map[string][]string{}
	r.ratings = map[string]ratingSum{}
}

func normalizeReviewPatch(p domain.UpdateReviewInput) domain.UpdateReviewInput {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
	}
	if p.Comment != nil {
		comment := strings.TrimSpace(*p.Comment)
		p.Comment = &comment
	}
	return p
}

// checkReviewPatch applies the NewReviewInput rules to the present fields.
func checkReviewPatch(p domain.UpdateReviewInput) error {
	var fields []validator.Field
	if p.Rating != nil {
		fields = append(fields, validator.Field{Name: "rating", Value: *p.Rating, Tag: "gte=1,lte=5"})
	}
	if p.Title != nil {
		fields = append(fields, validator.Field{Name: "title", Value: *p.Title, Tag: "min=3,max=200"})
	}
	if p.Comment != nil {
		fields = append(fields, validator.Field{Name: "comment", Value: *p.Comment, Tag: "min=10,max=2000"})
	}
	return validator.CheckFields(fields...)
}

func normalizeReviewInput(in domain.NewReviewInput) domain.NewReviewInput {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.UserID = strings.TrimSpace(in.UserID)
	in.UserName = strings.TrimSpace(in.UserName)
	in.Title = strings.TrimSpace(in.Title)
	in.Comment = strings.TrimSpace(in.Comment)
	return in
}

// AddReview validates and stores a new review.
func (r *Reviews) AddReview(ctx context.Context, in domain.NewReviewInput) (domain.Review, error) {
	in = normalizeReviewInput(in)
	if err := validator.Check(in); err != nil {
		return domain.Review{}, r.reject(ctx, "add", err)
	}

	now := r.now().UTC()
	rev := domain.Review{
		ID:        uuid.NewString(),
		ProductID: in.ProductID,
		UserID:    in.UserID,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Title:     in.Title,
		Comment:   in.Comment,
		Helpful:   0,
		Verified:  in.Verified,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.insertLocked(rev)
	r.mu.Unlock()

	r.log(ctx).InfoContext(ctx, "review added",
		slog.String("review_id", rev.ID),
		slog.String("product_id", rev.ProductID),
		slog.Int("rating", rev.Rating),
	)
	r.applied("add")
	return rev, nil
}

// UpdateReview applies the fields present in patch. Only those fields are
// validated; the rest of the stored review is left as it is.
func (r *Reviews) UpdateReview(ctx context.Context, id string, patch domain.UpdateReviewInput) (domain.Review, error) {
	patch = normalizeReviewPatch(patch)
	if err := checkReviewPatch(patch); err != nil {
		return domain.Review{}, r.reject(ctx, "update", err)
	}

	r.mu.Lock()
	cur, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return domain.Review{}, apperrors.NotFound("review", id)
	}

	candidate := *cur
	if patch.Rating != nil {
		candidate.Rating = *patch.Rating
	}
	if patch.Title != nil {
		candidate.Title = *patch.Title
	}
	if patch.Comment != nil {
		candidate.Comment = *patch.Comment
	}

	sum := r.ratings[cur.ProductID]
	sum.total += candidate.Rating - cur.Rating
	r.ratings[cur.ProductID] = sum

	cur.Rating = candidate.Rating
	cur.Title = candidate.Title
	cur.Comment = candidate.Comment
	cur.UpdatedAt = r.now().UTC()
	updated := *cur
	r.mu.Unlock()

	r.applied("update")
	return updated, nil
}

// DeleteReview removes a review and reports whether it existed.
func (r *Reviews) DeleteReview(ctx context.Context, id string) bool {
	r.mu.Lock()
	rev, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	productID := rev.ProductID
	r.removeLocked(rev)
	r.mu.Unlock()

	r.log(ctx).InfoContext(ctx, "review deleted", slog.String("review_id", id), slog.String("product_id", productID))
	r.applied("delete")
	return true
}

// ToggleHelpful increments the helpful counter of a review. Repeated calls
// keep incrementing; there is no per-user de-duplication.
func (r *Reviews) ToggleHelpful(ctx context.Context, id string) (domain.Review, bool) {
	r.mu.Lock()
	rev, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return domain.Review{}, false
	}
	rev.Helpful++
	out := *rev
	r.mu.Unlock()

	r.applied("helpful")
	return out, true
}

// Get returns a review by id.
func (r *Reviews) Get(id string) (domain.Review, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rev, ok := r.byID[id]
	if !ok {
		return domain.Review{}, false
	}
	return *rev, true
}

// Reviews returns every review in submission order.
func (r *Reviews) Reviews() []domain.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(r.order)
}

// ReviewsByProduct returns the reviews of one product in submission order,
// or an empty slice.
func (r *Reviews) ReviewsByProduct(productID string) []domain.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(r.byProduct[productID])
}

// AverageRating returns the mean rating of a product's reviews, 0 if none.
func (r *Reviews) AverageRating(productID string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := r.ratings[productID]
	if sum.count == 0 {
		return 0
	}
	return float64(sum.total) / float64(sum.count)
}

func (r *Reviews) collectLocked(ids []string) []domain.Review {
	out := make([]domain.Review, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.byID[id])
	}
	return out
}

func (r *Reviews) insertLocked(rev domain.Review) {
	r.byID[rev.ID] = &rev
	r.order = append(r.order, rev.ID)
	r.byProduct[rev.ProductID] = append(r.byProduct[rev.ProductID], rev.ID)
	sum := r.ratings[rev.ProductID]
	sum.total += rev.Rating
	sum.count++
	r.ratings[rev.ProductID] = sum
}

func (r *Reviews) removeLocked(rev *domain.Review) {
	isRev := func(id string) bool { return id == rev.ID }

	delete(r.byID, rev.ID)
	r.order = slices.DeleteFunc(r.order, isRev)

	ids := slices.DeleteFunc(r.byProduct[rev.ProductID], isRev)
	if len(ids) == 0 {
		delete(r.byProduct, rev.ProductID)
		delete(r.ratings, rev.ProductID)
		return
	}
	r.byProduct[rev.ProductID] = ids
	sum := r.ratings[rev.ProductID]
	sum.total -= rev.Rating
	sum.count--
	r.ratings[rev.ProductID] = sum
}

type reviewsSnapshot struct {
	Reviews []domain.Review `json:"reviews"`
}

// Serialize encodes every review in submission order.
func (r *Reviews) Serialize() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return json.Marshal(reviewsSnapshot{Reviews: r.collectLocked(r.order)})
}

// Hydrate replaces the store with a serialized snapshot and rebuilds the
// indexes. Reviews are trusted as-is; a later duplicate id replaces the
// earlier one.
func (r *Reviews) Hydrate(data []byte) error {
	var snap reviewsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("hydrate reviews: %w", err)
	}

	r.mu.Lock()
	r.resetLocked()
	for _, rev := range snap.Reviews {
		if prev, ok := r.byID[rev.ID]; ok {
			r.removeLocked(prev)
		}
		r.insertLocked(rev)
	}
	r.mu.Unlock()

	r.notify()
	return nil
}
