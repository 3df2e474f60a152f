package domain

import "time"

// Review is a customer review of a product.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	Helpful   int       `json:"helpful"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReviewInput is the payload for submitting a review.
type NewReviewInput struct {
	ProductID string `json:"product_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	UserName  string `json:"user_name" validate:"required"`
	Rating    int    `json:"rating" validate:"gte=1,lte=5"`
	Title     string `json:"title" validate:"min=3,max=200"`
	Comment   string `json:"comment" validate:"min=10,max=2000"`
	Verified  bool   `json:"verified"`
}

// UpdateReviewInput is a partial review update. Nil fields are left as is.
type UpdateReviewInput struct {
	Rating  *int    `json:"rating,omitempty"`
	Title   *string `json:"title,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// Empty reports whether the patch carries no fields.
func (u UpdateReviewInput) Empty() bool {
	return u.Rating == nil && u.Title == nil && u.Comment == nil
}
