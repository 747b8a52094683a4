package models

import (
	"time"

	"github.com/google/uuid"
)

type Store struct {
	ID          uuid.UUID `json:"id"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	BannerURL   *string   `json:"banner_url,omitempty"`
	Category    *string   `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product statuses
const (
	ProductStatusActive = "ACTIVE"
	ProductStatusHidden = "HIDDEN"
)

type Product struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       string    `json:"price"` // numeric as string
	Currency    string    `json:"currency"`
	Stock       int       `json:"stock"`
	ImageURLs   []string  `json:"image_urls"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Review struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewSummary is the review list of a product plus its average rating.
type ReviewSummary struct {
	Reviews       []Review `json:"reviews"`
	Count         int      `json:"count"`
	AverageRating float64  `json:"average_rating"`
}

func SummarizeReviews(reviews []Review) ReviewSummary {
	s := ReviewSummary{Reviews: reviews, Count: len(reviews)}
	if s.Reviews == nil {
		s.Reviews = []Review{}
	}
	if len(reviews) == 0 {
		return s
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	s.AverageRating = float64(total) / float64(len(reviews))
	return s
}
