package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Business struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Website       *string   `json:"website"`
	AverageRating float64   `json:"average_rating"` // derived, owned by the review write path
	ReviewCount   int       `json:"review_count"`   // derived
	HasDeals      bool      `json:"has_deals"`      // derived, monotonic
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Review struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	UserID     string    `json:"user_id"`
	Rating     int       `json:"rating"` // 1..5 by convention; not range-checked here
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Deal struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"business_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DiscountCode *string   `json:"discount_code"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	IsActive     bool      `json:"is_active"` // stored flag, never recomputed from dates
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Favorite struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	BusinessID string    `json:"business_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewUser(name, email string) User {
	now := time.Now().UTC()
	return User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewBusiness(name, category, description, address, phone string, website *string) Business {
	now := time.Now().UTC()
	return Business{
		ID:            uuid.NewString(),
		Name:          name,
		Category:      category,
		Description:   description,
		Address:       address,
		Phone:         phone,
		Website:       website,
		AverageRating: 0,
		ReviewCount:   0,
		HasDeals:      false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewReview accepts the rating as given; range validation happens at the
// caller boundary before construction.
func NewReview(businessID, userID string, rating int, comment string) Review {
	now := time.Now().UTC()
	return Review{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		UserID:     userID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func NewDeal(businessID, title, description string, discountCode *string, startDate, endDate time.Time) Deal {
	now := time.Now().UTC()
	return Deal{
		ID:           uuid.NewString(),
		BusinessID:   businessID,
		Title:        title,
		Description:  description,
		DiscountCode: discountCode,
		StartDate:    startDate,
		EndDate:      endDate,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func NewFavorite(userID, businessID string) Favorite {
	return Favorite{
		ID:         uuid.NewString(),
		UserID:     userID,
		BusinessID: businessID,
		CreatedAt:  time.Now().UTC(),
	}
}
