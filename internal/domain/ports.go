package domain

import "context"

// DirectoryRepository is the persistence port. Single-row reads report
// absence as a nil pointer, not an error.
type DirectoryRepository interface {
	// Write paths
	CreateUser(ctx context.Context, u User) error
	CreateBusiness(ctx context.Context, b Business) error
	CreateReview(ctx context.Context, rv Review) error
	CreateDeal(ctx context.Context, d Deal) error
	AddFavorite(ctx context.Context, f Favorite) error
	RemoveFavorite(ctx context.Context, userID, businessID string) error

	// Read paths
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetAllBusinesses(ctx context.Context) ([]Business, error)
	GetBusinessByID(ctx context.Context, id string) (*Business, error)
	SearchBusinesses(ctx context.Context, query string) ([]Business, error)
	GetReviewsByBusiness(ctx context.Context, businessID string) ([]Review, error)
	GetDealsByBusiness(ctx context.Context, businessID string) ([]Deal, error)
	GetActiveDeals(ctx context.Context) ([]Deal, error)
	IsFavorite(ctx context.Context, userID, businessID string) (bool, error)
	GetFavoritesByUser(ctx context.Context, userID string) ([]Business, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
