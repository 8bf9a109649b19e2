package app

import (
	"context"
	"time"

	"bizdir/internal/domain"
)

const keyAllBusinesses = "businesses:all"
const keyActiveDeals = "deals:active"

func keyBusiness(id string) string        { return "business:" + id }
func keySearch(q string) string           { return "search:" + q }
func keyReviews(businessID string) string { return "reviews:" + businessID }
func keyDeals(businessID string) string   { return "deals:" + businessID }
func keyFavorites(userID string) string   { return "favorites:" + userID }

// QueryService serves the read paths, with Redis in front of the store for
// the hot business/review/deal lookups. Cache errors are swallowed: a
// failed cache read falls through to the repository.
type QueryService struct {
	repo     domain.DirectoryRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.DirectoryRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ttlSec() int { return int(s.cacheTTL.Seconds()) }

// GetUser reads through to the store; user rows are immutable and rarely
// re-read, so they are not cached.
func (s *QueryService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *QueryService) GetBusiness(ctx context.Context, id string) (*domain.Business, error) {
	key := keyBusiness(id)
	var b domain.Business
	if ok, _ := s.cache.Get(ctx, key, &b); ok {
		return &b, nil
	}
	got, err := s.repo.GetBusinessByID(ctx, id)
	if err != nil || got == nil {
		return got, err
	}
	_ = s.cache.Set(ctx, key, *got, s.ttlSec())
	return got, nil
}

func (s *QueryService) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	return s.cachedBusinesses(ctx, keyAllBusinesses, func() ([]domain.Business, error) {
		return s.repo.GetAllBusinesses(ctx)
	})
}

func (s *QueryService) SearchBusinesses(ctx context.Context, query string) ([]domain.Business, error) {
	return s.cachedBusinesses(ctx, keySearch(query), func() ([]domain.Business, error) {
		return s.repo.SearchBusinesses(ctx, query)
	})
}

func (s *QueryService) GetFavoritesByUser(ctx context.Context, userID string) ([]domain.Business, error) {
	return s.cachedBusinesses(ctx, keyFavorites(userID), func() ([]domain.Business, error) {
		return s.repo.GetFavoritesByUser(ctx, userID)
	})
}

func (s *QueryService) cachedBusinesses(ctx context.Context, key string, load func() ([]domain.Business, error)) ([]domain.Business, error) {
	var cached []domain.Business
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	out, err := load()
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, s.ttlSec())
	return out, nil
}

func (s *QueryService) ListReviews(ctx context.Context, businessID string) ([]domain.Review, error) {
	key := keyReviews(businessID)
	var cached []domain.Review
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	out, err := s.repo.GetReviewsByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, s.ttlSec())
	return out, nil
}

func (s *QueryService) ListDeals(ctx context.Context, businessID string) ([]domain.Deal, error) {
	return s.cachedDeals(ctx, keyDeals(businessID), func() ([]domain.Deal, error) {
		return s.repo.GetDealsByBusiness(ctx, businessID)
	})
}

func (s *QueryService) ListActiveDeals(ctx context.Context) ([]domain.Deal, error) {
	return s.cachedDeals(ctx, keyActiveDeals, func() ([]domain.Deal, error) {
		return s.repo.GetActiveDeals(ctx)
	})
}

func (s *QueryService) cachedDeals(ctx context.Context, key string, load func() ([]domain.Deal, error)) ([]domain.Deal, error) {
	var cached []domain.Deal
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	out, err := load()
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, s.ttlSec())
	return out, nil
}

// IsFavorite is a point existence check; always answered by the store so a
// just-removed favorite never reads stale.
func (s *QueryService) IsFavorite(ctx context.Context, userID, businessID string) (bool, error) {
	return s.repo.IsFavorite(ctx, userID, businessID)
}
