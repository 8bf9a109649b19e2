package app

import (
	"context"
	"fmt"
	"time"

	"bizdir/internal/domain"
)

// DirectoryService owns the write paths. It constructs entities, persists
// them, and evicts the read caches the write made stale. Search cache
// entries are not evicted individually; they expire by TTL.
type DirectoryService struct {
	repo  domain.DirectoryRepository
	cache domain.Cache
}

func NewDirectoryService(r domain.DirectoryRepository, c domain.Cache) *DirectoryService {
	return &DirectoryService{repo: r, cache: c}
}

func (s *DirectoryService) CreateUser(ctx context.Context, name, email string) (domain.User, error) {
	u := domain.NewUser(name, email)
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *DirectoryService) CreateBusiness(ctx context.Context, name, category, description, address, phone string, website *string) (domain.Business, error) {
	b := domain.NewBusiness(name, category, description, address, phone, website)
	if err := s.repo.CreateBusiness(ctx, b); err != nil {
		return domain.Business{}, err
	}
	s.invalidate(ctx, keyAllBusinesses)
	return b, nil
}

func (s *DirectoryService) CreateReview(ctx context.Context, businessID, userID string, rating int, comment string) (domain.Review, error) {
	rv := domain.NewReview(businessID, userID, rating, comment)
	if err := s.repo.CreateReview(ctx, rv); err != nil {
		return domain.Review{}, err
	}
	// The review write mutated the owning business's aggregate.
	s.invalidate(ctx, keyBusiness(businessID), keyAllBusinesses, keyReviews(businessID))
	return rv, nil
}

// CreateDeal parses the caller-supplied RFC-3339 date strings; a malformed
// date fails with a message naming the offending field.
func (s *DirectoryService) CreateDeal(ctx context.Context, businessID, title, description string, discountCode *string, startDate, endDate string) (domain.Deal, error) {
	start, err := time.Parse(time.RFC3339, startDate)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endDate)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("invalid end date: %w", err)
	}

	d := domain.NewDeal(businessID, title, description, discountCode, start.UTC(), end.UTC())
	if err := s.repo.CreateDeal(ctx, d); err != nil {
		return domain.Deal{}, err
	}
	s.invalidate(ctx, keyBusiness(businessID), keyAllBusinesses, keyDeals(businessID), keyActiveDeals)
	return d, nil
}

func (s *DirectoryService) AddFavorite(ctx context.Context, userID, businessID string) (domain.Favorite, error) {
	f := domain.NewFavorite(userID, businessID)
	if err := s.repo.AddFavorite(ctx, f); err != nil {
		return domain.Favorite{}, err
	}
	s.invalidate(ctx, keyFavorites(userID))
	return f, nil
}

func (s *DirectoryService) RemoveFavorite(ctx context.Context, userID, businessID string) error {
	if err := s.repo.RemoveFavorite(ctx, userID, businessID); err != nil {
		return err
	}
	s.invalidate(ctx, keyFavorites(userID))
	return nil
}

func (s *DirectoryService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	for _, k := range keys {
		_ = s.cache.Del(ctx, k)
	}
}
