package app_test

import (
	"context"
	"encoding/json"

	"bizdir/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	users      map[string]domain.User
	businesses []domain.Business
	reviews    []domain.Review
	deals      []domain.Deal
	favorites  map[string]bool // userID|businessID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]domain.User{}, favorites: map[string]bool{}}
}

func (f *fakeRepo) CreateUser(ctx context.Context, u domain.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeRepo) CreateBusiness(ctx context.Context, b domain.Business) error {
	f.businesses = append(f.businesses, b)
	return nil
}

func (f *fakeRepo) CreateReview(ctx context.Context, rv domain.Review) error {
	f.reviews = append(f.reviews, rv)
	return nil
}

func (f *fakeRepo) CreateDeal(ctx context.Context, d domain.Deal) error {
	f.deals = append(f.deals, d)
	return nil
}

func (f *fakeRepo) AddFavorite(ctx context.Context, fav domain.Favorite) error {
	f.favorites[fav.UserID+"|"+fav.BusinessID] = true
	return nil
}

func (f *fakeRepo) RemoveFavorite(ctx context.Context, userID, businessID string) error {
	delete(f.favorites, userID+"|"+businessID)
	return nil
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f *fakeRepo) GetAllBusinesses(ctx context.Context) ([]domain.Business, error) {
	return f.businesses, nil
}

func (f *fakeRepo) GetBusinessByID(ctx context.Context, id string) (*domain.Business, error) {
	for i := range f.businesses {
		if f.businesses[i].ID == id {
			b := f.businesses[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) SearchBusinesses(ctx context.Context, query string) ([]domain.Business, error) {
	return f.businesses, nil
}

func (f *fakeRepo) GetReviewsByBusiness(ctx context.Context, businessID string) ([]domain.Review, error) {
	var out []domain.Review
	for _, rv := range f.reviews {
		if rv.BusinessID == businessID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetDealsByBusiness(ctx context.Context, businessID string) ([]domain.Deal, error) {
	var out []domain.Deal
	for _, d := range f.deals {
		if d.BusinessID == businessID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetActiveDeals(ctx context.Context) ([]domain.Deal, error) {
	var out []domain.Deal
	for _, d := range f.deals {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) IsFavorite(ctx context.Context, userID, businessID string) (bool, error) {
	return f.favorites[userID+"|"+businessID], nil
}

func (f *fakeRepo) GetFavoritesByUser(ctx context.Context, userID string) ([]domain.Business, error) {
	return f.businesses, nil
}

// fakeCache stores JSON bytes so hits exercise the same (de)serialization
// path as the Redis adapter. Deleted keys are recorded for invalidation
// assertions.
type fakeCache struct {
	store map[string][]byte
	dels  []string
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}
