package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bizdir/internal/adapters/observability"
	"bizdir/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Initialize creates the five tables when missing. Safe to call on every
// startup.
func (r *Repo) Initialize(ctx context.Context) error {
	for _, stmt := range schemaSQL {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
	}
	return nil
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL,
		u.ID, u.Name, u.Email, fmtTime(u.CreatedAt), fmtTime(u.UpdatedAt))
	observability.ObserveStore("create_user", err)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repo) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, getUserSQL, id)

	var u domain.User
	var createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		observability.ObserveStore("get_user", nil)
		return nil, nil
	}
	observability.ObserveStore("get_user", err)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return &u, nil
}

func (r *Repo) CreateBusiness(ctx context.Context, b domain.Business) error {
	_, err := r.db.ExecContext(ctx, insertBusinessSQL,
		b.ID, b.Name, b.Category, b.Description, b.Address, b.Phone, valStr(b.Website),
		b.AverageRating, b.ReviewCount, boolInt(b.HasDeals),
		fmtTime(b.CreatedAt), fmtTime(b.UpdatedAt))
	observability.ObserveStore("create_business", err)
	if err != nil {
		return fmt.Errorf("create business: %w", err)
	}
	return nil
}

func scanBusiness(sc interface{ Scan(...any) error }) (domain.Business, error) {
	var b domain.Business
	var website sql.NullString
	var hasDeals int
	var createdAt, updatedAt string
	if err := sc.Scan(
		&b.ID, &b.Name, &b.Category, &b.Description, &b.Address, &b.Phone, &website,
		&b.AverageRating, &b.ReviewCount, &hasDeals, &createdAt, &updatedAt,
	); err != nil {
		return domain.Business{}, err
	}
	if website.Valid {
		w := website.String
		b.Website = &w
	}
	b.HasDeals = hasDeals != 0
	b.CreatedAt = parseTime(createdAt)
	b.UpdatedAt = parseTime(updatedAt)
	return b, nil
}

func (r *Repo) queryBusinesses(ctx context.Context, op, query string, args ...any) ([]domain.Business, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	observability.ObserveStore(op, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []domain.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *Repo) GetAllBusinesses(ctx context.Context) ([]domain.Business, error) {
	return r.queryBusinesses(ctx, "get businesses", getAllBusinessesSQL)
}

func (r *Repo) GetBusinessByID(ctx context.Context, id string) (*domain.Business, error) {
	row := r.db.QueryRowContext(ctx, getBusinessSQL, id)
	b, err := scanBusiness(row)
	if err == sql.ErrNoRows {
		observability.ObserveStore("get_business", nil)
		return nil, nil
	}
	observability.ObserveStore("get_business", err)
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

// SearchBusinesses matches the query as a substring of name, description,
// or category using the store's LIKE semantics.
func (r *Repo) SearchBusinesses(ctx context.Context, query string) ([]domain.Business, error) {
	pat := "%" + query + "%"
	return r.queryBusinesses(ctx, "search businesses", searchBusinessesSQL, pat, pat, pat)
}

// CreateReview inserts the review and recomputes the owning business's
// average_rating and review_count in the same transaction. The business row
// is locked first so concurrent reviews for one business cannot interleave
// insert and recompute.
func (r *Repo) CreateReview(ctx context.Context, rv domain.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		observability.ObserveStore("create_review", err)
		return fmt.Errorf("create review: %w", err)
	}
	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx, lockBusinessSQL, rv.BusinessID).Scan(&locked)
	if err != nil && err != sql.ErrNoRows {
		// ErrNoRows is fine: unknown parents are accepted silently.
		observability.ObserveStore("create_review", err)
		return fmt.Errorf("create review: %w", err)
	}

	if _, err := tx.ExecContext(ctx, insertReviewSQL,
		rv.ID, rv.BusinessID, rv.UserID, rv.Rating, rv.Comment,
		fmtTime(rv.CreatedAt), fmtTime(rv.UpdatedAt)); err != nil {
		observability.ObserveStore("create_review", err)
		return fmt.Errorf("create review: %w", err)
	}

	if _, err := tx.ExecContext(ctx, updateBusinessRatingSQL,
		rv.BusinessID, rv.BusinessID, rv.BusinessID); err != nil {
		observability.ObserveStore("create_review", err)
		return fmt.Errorf("update business rating: %w", err)
	}

	err = tx.Commit()
	observability.ObserveStore("create_review", err)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *Repo) GetReviewsByBusiness(ctx context.Context, businessID string) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, getReviewsByBusinessSQL, businessID)
	observability.ObserveStore("get_reviews", err)
	if err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var createdAt, updatedAt string
		if err := rows.Scan(&rv.ID, &rv.BusinessID, &rv.UserID, &rv.Rating, &rv.Comment,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("get reviews: %w", err)
		}
		rv.CreatedAt = parseTime(createdAt)
		rv.UpdatedAt = parseTime(updatedAt)
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}
	return out, nil
}

// CreateDeal inserts the deal and flags the owning business in one
// transaction. The flag write is an unconditional set.
func (r *Repo) CreateDeal(ctx context.Context, d domain.Deal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		observability.ObserveStore("create_deal", err)
		return fmt.Errorf("create deal: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertDealSQL,
		d.ID, d.BusinessID, d.Title, d.Description, valStr(d.DiscountCode),
		fmtTime(d.StartDate), fmtTime(d.EndDate), boolInt(d.IsActive),
		fmtTime(d.CreatedAt), fmtTime(d.UpdatedAt)); err != nil {
		observability.ObserveStore("create_deal", err)
		return fmt.Errorf("create deal: %w", err)
	}

	if _, err := tx.ExecContext(ctx, setHasDealsSQL, d.BusinessID); err != nil {
		observability.ObserveStore("create_deal", err)
		return fmt.Errorf("update business deals flag: %w", err)
	}

	err = tx.Commit()
	observability.ObserveStore("create_deal", err)
	if err != nil {
		return fmt.Errorf("create deal: %w", err)
	}
	return nil
}

func (r *Repo) queryDeals(ctx context.Context, op, query string, args ...any) ([]domain.Deal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	observability.ObserveStore(op, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []domain.Deal
	for rows.Next() {
		var d domain.Deal
		var code sql.NullString
		var active int
		var start, end, createdAt, updatedAt string
		if err := rows.Scan(&d.ID, &d.BusinessID, &d.Title, &d.Description, &code,
			&start, &end, &active, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if code.Valid {
			c := code.String
			d.DiscountCode = &c
		}
		d.IsActive = active != 0
		d.StartDate = parseTime(start)
		d.EndDate = parseTime(end)
		d.CreatedAt = parseTime(createdAt)
		d.UpdatedAt = parseTime(updatedAt)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *Repo) GetDealsByBusiness(ctx context.Context, businessID string) ([]domain.Deal, error) {
	return r.queryDeals(ctx, "get deals", getDealsByBusinessSQL, businessID)
}

// GetActiveDeals filters on the stored flag only; dates are not consulted.
func (r *Repo) GetActiveDeals(ctx context.Context) ([]domain.Deal, error) {
	return r.queryDeals(ctx, "get active deals", getActiveDealsSQL)
}

func (r *Repo) AddFavorite(ctx context.Context, f domain.Favorite) error {
	_, err := r.db.ExecContext(ctx, insertFavoriteSQL,
		f.ID, f.UserID, f.BusinessID, fmtTime(f.CreatedAt))
	observability.ObserveStore("add_favorite", err)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes by the (user, business) pair. Removing a pair that
// was never added is a no-op, not an error.
func (r *Repo) RemoveFavorite(ctx context.Context, userID, businessID string) error {
	_, err := r.db.ExecContext(ctx, deleteFavoriteSQL, userID, businessID)
	observability.ObserveStore("remove_favorite", err)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (r *Repo) IsFavorite(ctx context.Context, userID, businessID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, isFavoriteSQL, userID, businessID).Scan(&one)
	if err == sql.ErrNoRows {
		observability.ObserveStore("is_favorite", nil)
		return false, nil
	}
	observability.ObserveStore("is_favorite", err)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return true, nil
}

// GetFavoritesByUser returns the favorited businesses themselves, joined
// through the favorites table.
func (r *Repo) GetFavoritesByUser(ctx context.Context, userID string) ([]domain.Business, error) {
	return r.queryBusinesses(ctx, "get favorites", getFavoritesByUserSQL, userID)
}
