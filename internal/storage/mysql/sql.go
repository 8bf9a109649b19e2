package mysql

// Timestamps are stored as RFC-3339 strings, booleans as 0/1 integers.
// Foreign references are deliberately unconstrained: inserting a review,
// deal, or favorite for an unknown parent succeeds silently.

var schemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id         VARCHAR(36)  PRIMARY KEY,
  name       VARCHAR(255) NOT NULL,
  email      VARCHAR(255) NOT NULL,
  created_at VARCHAR(35)  NOT NULL,
  updated_at VARCHAR(35)  NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS businesses (
  id             VARCHAR(36)  PRIMARY KEY,
  name           VARCHAR(255) NOT NULL,
  category       VARCHAR(255) NOT NULL,
  description    TEXT         NOT NULL,
  address        VARCHAR(255) NOT NULL,
  phone          VARCHAR(64)  NOT NULL,
  website        VARCHAR(255) NULL,
  average_rating DOUBLE       NOT NULL DEFAULT 0,
  review_count   INT          NOT NULL DEFAULT 0,
  has_deals      TINYINT(1)   NOT NULL DEFAULT 0,
  created_at     VARCHAR(35)  NOT NULL,
  updated_at     VARCHAR(35)  NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS reviews (
  id          VARCHAR(36) PRIMARY KEY,
  business_id VARCHAR(36) NOT NULL,
  user_id     VARCHAR(36) NOT NULL,
  rating      INT         NOT NULL,
  comment     TEXT        NOT NULL,
  created_at  VARCHAR(35) NOT NULL,
  updated_at  VARCHAR(35) NOT NULL,
  INDEX idx_reviews_business (business_id)
)`,
	`CREATE TABLE IF NOT EXISTS deals (
  id            VARCHAR(36)  PRIMARY KEY,
  business_id   VARCHAR(36)  NOT NULL,
  title         VARCHAR(255) NOT NULL,
  description   TEXT         NOT NULL,
  discount_code VARCHAR(64)  NULL,
  start_date    VARCHAR(35)  NOT NULL,
  end_date      VARCHAR(35)  NOT NULL,
  is_active     TINYINT(1)   NOT NULL DEFAULT 1,
  created_at    VARCHAR(35)  NOT NULL,
  updated_at    VARCHAR(35)  NOT NULL,
  INDEX idx_deals_business (business_id)
)`,
	`CREATE TABLE IF NOT EXISTS favorites (
  id          VARCHAR(36) PRIMARY KEY,
  user_id     VARCHAR(36) NOT NULL,
  business_id VARCHAR(36) NOT NULL,
  created_at  VARCHAR(35) NOT NULL,
  INDEX idx_favorites_pair (user_id, business_id)
)`,
}

const insertUserSQL = `
INSERT INTO users (id, name, email, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`

const getUserSQL = `
SELECT id, name, email, created_at, updated_at
FROM users
WHERE id = ?
`

const insertBusinessSQL = `
INSERT INTO businesses
  (id, name, category, description, address, phone, website,
   average_rating, review_count, has_deals, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const businessColumns = `
  id, name, category, description, address, phone, website,
  average_rating, review_count, has_deals, created_at, updated_at`

const getAllBusinessesSQL = `SELECT` + businessColumns + `
FROM businesses
ORDER BY id
`

const getBusinessSQL = `SELECT` + businessColumns + `
FROM businesses
WHERE id = ?
`

const searchBusinessesSQL = `SELECT` + businessColumns + `
FROM businesses
WHERE name LIKE ? OR description LIKE ? OR category LIKE ?
ORDER BY id
`

const insertReviewSQL = `
INSERT INTO reviews (id, business_id, user_id, rating, comment, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Takes the business row lock up front so concurrent review writes for the
// same business serialize before either recomputes the aggregate.
const lockBusinessSQL = `
SELECT id FROM businesses WHERE id = ? FOR UPDATE
`

// Server-side recompute keeps the aggregate consistent with the review set
// visible inside the transaction; zero reviews yields 0/0.
const updateBusinessRatingSQL = `
UPDATE businesses
SET average_rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE business_id = ?), 0),
    review_count   = (SELECT COUNT(*) FROM reviews WHERE business_id = ?)
WHERE id = ?
`

const getReviewsByBusinessSQL = `
SELECT id, business_id, user_id, rating, comment, created_at, updated_at
FROM reviews
WHERE business_id = ?
ORDER BY created_at DESC, id DESC
`

const insertDealSQL = `
INSERT INTO deals
  (id, business_id, title, description, discount_code,
   start_date, end_date, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Idempotent set; has_deals is never reverted.
const setHasDealsSQL = `
UPDATE businesses SET has_deals = 1 WHERE id = ?
`

const dealColumns = `
  id, business_id, title, description, discount_code,
  start_date, end_date, is_active, created_at, updated_at`

const getDealsByBusinessSQL = `SELECT` + dealColumns + `
FROM deals
WHERE business_id = ?
ORDER BY created_at DESC, id DESC
`

const getActiveDealsSQL = `SELECT` + dealColumns + `
FROM deals
WHERE is_active = 1
ORDER BY created_at DESC, id DESC
`

const insertFavoriteSQL = `
INSERT INTO favorites (id, user_id, business_id, created_at)
VALUES (?, ?, ?, ?)
`

const deleteFavoriteSQL = `
DELETE FROM favorites WHERE user_id = ? AND business_id = ?
`

const isFavoriteSQL = `
SELECT 1 FROM favorites WHERE user_id = ? AND business_id = ? LIMIT 1
`

const getFavoritesByUserSQL = `
SELECT
  b.id, b.name, b.category, b.description, b.address, b.phone, b.website,
  b.average_rating, b.review_count, b.has_deals, b.created_at, b.updated_at
FROM favorites f
JOIN businesses b ON b.id = f.business_id
WHERE f.user_id = ?
ORDER BY f.created_at DESC
`
