// This file provides repository helpers for the Idempotency model used to
// replay keyed contact submissions.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/portfolio-backend/internal/domain"
)

var (
	// ErrNotFound is returned when no live record matches.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates that an idempotency record already exists for the
	// given (client_key, route, key) tuple.
	ErrDuplicate = errors.New("duplicate")
)

// GetIdempotency returns a non-expired record or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, clientKey, route, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("client_key = ? AND route = ? AND key = ? AND expires_at > ?", clientKey, route, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency inserts a record and returns ErrDuplicate on unique violation.
// requestHash fingerprints the request body the response belongs to.
func CreateIdempotency(ctx context.Context, db *gorm.DB, clientKey, route, key, requestHash string, status int, contentType string, body []byte, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:          uuid.NewString(),
		ClientKey:   clientKey,
		Route:       route,
		Key:         key,
		Status:      status,
		ContentType: contentType,
		Body:        body,
		RequestHash: requestHash,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes records whose window has closed and returns
// the number of rows removed.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}

// IdempotencyStore adapts the helpers above to a *gorm.DB for the HTTP layer.
type IdempotencyStore struct {
	DB  *gorm.DB
	TTL time.Duration
}

// Lookup returns the live record for (clientKey, route, key) or ErrNotFound.
func (s *IdempotencyStore) Lookup(ctx context.Context, clientKey, route, key string) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, s.DB, clientKey, route, key, time.Now().UTC())
}

// Exists reports whether a live record exists. Lookup failures read as false.
func (s *IdempotencyStore) Exists(ctx context.Context, clientKey, route, key string, now time.Time) (bool, error) {
	rec, err := GetIdempotency(ctx, s.DB, clientKey, route, key, now)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return rec != nil, err
}

// Save records a response for later replay. A concurrent duplicate is not an error.
func (s *IdempotencyStore) Save(ctx context.Context, clientKey, route, key, requestHash string, status int, contentType string, body []byte) error {
	_, err := CreateIdempotency(ctx, s.DB, clientKey, route, key, requestHash, status, contentType, body, s.TTL)
	if errors.Is(err, ErrDuplicate) {
		return nil
	}
	return err
}
