package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/portfolio-backend/internal/domain"
)

func newIdemDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid schema leakage across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

const route = "/api/contact"

func TestGetIdempotency_EmptyKey_ReturnsNotFound(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})

	rec, err := GetIdempotency(context.Background(), db, "ip:1", route, "   ", time.Now().UTC())
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for empty key, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:          "expired",
		ClientKey:   "ip:1",
		Route:       route,
		Key:         "k1",
		Status:      200,
		ContentType: "application/json",
		Body:        []byte("{}"),
		CreatedAt:   now.Add(-2 * time.Hour),
		ExpiresAt:   now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	rec, err := GetIdempotency(context.Background(), db, "ip:1", route, "k1", now)
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}

	rec2, err2 := GetIdempotency(context.Background(), db, "ip:1", route, "missing", now)
	if rec2 != nil || err2 != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec2, err2)
	}
}

func TestCreateIdempotency_SuccessReadbackAndDuplicate(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	ctx := context.Background()

	ttl := 90 * time.Minute
	start := time.Now().UTC()
	body := []byte(`{"success":true}`)

	rec, err := CreateIdempotency(ctx, db, "ip:9", route, "k9", "h9", 200, "application/json", body, ttl)
	if err != nil {
		t.Fatalf("CreateIdempotency error: %v", err)
	}
	if rec == nil || rec.ID == "" || rec.ClientKey != "ip:9" || rec.Key != "k9" || rec.Status != 200 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !(rec.ExpiresAt.After(start) && rec.ExpiresAt.Before(start.Add(2*time.Hour))) {
		t.Fatalf("unexpected ExpiresAt: %v", rec.ExpiresAt)
	}

	got, err := GetIdempotency(ctx, db, "ip:9", route, "k9", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if string(got.Body) != string(body) || got.ContentType != "application/json" || got.RequestHash != "h9" {
		t.Fatalf("unexpected readback: %+v", got)
	}

	// Another client with the same key is a different scope.
	if _, err := GetIdempotency(ctx, db, "ip:10", route, "k9", time.Now().UTC()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for different client, got %v", err)
	}

	_, err2 := CreateIdempotency(ctx, db, "ip:9", route, "k9", "h9", 200, "application/json", body, ttl)
	if err2 != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err2)
	}
}

// Generic DB error path: attempt insert without migrating the table.
func TestCreateIdempotency_Error_NoTable(t *testing.T) {
	db := newIdemDB(t)
	_, err := CreateIdempotency(context.Background(), db, "ip:x", route, "kX", "", 200, "application/json", nil, time.Minute)
	if err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got ErrDuplicate")
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	for i, exp := range []time.Time{now.Add(-time.Minute), now.Add(-time.Hour), now.Add(time.Hour)} {
		rec := &domain.Idempotency{
			ID: fmt.Sprintf("r%d", i), ClientKey: "ip:1", Route: route, Key: fmt.Sprintf("k%d", i),
			Status: 200, ContentType: "application/json", Body: []byte("{}"),
			CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: exp,
		}
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, err := PurgeExpiredIdempotency(ctx, db, now)
	if err != nil || n != 2 {
		t.Fatalf("purge = (%d, %v); want (2, nil)", n, err)
	}
	var left int64
	db.Model(&domain.Idempotency{}).Count(&left)
	if left != 1 {
		t.Fatalf("remaining rows = %d; want 1", left)
	}
}

func TestIdempotencyStore(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	ctx := context.Background()
	s := &IdempotencyStore{DB: db, TTL: time.Hour}

	exists, err := s.Exists(ctx, "ip:1", route, "abc", time.Now().UTC())
	if err != nil || exists {
		t.Fatalf("Exists before save = (%v, %v)", exists, err)
	}

	if err := s.Save(ctx, "ip:1", route, "abc", "hash-a", 200, "application/json", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// duplicate save is swallowed
	if err := s.Save(ctx, "ip:1", route, "abc", "hash-b", 200, "application/json", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("duplicate Save: %v", err)
	}

	exists, err = s.Exists(ctx, "ip:1", route, "abc", time.Now().UTC())
	if err != nil || !exists {
		t.Fatalf("Exists after save = (%v, %v)", exists, err)
	}

	rec, err := s.Lookup(ctx, "ip:1", route, "abc")
	if err != nil || string(rec.Body) != `{"a":1}` {
		t.Fatalf("Lookup = (%+v, %v); first body must win", rec, err)
	}
	if !rec.Matches("hash-a") || rec.Matches("hash-b") {
		t.Fatalf("stored fingerprint = %q; want hash-a", rec.RequestHash)
	}

	if _, err := s.Lookup(ctx, "ip:1", route, "zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Lookup missing = %v; want ErrNotFound", err)
	}
}
