package domain

import "time"

// Idempotency records the response produced for a keyed unsafe request,
// scoped to (client_key, route, key). A retry carrying the same key from the
// same client within the TTL gets Body replayed instead of re-running the
// contact sinks. RequestHash fingerprints the request that produced Body; a
// retry whose fingerprint differs is a key reuse, not a replay.
type Idempotency struct {
	ID          string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	ClientKey   string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_client_route_key,priority:1"`
	Route       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_client_route_key,priority:2"`
	Key         string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_client_route_key,priority:3"`
	Status      int       `gorm:"type:INTEGER NOT NULL"`
	ContentType string    `gorm:"type:TEXT NOT NULL"`
	Body        []byte    `gorm:"type:BLOB NOT NULL"`
	RequestHash string    `gorm:"type:TEXT NOT NULL;default:''"`
	CreatedAt   time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt   time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

// Matches reports whether a retry with the given request fingerprint may be
// served Body. Rows written without a fingerprint match anything.
func (i Idempotency) Matches(requestHash string) bool {
	return i.RequestHash == "" || i.RequestHash == requestHash
}

// Expired reports whether the record is no longer replayable at now.
func (i Idempotency) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
