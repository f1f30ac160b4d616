// Package domain defines the core models of the portfolio backend: contact
// submissions and their stored records, the static project catalog, and the
// idempotency rows persisted with GORM.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// ContactSubmission is the payload posted by the contact form. Every field is
// required and must be non-empty after trimming.
type ContactSubmission struct {
	Name    string `json:"name"    form:"name"`
	Email   string `json:"email"   form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (c ContactSubmission) Trimmed() ContactSubmission {
	return ContactSubmission{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Subject: strings.TrimSpace(c.Subject),
		Message: strings.TrimSpace(c.Message),
	}
}

// Fingerprint is a hex SHA-256 of the trimmed fields. Submissions that differ
// only in surrounding whitespace share a fingerprint.
func (c ContactSubmission) Fingerprint() string {
	t := c.Trimmed()
	sum := sha256.Sum256([]byte(t.Name + "\x00" + t.Email + "\x00" + t.Subject + "\x00" + t.Message))
	return hex.EncodeToString(sum[:])
}

// StoredMessage is one accepted submission as persisted by the message store.
//
// Fields:
//   - Name/Email/Subject/Message: the trimmed submission.
//   - Timestamp: submission time (RFC 3339, UTC, millisecond precision).
//   - IP: best-effort client address.
//   - SavedAt: persistence time, set by the store.
//   - ID: Unix milliseconds at persistence, set by the store.
//   - Filename: record identifier, added on read-back only.
type StoredMessage struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	IP        string `json:"ip"`
	SavedAt   string `json:"savedAt,omitempty"`
	ID        int64  `json:"id,omitempty"`
	Filename  string `json:"filename,omitempty"`
}

// TimestampLayout is the ISO-8601 form used for Timestamp and SavedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in TimestampLayout, always in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParsedTimestamp parses Timestamp. Unparseable values yield the zero time.
func (m StoredMessage) ParsedTimestamp() time.Time {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(m.Timestamp))
	if err != nil {
		return time.Time{}
	}
	return ts
}

// ContactDetails enumerates the independent sink outcomes of one accepted
// submission. EmailError is present only when a configured notifier failed.
type ContactDetails struct {
	Logged      bool   `json:"logged"`
	SavedToFile bool   `json:"savedToFile"`
	EmailSent   bool   `json:"emailSent"`
	EmailError  string `json:"emailError,omitempty"`
}

// ContactResult is the outcome of an accepted submission.
type ContactResult struct {
	Record  StoredMessage
	Details ContactDetails
}
