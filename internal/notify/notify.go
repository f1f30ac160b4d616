// Package notify delivers best-effort email notifications for accepted
// contact submissions. Delivery failures are returned to the caller as
// errors and never retried.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/tbourn/portfolio-backend/internal/domain"
)

// ErrNotConfigured is returned by constructors when credentials are missing.
var ErrNotConfigured = errors.New("notifier not configured")

// Notification is the input of one delivery.
type Notification struct {
	Record      domain.StoredMessage
	SavedToFile bool
	ReceivedAt  time.Time
}

// Notifier sends a notification to an external relay.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify calls f(ctx, n).
func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }
