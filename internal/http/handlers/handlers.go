// Package handlers implements the HTTP endpoints of the portfolio API: the
// contact form, the stored-message read-back, and the project catalog.
//
// Handlers are transport-thin. They bind and shape requests, delegate to the
// services through small interfaces (so tests can stub them), and map
// service errors to the error envelope defined in response.go.
package handlers

import (
	"context"

	"github.com/tbourn/portfolio-backend/internal/domain"
	"github.com/tbourn/portfolio-backend/internal/services"
)

// ContactService runs the contact pipeline.
type ContactService interface {
	Submit(ctx context.Context, sub domain.ContactSubmission, meta services.SubmitMeta) (domain.ContactResult, error)
}

// MessageService reads stored submissions back.
type MessageService interface {
	List(ctx context.Context, limit int) ([]domain.StoredMessage, int, error)
	ETag(ctx context.Context) (string, error)
}

// CatalogService serves the static project catalog.
type CatalogService interface {
	Projects() services.Encoded
	Stats() services.Encoded
	Search(ctx context.Context, q string, limit int) ([]services.ProjectHit, error)
}

// IdempotencyStore persists replayable responses of keyed submissions.
type IdempotencyStore interface {
	Lookup(ctx context.Context, clientKey, route, key string) (*domain.Idempotency, error)
	Save(ctx context.Context, clientKey, route, key, requestHash string, status int, contentType string, body []byte) error
}

// Handlers aggregates the services used by the HTTP layer.
type Handlers struct {
	Contact  ContactService
	Messages MessageService
	Catalog  CatalogService
	Idem     IdempotencyStore // nil disables replay recording

	// MaxListLimit caps ?limit on GET /messages. Zero means no cap.
	MaxListLimit int
	// SearchLimit is the default ?limit on project search.
	SearchLimit int
}

// New constructs Handlers with the given dependencies.
func New(contact ContactService, msgs MessageService, catalog CatalogService, idem IdempotencyStore) *Handlers {
	return &Handlers{
		Contact:      contact,
		Messages:     msgs,
		Catalog:      catalog,
		Idem:         idem,
		MaxListLimit: 500,
		SearchLimit:  5,
	}
}
