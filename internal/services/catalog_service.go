package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/portfolio-backend/internal/domain"
	"github.com/tbourn/portfolio-backend/internal/observability"
	"github.com/tbourn/portfolio-backend/internal/search"
)

const catalogTracer = "services/CatalogService"

// Encoded is a pre-serialized JSON document with its strong ETag.
type Encoded struct {
	Body []byte
	ETag string
}

// CatalogService serves the immutable project catalog. Responses are encoded
// once at construction so repeated calls return identical bytes.
type CatalogService struct {
	projects Encoded
	stats    Encoded
	index    search.Index
}

// NewCatalogService validates c, pre-encodes the projects and stats
// documents, and builds the search index.
func NewCatalogService(c domain.Catalog) (*CatalogService, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Projects == nil {
		c.Projects = []domain.Project{}
	}
	projects, err := encode(c.Projects)
	if err != nil {
		return nil, fmt.Errorf("encode projects: %w", err)
	}
	stats, err := encode(c.Stats)
	if err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}
	return &CatalogService{
		projects: projects,
		stats:    stats,
		index:    search.NewProjectIndex(c.Projects, search.WithStopwords(search.DefaultStopwords)),
	}, nil
}

// Projects returns the encoded project list.
func (s *CatalogService) Projects() Encoded { return s.projects }

// Stats returns the encoded statistics record.
func (s *CatalogService) Stats() Encoded { return s.stats }

// ProjectHit is one search result.
type ProjectHit struct {
	domain.Project
	Score float64 `json:"score"`
}

// Search ranks projects against q. A non-positive limit returns every match.
func (s *CatalogService) Search(ctx context.Context, q string, limit int) ([]ProjectHit, error) {
	_, span := observability.StartSpan(ctx, catalogTracer, "Search",
		attribute.String("query", q),
		attribute.Int("limit", limit),
	)
	defer span.End()

	if strings.TrimSpace(q) == "" {
		return nil, ErrEmptyQuery
	}
	results := s.index.TopK(q, limit)
	hits := make([]ProjectHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, ProjectHit{Project: r.Project, Score: r.Score})
	}
	span.SetAttributes(attribute.Int("results", len(hits)))
	return hits, nil
}

func encode(v any) (Encoded, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Encoded{}, err
	}
	sum := sha256.Sum256(b)
	return Encoded{Body: b, ETag: `"` + hex.EncodeToString(sum[:16]) + `"`}, nil
}
