package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/portfolio-backend/internal/domain"
	"github.com/tbourn/portfolio-backend/internal/observability"
	"github.com/tbourn/portfolio-backend/internal/repo"
)

const messageTracer = "services/MessageService"

// MessageReader lists stored records and summarizes the store for
// conditional responses.
type MessageReader interface {
	List(ctx context.Context) ([]domain.StoredMessage, []repo.SkippedRecord, error)
	Stats(ctx context.Context) (int64, *time.Time, error)
}

// MessageService serves the read-back of stored contact messages.
type MessageService struct {
	Store MessageReader
}

// List parses every stored record, newest first by submission timestamp.
// Records with equal timestamps keep directory order; unparseable timestamps
// sort last. A positive limit keeps only the newest limit records; total is
// the number of records parsed before the limit.
func (s *MessageService) List(ctx context.Context, limit int) (msgs []domain.StoredMessage, total int, err error) {
	ctx, span := observability.StartSpan(ctx, messageTracer, "List",
		attribute.Int("limit", limit),
	)
	defer span.End()

	msgs, skipped, err := s.Store.List(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, 0, err
	}
	log := zerolog.Ctx(ctx)
	for _, sk := range skipped {
		log.Warn().Err(sk.Err).Str("filename", sk.Filename).Msg("skipping unreadable message record")
	}

	SortNewestFirst(msgs)

	total = len(msgs)
	if limit > 0 && limit < total {
		msgs = msgs[:limit]
	}
	span.SetAttributes(
		attribute.Int("messages.total", total),
		attribute.Int("messages.skipped", len(skipped)),
	)
	return msgs, total, nil
}

// ETag returns a weak validator for the current directory contents, or ""
// when the store is empty.
func (s *MessageService) ETag(ctx context.Context) (string, error) {
	count, latest, err := s.Store.Stats(ctx)
	if err != nil {
		return "", err
	}
	if count == 0 || latest == nil {
		return "", nil
	}
	return fmt.Sprintf(`W/"messages:%d:%d"`, count, latest.UnixNano()), nil
}

// SortNewestFirst orders msgs by parsed timestamp, descending and stable.
func SortNewestFirst(msgs []domain.StoredMessage) {
	keys := make([]time.Time, len(msgs))
	for i := range msgs {
		keys[i] = msgs[i].ParsedTimestamp()
	}
	sort.Stable(byTimestampDesc{msgs: msgs, keys: keys})
}

type byTimestampDesc struct {
	msgs []domain.StoredMessage
	keys []time.Time
}

func (b byTimestampDesc) Len() int { return len(b.msgs) }

func (b byTimestampDesc) Less(i, j int) bool { return b.keys[i].After(b.keys[j]) }

func (b byTimestampDesc) Swap(i, j int) {
	b.msgs[i], b.msgs[j] = b.msgs[j], b.msgs[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
