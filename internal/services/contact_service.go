package services

import (
	"context"
	"errors"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/portfolio-backend/internal/domain"
	"github.com/tbourn/portfolio-backend/internal/notify"
	"github.com/tbourn/portfolio-backend/internal/observability"
)

const (
	contactTracer = "services/ContactService"

	// maxLoggedUserAgent bounds the user agent written to the submission log.
	maxLoggedUserAgent = 50
	// maxLoggedMessage bounds the message body written to the submission log.
	maxLoggedMessage = 500
)

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MessageSaver persists one accepted submission and returns its identifier.
type MessageSaver interface {
	Save(ctx context.Context, msg domain.StoredMessage) (string, error)
}

// SubmitMeta carries request facts that are not part of the submission.
type SubmitMeta struct {
	IP        string
	UserAgent string
}

// ContactService runs the contact pipeline: validation, the submission log,
// the message store and the optional notifier. Store and notifier outcomes
// are independent and never fail an accepted submission.
type ContactService struct {
	Store    MessageSaver
	Notifier notify.Notifier // nil when mail is not configured
	Metrics  *observability.ContactMetrics
	Now      func() time.Time
}

func (s *ContactService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Validate trims sub and checks that every field is present and that the
// email is well formed. Fields are checked in form order.
func (s *ContactService) Validate(sub domain.ContactSubmission) (domain.ContactSubmission, error) {
	t := sub.Trimmed()
	for _, f := range []struct{ name, value string }{
		{"name", t.Name},
		{"email", t.Email},
		{"subject", t.Subject},
		{"message", t.Message},
	} {
		if f.value == "" {
			return t, &ValidationError{Field: f.name, Err: ErrMissingField}
		}
	}
	if !emailRE.MatchString(t.Email) {
		return t, &ValidationError{Field: "email", Err: ErrInvalidEmail}
	}
	return t, nil
}

// Submit validates sub and, when valid, fans it out to the sinks. The only
// error returned is a *ValidationError; sink failures are reported in the
// result details.
func (s *ContactService) Submit(ctx context.Context, sub domain.ContactSubmission, meta SubmitMeta) (domain.ContactResult, error) {
	ctx, span := observability.StartSpan(ctx, contactTracer, "Submit",
		attribute.String("client.ip", meta.IP),
	)
	defer span.End()

	clean, err := s.Validate(sub)
	if err != nil {
		s.Metrics.Submission(observability.OutcomeRejected)
		var ve *ValidationError
		if errors.As(err, &ve) {
			span.SetAttributes(attribute.String("contact.invalid_field", ve.Field))
		}
		return domain.ContactResult{}, err
	}
	s.Metrics.Submission(observability.OutcomeAccepted)

	received := s.now()
	rec := domain.StoredMessage{
		Name:      clean.Name,
		Email:     clean.Email,
		Subject:   clean.Subject,
		Message:   clean.Message,
		Timestamp: domain.FormatTimestamp(received),
		IP:        meta.IP,
	}

	log := zerolog.Ctx(ctx)
	log.Info().
		Str("event", "contact_submission").
		Str("name", rec.Name).
		Str("email", rec.Email).
		Str("subject", rec.Subject).
		Str("message", truncate(rec.Message, maxLoggedMessage)).
		Str("ip", rec.IP).
		Str("user_agent", truncate(meta.UserAgent, maxLoggedUserAgent)).
		Str("timestamp", rec.Timestamp).
		Msg("contact_submission")

	res := domain.ContactResult{
		Record:  rec,
		Details: domain.ContactDetails{Logged: true},
	}

	// Sinks outlive a disconnected client.
	sinkCtx := context.WithoutCancel(ctx)

	res.Details.SavedToFile = s.save(sinkCtx, rec)
	res.Details.EmailSent, res.Details.EmailError = s.notify(sinkCtx, rec, res.Details.SavedToFile, received)

	span.SetAttributes(
		attribute.Bool("contact.saved_to_file", res.Details.SavedToFile),
		attribute.Bool("contact.email_sent", res.Details.EmailSent),
	)
	return res, nil
}

func (s *ContactService) save(ctx context.Context, rec domain.StoredMessage) bool {
	ctx, span := observability.StartSpan(ctx, contactTracer, "save")
	defer span.End()

	if s.Store == nil {
		s.Metrics.Sink(observability.SinkFile, observability.ResultSkipped)
		return false
	}
	filename, err := s.Store.Save(ctx, rec)
	if err != nil {
		observability.RecordError(span, err)
		s.Metrics.Sink(observability.SinkFile, observability.ResultError)
		zerolog.Ctx(ctx).Error().Err(err).Str("email", rec.Email).Msg("failed to save contact message")
		return false
	}
	s.Metrics.Sink(observability.SinkFile, observability.ResultOK)
	zerolog.Ctx(ctx).Info().Str("filename", filename).Msg("contact message saved")
	return true
}

func (s *ContactService) notify(ctx context.Context, rec domain.StoredMessage, saved bool, received time.Time) (bool, string) {
	if s.Notifier == nil {
		s.Metrics.Sink(observability.SinkEmail, observability.ResultSkipped)
		return false, ""
	}
	ctx, span := observability.StartSpan(ctx, contactTracer, "notify")
	defer span.End()

	err := s.Notifier.Notify(ctx, notify.Notification{
		Record:      rec,
		SavedToFile: saved,
		ReceivedAt:  received,
	})
	if err != nil {
		observability.RecordError(span, err)
		s.Metrics.Sink(observability.SinkEmail, observability.ResultError)
		zerolog.Ctx(ctx).Warn().Err(err).Str("email", rec.Email).Msg("failed to send contact notification")
		return false, err.Error()
	}
	s.Metrics.Sink(observability.SinkEmail, observability.ResultOK)
	return true, ""
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
