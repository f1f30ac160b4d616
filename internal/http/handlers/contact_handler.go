package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/portfolio-backend/internal/domain"
	"github.com/tbourn/portfolio-backend/internal/http/middleware"
	"github.com/tbourn/portfolio-backend/internal/services"
)

// ContactResponse is the body of an accepted submission.
type ContactResponse struct {
	Success bool                  `json:"success" example:"true"`
	Message string                `json:"message" example:"Message envoyé avec succès! Je vous répondrai rapidement."`
	Details domain.ContactDetails `json:"details"`
}

// SubmitContact godoc
// @Summary      Submit the contact form
// @Description  Validates the submission, logs it, stores it as a JSON file and emails it when a mail relay is configured. Sink failures are reported in details; the request still succeeds.
// @Tags         contact
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        Idempotency-Key  header    string                    false  "Replay key for safe retries"
// @Param        body             body      domain.ContactSubmission  true   "Contact form"
// @Success      200              {object}  ContactResponse
// @Failure      400              {object}  ErrorResponse
// @Failure      413              {object}  ErrorResponse
// @Failure      422              {object}  ErrorResponse  "Idempotency-Key reused with a different message"
// @Failure      429              {object}  ErrorResponse
// @Failure      500              {object}  ErrorResponse
// @Router       /contact [post]
func (h *Handlers) SubmitContact(c *gin.Context) {
	ctx := c.Request.Context()

	key, hasKey := middleware.GetIdempotencyKey(c)
	clientKey := middleware.ClientKey(c)
	route := middleware.RouteKey(c)

	var sub domain.ContactSubmission
	if err := c.ShouldBind(&sub); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, MsgBodyTooLarge)
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgBadBody)
		return
	}
	fingerprint := sub.Fingerprint()

	if hasKey && middleware.IsReplay(c) && h.Idem != nil {
		rec, err := h.Idem.Lookup(ctx, clientKey, route, key)
		if err == nil && rec != nil {
			if !rec.Matches(fingerprint) {
				fail(c, http.StatusUnprocessableEntity, ErrCodeIdemReused, MsgIdemKeyReused)
				return
			}
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			c.Data(rec.Status, rec.ContentType, rec.Body)
			return
		}
		// Expired between middleware and handler: run the submission again.
	}

	res, err := h.Contact.Submit(ctx, sub, services.SubmitMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve) && errors.Is(err, services.ErrInvalidEmail):
			fail(c, http.StatusBadRequest, ErrCodeValidation, MsgInvalidEmail)
		case errors.As(err, &ve):
			fail(c, http.StatusBadRequest, ErrCodeValidation, MsgMissingFields)
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSubmitFailed, MsgSubmitFailed, err)
		}
		return
	}

	body, err := json.Marshal(ContactResponse{
		Success: true,
		Message: MsgContactAccepted,
		Details: res.Details,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeSubmitFailed, MsgSubmitFailed, err)
		return
	}

	if hasKey && h.Idem != nil {
		if err := h.Idem.Save(ctx, clientKey, route, key, fingerprint, http.StatusOK, contentTypeJSON, body); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency save failed")
		}
	}

	c.Data(http.StatusOK, contentTypeJSON, body)
}
