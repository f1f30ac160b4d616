package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/portfolio-backend/internal/domain"
	"github.com/tbourn/portfolio-backend/internal/utils"
)

// MessagesResponse lists stored submissions, newest first.
type MessagesResponse struct {
	Success  bool                   `json:"success" example:"true"`
	Count    int                    `json:"count" example:"2"`
	Total    *int                   `json:"total,omitempty" example:"14"`
	Messages []domain.StoredMessage `json:"messages"`
}

// ListMessages godoc
// @Summary      List stored contact messages
// @Description  Returns every stored submission sorted newest first. Unreadable records are skipped. With ?limit only the newest N are returned and total carries the full count.
// @Tags         messages
// @Produce      json
// @Param        limit          query     int     false  "Maximum number of messages"
// @Param        If-None-Match  header    string  false  "ETag from a previous response"
// @Success      200            {object}  MessagesResponse
// @Success      304            "Not Modified"
// @Failure      400            {object}  ErrorResponse
// @Failure      500            {object}  ErrorResponse
// @Router       /messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	limit, err := utils.ParseLimit(c.Query("limit"), h.MaxListLimit)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidLimit, MsgInvalidLimit)
		return
	}

	etag, err := h.Messages.ETag(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, MsgListFailed, err)
		return
	}
	if notModified(c, etag) {
		return
	}

	msgs, total, err := h.Messages.List(ctx, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, MsgListFailed, err)
		return
	}
	if msgs == nil {
		msgs = []domain.StoredMessage{}
	}

	resp := MessagesResponse{Success: true, Count: len(msgs), Messages: msgs}
	if limit > 0 {
		resp.Total = &total
	}
	ok(c, http.StatusOK, resp)
}
