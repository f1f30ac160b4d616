package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/portfolio-backend/internal/services"
	"github.com/tbourn/portfolio-backend/internal/utils"
)

// SearchResponse lists ranked project matches.
type SearchResponse struct {
	Query   string                `json:"query" example:"go api"`
	Count   int                   `json:"count" example:"1"`
	Results []services.ProjectHit `json:"results"`
}

// ListProjects godoc
// @Summary      List portfolio projects
// @Tags         catalog
// @Produce      json
// @Param        If-None-Match  header  string  false  "ETag from a previous response"
// @Success      200  {array}   domain.Project
// @Success      304  "Not Modified"
// @Router       /projects [get]
func (h *Handlers) ListProjects(c *gin.Context) {
	serveEncoded(c, h.Catalog.Projects())
}

// GetStats godoc
// @Summary      Portfolio statistics
// @Tags         catalog
// @Produce      json
// @Param        If-None-Match  header  string  false  "ETag from a previous response"
// @Success      200  {object}  domain.Stats
// @Success      304  "Not Modified"
// @Router       /stats [get]
func (h *Handlers) GetStats(c *gin.Context) {
	serveEncoded(c, h.Catalog.Stats())
}

// SearchProjects godoc
// @Summary      Search projects
// @Description  Ranks projects by token overlap with q over title, description, category and technologies.
// @Tags         catalog
// @Produce      json
// @Param        q      query     string  true   "Search text"
// @Param        limit  query     int     false  "Maximum number of results (default 5)"
// @Success      200    {object}  SearchResponse
// @Failure      400    {object}  ErrorResponse
// @Router       /projects/search [get]
func (h *Handlers) SearchProjects(c *gin.Context) {
	q := c.Query("q")
	limit := utils.AtoiDefault(c.Query("limit"), h.SearchLimit)
	if limit <= 0 {
		limit = h.SearchLimit
	}

	hits, err := h.Catalog.Search(c.Request.Context(), q, limit)
	if errors.Is(err, services.ErrEmptyQuery) {
		fail(c, http.StatusBadRequest, ErrCodeEmptyQuery, MsgEmptyQuery)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, MsgInternal, err)
		return
	}
	ok(c, http.StatusOK, SearchResponse{Query: q, Count: len(hits), Results: hits})
}

// serveEncoded writes a pre-encoded catalog body, honoring If-None-Match.
func serveEncoded(c *gin.Context, e services.Encoded) {
	if notModified(c, e.ETag) {
		return
	}
	c.Data(http.StatusOK, contentTypeJSON, e.Body)
}
