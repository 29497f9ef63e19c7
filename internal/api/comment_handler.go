package api

import (
	"net/http"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// List handles GET /v1/comments
func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.services.Comment.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Get handles GET /v1/comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	comment, err := h.services.Comment.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Create handles POST /v1/comments. Open to anonymous callers, who must
// then name themselves in the payload.
func (h *CommentHandler) Create(c *gin.Context) {
	var input models.CommentInput
	if !bindJSON(c, &input) {
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), &input, callerFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update handles PUT /v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	var input models.CommentInput
	if !bindJSON(c, &input) {
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), c.Param("id"), &input, callerFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.services.Comment.Delete(c.Request.Context(), c.Param("id"), callerFrom(c)); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
