package api

import (
	"net/http"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /v1/articles
func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.services.Article.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// Get handles GET /v1/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.services.Article.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Create handles POST /v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var input models.ArticleInput
	if !bindJSON(c, &input) {
		return
	}

	article, err := h.services.Article.Create(c.Request.Context(), &input, callerFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// Update handles PUT /v1/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	var input models.ArticleInput
	if !bindJSON(c, &input) {
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), c.Param("id"), &input, callerFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.services.Article.Delete(c.Request.Context(), c.Param("id"), callerFrom(c)); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
