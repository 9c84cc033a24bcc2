package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/labsite/pkg/controllers"
	"github.com/sukryu/labsite/pkg/errors"
)

// ContentHandler serves the public site data.
type ContentHandler struct {
	content controllers.ContentController
}

func NewContentHandler(content controllers.ContentController) *ContentHandler {
	return &ContentHandler{content: content}
}

func (h *ContentHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.Error(errors.ErrInvalidInput.WithReason("limit must be an integer"))
			return
		}
		limit = n
	}

	items, err := h.content.List(c.Request.Context(), c.Param("collection"), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ContentHandler) Overview(c *gin.Context) {
	overview, err := h.content.Overview(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Contact accepts the contact form as JSON or as a form post.
func (h *ContentHandler) Contact(c *gin.Context) {
	var msg controllers.Message
	if err := c.ShouldBind(&msg); err != nil {
		c.Error(errors.ErrInvalidInput.WithReason(err.Error()))
		return
	}

	id, err := h.content.SubmitMessage(c.Request.Context(), msg)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":      id,
		"message": "Thank you for your message! We will get back to you soon.",
	})
}
