package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/labsite/pkg/controllers"
	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/store/schema"
)

// CollectionHandler is the JSON API over the schema-driven collections.
type CollectionHandler struct {
	collections controllers.CollectionController
}

func NewCollectionHandler(collections controllers.CollectionController) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

func (h *CollectionHandler) ListCollections(c *gin.Context) {
	registry := h.collections.Registry()
	out := make([]schema.Collection, 0, len(registry.Names()))
	for _, name := range registry.Names() {
		coll, _ := registry.Get(name)
		out = append(out, coll)
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	coll, err := h.collections.Collection(c.Param("collection"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, coll)
}

func (h *CollectionHandler) ListItems(c *gin.Context) {
	items, err := h.collections.List(c.Request.Context(), c.Param("collection"), nil)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CollectionHandler) GetItem(c *gin.Context) {
	item, err := h.collections.Get(c.Request.Context(), c.Param("collection"), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func bindValues(c *gin.Context) (map[string]interface{}, bool) {
	var values map[string]interface{}
	if err := c.ShouldBindJSON(&values); err != nil {
		c.Error(errors.ErrInvalidJSON.WithReason(err.Error()))
		return nil, false
	}
	return values, true
}

func (h *CollectionHandler) CreateItem(c *gin.Context) {
	values, ok := bindValues(c)
	if !ok {
		return
	}

	item, err := h.collections.Create(c.Request.Context(), c.Param("collection"), values)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CollectionHandler) UpdateItem(c *gin.Context) {
	values, ok := bindValues(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	name, id := c.Param("collection"), c.Param("id")
	if err := h.collections.Update(ctx, name, id, values); err != nil {
		c.Error(err)
		return
	}

	item, err := h.collections.Get(ctx, name, id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CollectionHandler) DeleteItem(c *gin.Context) {
	if err := h.collections.Delete(c.Request.Context(), c.Param("collection"), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setReadRequest struct {
	Read *bool `json:"read" binding:"required"`
}

func (h *CollectionHandler) SetRead(c *gin.Context) {
	var req setReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.ErrInvalidInput.WithReason(err.Error()))
		return
	}

	if err := h.collections.SetRead(c.Request.Context(), c.Param("collection"), c.Param("id"), *req.Read); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollectionHandler) UnreadCount(c *gin.Context) {
	n, err := h.collections.CountUnread(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}
