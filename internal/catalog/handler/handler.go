package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog/service"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/httpkit"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid product id"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListStorefront returns the public product listing.
func (h *Handler) ListStorefront(c *gin.Context) {
	items, err := h.svc.ListStorefront(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}

// GetProduct returns one product of either kind.
func (h *Handler) GetProduct(c *gin.Context) {
	kind := transport.Kind(c.Param("kind"))
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	item, err := h.svc.GetProduct(c.Request.Context(), kind, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, item)
}

// CreateCategory creates a catalog category (staff).
func (h *Handler) CreateCategory(c *gin.Context) {
	var req transport.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	cat, err := h.svc.CreateCategory(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, cat)
}

// ListCategories lists all categories (staff).
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.svc.ListCategories(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": cats})
}

// CreateFabricatedItem creates a fabricated item (staff).
func (h *Handler) CreateFabricatedItem(c *gin.Context) {
	var req transport.CreateFabricatedItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	item, err := h.svc.CreateFabricatedItem(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, item)
}

// CreateStockedItem creates a stocked item (staff).
func (h *Handler) CreateStockedItem(c *gin.Context) {
	var req transport.CreateStockedItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	item, err := h.svc.CreateStockedItem(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, item)
}

// UpdateFabricatedItem updates a fabricated item (staff).
func (h *Handler) UpdateFabricatedItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateFabricatedItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	item, err := h.svc.UpdateFabricatedItem(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, item)
}

// UpdateStockedItem updates a stocked item (staff).
func (h *Handler) UpdateStockedItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateStockedItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	item, err := h.svc.UpdateStockedItem(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, item)
}

// Deactivate soft-deletes a product (staff).
func (h *Handler) Deactivate(c *gin.Context) {
	kind := transport.Kind(c.Param("kind"))
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Deactivate(c.Request.Context(), kind, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}
