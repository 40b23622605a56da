package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/service"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/httpkit"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

// Handler handles HTTP requests for carts.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new cart handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// owner resolves the cart owner from the request identity. Authenticated
// users act on their user cart; guests need the session header.
func owner(c *gin.Context) (repository.Owner, bool) {
	id := httpkit.GetIdentity(c)
	if id.IsAuthenticated() {
		return repository.UserOwner(id.UserID()), true
	}
	if sid := id.SessionID(); sid != "" {
		return repository.SessionOwner(sid), true
	}
	httpkit.Error(c, http.StatusBadRequest, "missing session", nil)
	return repository.Owner{}, false
}

// Get returns the caller's cart.
func (h *Handler) Get(c *gin.Context) {
	own, ok := owner(c)
	if !ok {
		return
	}

	cart, err := h.svc.Get(c.Request.Context(), own)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, cart)
}

// AddLine adds a product to the caller's cart.
func (h *Handler) AddLine(c *gin.Context) {
	own, ok := owner(c)
	if !ok {
		return
	}

	var req transport.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	cart, err := h.svc.Add(c.Request.Context(), own, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, cart)
}

// SetQuantity changes a line's quantity; zero removes the line.
func (h *Handler) SetQuantity(c *gin.Context) {
	own, ok := owner(c)
	if !ok {
		return
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid line id", nil)
		return
	}

	var req transport.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	cart, err := h.svc.SetQuantity(c.Request.Context(), own, lineID, req.Quantity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, cart)
}

// Clear empties the caller's cart.
func (h *Handler) Clear(c *gin.Context) {
	own, ok := owner(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Clear(c.Request.Context(), own)) {
		return
	}
	c.Status(http.StatusNoContent)
}
