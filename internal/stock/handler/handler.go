package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/stock/service"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/stock/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/httpkit"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

// Handler handles HTTP requests for the stock ledger.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new stock handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Adjust applies a manual stock movement (staff).
func (h *Handler) Adjust(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	var req transport.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	actor, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	adj, err := h.svc.Adjust(c.Request.Context(), productID, req, actor.String())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, adj)
}

// History returns the ledger for a product (staff).
func (h *Handler) History(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.svc.History(c.Request.Context(), productID, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": entries})
}
