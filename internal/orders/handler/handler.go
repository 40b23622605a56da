// Package handler exposes order endpoints over HTTP.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/service"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/httpkit"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Checkout places an order from the caller's cart.
func (h *Handler) Checkout(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	var req transport.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, err.Error(), nil)
		return
	}

	resp, err := h.svc.Checkout(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// Get returns one order by number.
func (h *Handler) Get(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), c.Param("number"), userID, httpkit.GetIdentity(c).IsStaff())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ListMine returns the caller's orders.
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.svc.ListMine(c.Request.Context(), userID, limitParam(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// List returns orders for staff, optionally filtered by status.
func (h *Handler) List(c *gin.Context) {
	resp, err := h.svc.ListAll(c.Request.Context(), c.Query("status"), limitParam(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// UpdateStatus moves an order through its lifecycle.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, 400, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, 400, err.Error(), nil)
		return
	}

	resp, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("number"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func limitParam(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return limit
}
