package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/service"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/httpkit"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

// Handler handles HTTP requests for accounts.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new users handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Register creates an account and returns an access token.
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	sessionID := httpkit.GetIdentity(c).SessionID()
	tokens, err := h.svc.Register(c.Request.Context(), req, sessionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, tokens)
}

// Login verifies credentials and returns an access token. Any guest cart
// carried in the session header merges into the account's cart.
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	sessionID := httpkit.GetIdentity(c).SessionID()
	tokens, err := h.svc.Login(c.Request.Context(), req, sessionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, tokens)
}

// ChangePassword replaces the caller's password after verifying the
// current one.
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	var req transport.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if httpkit.HandleError(c, h.svc.ChangePassword(c.Request.Context(), userID, req)) {
		return
	}
	httpkit.NoContent(c)
}

// Me returns the caller's account.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.svc.Me(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, user)
}
