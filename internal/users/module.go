// Package users provides the accounts bounded context module.
package users

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/http"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/handler"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/service"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/config"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

// Module is the users bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the users module.
func NewModule(pool *pgxpool.Pool, carts service.CartMerger, cfg config.JWTConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, carts, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module wiring.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts account routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/auth/register", m.handler.Register)
	ctx.Public.POST("/auth/login", m.handler.Login)
	ctx.Authed.GET("/auth/me", m.handler.Me)
	ctx.Authed.PUT("/auth/password", m.handler.ChangePassword)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
