// Package stock provides the stock ledger bounded context module.
package stock

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/http"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/stock/handler"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/stock/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/stock/service"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

// Module is the stock bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the stock module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "stock"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module wiring.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts stock routes. The whole ledger is staff-only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Staff.Group("/stock")
	group.POST("/products/:id/adjustments", m.handler.Adjust)
	group.GET("/products/:id/adjustments", m.handler.History)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
