// Package catalog provides the product catalog bounded context module.
package catalog

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog/handler"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog/service"
	apphttp "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/http"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
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
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module wiring.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/catalog/products", m.handler.ListStorefront)
	ctx.Public.GET("/catalog/products/:kind/:id", m.handler.GetProduct)

	staffGroup := ctx.Staff.Group("/catalog")
	staffGroup.GET("/categories", m.handler.ListCategories)
	staffGroup.POST("/categories", m.handler.CreateCategory)
	staffGroup.POST("/products/fabricated", m.handler.CreateFabricatedItem)
	staffGroup.POST("/products/stocked", m.handler.CreateStockedItem)
	staffGroup.PUT("/products/fabricated/:id", m.handler.UpdateFabricatedItem)
	staffGroup.PUT("/products/stocked/:id", m.handler.UpdateStockedItem)
	staffGroup.DELETE("/products/:kind/:id", m.handler.Deactivate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
