// Package quotes provides the quote request bounded context module.
package quotes

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/http"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/handler"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/service"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

// Module is the quotes bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the quotes module. The collaborators
// come from the other bounded contexts through adapters.
func NewModule(
	pool *pgxpool.Pool,
	accounts service.AccountProvisioner,
	catalog service.CatalogWriter,
	carts service.CartWriter,
	images service.ImageFinder,
	notifier service.Notifier,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, pool, accounts, catalog, carts, images, notifier, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module wiring.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts quote routes. Submitting a quote is public;
// everything else is staff workflow.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/quotes", m.handler.Create)

	staffGroup := ctx.Staff.Group("/quotes")
	staffGroup.GET("", m.handler.List)
	staffGroup.GET("/:id", m.handler.Get)
	staffGroup.PUT("/:id/price", m.handler.SetPrice)
	staffGroup.POST("/:id/convert", m.handler.Convert)
	staffGroup.DELETE("/:id", m.handler.Cancel)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
