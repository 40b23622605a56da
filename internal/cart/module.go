// Package cart provides the shopping cart bounded context module.
package cart

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/handler"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/service"
	apphttp "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/http"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

// Module is the cart bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the cart module.
func NewModule(pool *pgxpool.Pool, products service.ProductChecker, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, products, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "cart"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module wiring.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts cart routes. Carts work for guests and users, so
// everything lives on the public group; ownership comes from the identity.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Public.Group("/cart")
	group.GET("", m.handler.Get)
	group.POST("/lines", m.handler.AddLine)
	group.PUT("/lines/:id", m.handler.SetQuantity)
	group.DELETE("", m.handler.Clear)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
