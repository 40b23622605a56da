// Package orders provides the checkout and order management bounded
// context module.
package orders

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/http"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/handler"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/service"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the orders module. The collaborators
// come from the other bounded contexts through adapters.
func NewModule(
	pool *pgxpool.Pool,
	carts service.CartStore,
	stock service.StockLedger,
	quotes service.QuoteStamper,
	emails service.EmailReader,
	notifier service.Notifier,
	invoices service.InvoiceGenerator,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, pool, carts, stock, quotes, emails, notifier, invoices, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// RegisterRoutes mounts order routes. Checkout and order history need an
// account; listing everything and moving statuses is staff workflow.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authed := ctx.Authed.Group("/orders")
	authed.POST("/checkout", m.handler.Checkout)
	authed.GET("", m.handler.ListMine)
	authed.GET("/:number", m.handler.Get)

	staffGroup := ctx.Staff.Group("/orders")
	staffGroup.GET("", m.handler.List)
	staffGroup.PUT("/:number/status", m.handler.UpdateStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
