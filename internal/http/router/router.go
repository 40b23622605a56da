// Package router builds the Gin engine, shared middleware, and route
// groups, then lets each domain module register its own routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apphttp "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/http"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/httpkit"
)

// New assembles the engine: recovery, CORS, request logging, per-IP rate
// limiting, guest session capture, and token authentication, then the
// public, authenticated, and staff groups the modules mount on.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware(app))
	engine.Use(httpkit.RequestLogger(app.Logger))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(20), 60, app.Logger)
	engine.Use(limiter.RateLimit())

	engine.GET("/api/health", func(c *gin.Context) {
		if err := app.Health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := engine.Group("/api/v1")
	public.Use(httpkit.GuestSession())
	public.Use(httpkit.Authenticate(app.Config))

	authed := public.Group("")
	authed.Use(httpkit.AuthRequired())

	staff := authed.Group("/admin")
	staff.Use(httpkit.StaffRequired())

	ctx := &apphttp.RouterContext{
		Engine: engine,
		Public: public,
		Authed: authed,
		Staff:  staff,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Info("module routes registered", "module", module.Name())
	}

	return engine
}

func corsMiddleware(app *apphttp.App) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.SessionHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if app.Config.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = app.Config.GetCORSOrigins()
	}
	return cors.New(corsCfg)
}
