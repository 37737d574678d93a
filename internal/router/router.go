package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/psds-microservice/helpy/paths"
	"github.com/psds-microservice/ticket-reply-service/api"
	"github.com/psds-microservice/ticket-reply-service/internal/auth"
	"github.com/psds-microservice/ticket-reply-service/internal/handler"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps — всё, что нужно роутеру. DebugToken == nil отключает /debug-token.
type Deps struct {
	Tickets    *handler.TicketHandler
	Store      handler.Pinger
	DebugToken *auth.Authenticator
	Log        *slog.Logger
	Registry   *prometheus.Registry
}

func New(d Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestIDMiddleware())
	if d.Registry != nil {
		r.Use(NewMetrics(d.Registry).Middleware())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}
	if d.Log != nil {
		r.Use(handler.AccessLog(d.Log))
	}

	r.GET(paths.PathHealth, handler.Health)
	r.GET(paths.PathReady, handler.Ready(d.Store))
	r.GET(paths.PathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, paths.PathSwagger+"/") })
	r.GET(paths.PathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = paths.PathSwagger + "/index.html"
			c.Request.RequestURI = paths.PathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(paths.PathSwagger+"/openapi.json"))(c)
	})

	// the form client calls /api/*; the bare paths are kept for the bot and older links
	for _, g := range []*gin.RouterGroup{&r.RouterGroup, r.Group("/api")} {
		g.GET("/ticket", d.Tickets.Lookup)
		g.POST("/submit", d.Tickets.Submit)
		if d.DebugToken != nil {
			g.GET("/debug-token", handler.DebugToken(d.DebugToken))
		}
	}

	return r
}
