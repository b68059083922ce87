package http

import (
	"context"
	"errors"
	"fmt"
	gohttp "net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/routegraph/internal/aggregator"
	"github.com/hxuan190/routegraph/internal/config"
	"github.com/hxuan190/routegraph/internal/domain"
	"github.com/hxuan190/routegraph/internal/http/httputil"
	"github.com/hxuan190/routegraph/internal/http/middlewares"
)

const (
	API_VERSION  = "v1"
	HTTP_SERVICE = "http-service"
)

// GraphProvider is the part of the graph service the HTTP API needs.
type GraphProvider interface {
	GetRoute(start, end solana.PublicKey, opts *domain.SearchOptions) ([]domain.Route, error)
	GetRoutesForPairs(pairs []domain.TokenPair, opts *domain.SearchOptions) ([]domain.RouteSearchEntry, error)
	TokenEdges(mint solana.PublicKey) ([]domain.Edge, error)
	Stats() (aggregator.GraphStats, error)
	Refresh(ctx context.Context) error
}

type HTTPService struct {
	container.BaseDIInstance

	graphSvc    GraphProvider
	rateLimiter *middlewares.RateLimiter
	server      *gohttp.Server
	conf        *config.GeneralConfig

	handlers []httputil.IHttpHandler
}

func (svc *HTTPService) ID() string {
	return HTTP_SERVICE
}

func (svc *HTTPService) Configure(c container.IContainer) error {
	svc.conf = c.GetConfig(config.GENERAL_CONFIG_KEY).(*config.GeneralConfig)
	if svc.conf == nil {
		return errors.New("invalid server config")
	}

	svc.graphSvc = c.Instance(aggregator.GRAPH_SERVICE).(*aggregator.Service)
	svc.rateLimiter = middlewares.NewRateLimiter(10, 20)
	svc.handlers = defaultHandlers(svc.graphSvc)
	return nil
}

func (svc *HTTPService) Start() error {
	if svc.conf.Env != config.DevEnv {
		gin.SetMode(gin.ReleaseMode)
	}

	svc.server = &gohttp.Server{
		Addr:              svc.conf.Addr(),
		Handler:           NewEngine(svc.conf, svc.rateLimiter, svc.handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("host", svc.conf.HTTPHost).Str("port", svc.conf.HTTPPort).Msg("http server started")

	go func() {
		if err := svc.server.ListenAndServe(); err != nil && !errors.Is(err, gohttp.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped unexpectedly")
		}
	}()
	return nil
}

func (svc *HTTPService) Stop() error {
	if svc.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to stop http server")
		return err
	}
	log.Info().Msg("http server stopped gracefully")
	return nil
}

func defaultHandlers(graphSvc GraphProvider) []httputil.IHttpHandler {
	return []httputil.IHttpHandler{
		NewRouteHandler(graphSvc),
		NewPoolHandler(graphSvc),
		NewTokenHandler(graphSvc),
		NewGraphAdminHandler(graphSvc),
	}
}

// NewEngine assembles the gin engine with middlewares, health and metrics
// endpoints and every handler mounted under /api/v1.
func NewEngine(conf *config.GeneralConfig, rateLimiter *middlewares.RateLimiter, handlers []httputil.IHttpHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestIDMiddleware())

	corsConf := cors.DefaultConfig()
	corsConf.AllowAllOrigins = true
	corsConf.AddAllowHeaders(middlewares.RequestIDHeader)
	corsConf.AddExposeHeaders(middlewares.RequestIDHeader)
	r.Use(cors.New(corsConf))

	r.Use(middlewares.MetricsMiddleware())
	if rateLimiter != nil {
		r.Use(rateLimiter.RateLimitMiddleware())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(gohttp.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("api")
	pub := api.Group(API_VERSION)
	priv := api.Group(API_VERSION)
	admin := api.Group(fmt.Sprintf("%s/admin", API_VERSION), middlewares.AdminAuthMiddleware(conf.AdminToken))

	for _, h := range handlers {
		h.SetRoutes(pub.Group(h.Root()), priv.Group(h.Root()), admin.Group(h.Root()))
	}
	return r
}

// writeGraphError maps graph service errors onto the response envelope.
func writeGraphError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, aggregator.ErrGraphNotReady):
		httputil.ServiceUnavailable(c, err.Error())
		return
	case errors.Is(err, aggregator.ErrUnknownToken):
		httputil.NotFound(c, err.Error())
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("[HTTP] graph request failed")
	httputil.InternalError(c, "internal error")
}
