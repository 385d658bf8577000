package apiserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/eliteshop/storefront/internal/apiserver/handler"
	"github.com/eliteshop/storefront/internal/apiserver/middleware"
	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/common/config"
	"github.com/eliteshop/storefront/internal/common/errorx"
	"github.com/eliteshop/storefront/internal/i18n"
	"github.com/eliteshop/storefront/internal/service"
	"github.com/eliteshop/storefront/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Deps collects what the HTTP surface needs. Metrics and I18n are optional.
type Deps struct {
	Config  *config.ShopConfig
	Logger  *zap.Logger
	Service *service.Service
	Metrics *metrics.Metrics
	I18n    *i18n.I18n
}

// Server is the storefront HTTP API
type Server struct {
	logger *zap.Logger
	engine *gin.Engine
	srv    *http.Server
}

func New(d Deps) *Server {
	engine := NewRouter(d)
	return &Server{
		logger: d.Logger,
		engine: engine,
		srv: &http.Server{
			Addr:         d.Config.Server.Addr,
			Handler:      engine,
			ReadTimeout:  d.Config.Server.ReadTimeout,
			WriteTimeout: d.Config.Server.WriteTimeout,
		},
	}
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

// NewRouter wires middleware and routes
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	eh := errorx.NewErrorHandler(d.Logger, d.I18n)
	h := handler.New(d.Service, eh, d.I18n, d.Logger)
	limiter := middleware.NewRateLimiterFromConfig(cfg.Auth.RateLimit)

	r := gin.New()
	r.Use(eh.RecoveryMiddleware())
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cnst.AppName))
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	if len(cfg.Server.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg.Server)))
	}
	if d.I18n != nil {
		r.Use(d.I18n.Middleware())
	}
	r.Use(eh.ErrorMiddleware())
	r.NoRoute(eh.NotFoundHandler())

	r.GET("/healthz", h.Healthz)
	if d.Metrics != nil && cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.Use(middleware.ClientScope(d.Service.Store(), cfg.Server.ClientCookie, cfg.Server.SecureCookie))
	{
		api.GET("/storefront", h.Storefront)
		api.GET("/products", h.Catalog)
		api.POST("/quote", h.Quote)
		api.GET("/payment-info", h.PaymentInfo)

		auth := api.Group("/auth")
		auth.POST("/signup", limiter.Middleware(eh), h.SignUp)
		auth.POST("/login", limiter.Middleware(eh), h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)

		user := api.Group("", middleware.RequireUser(d.Service, eh))
		user.GET("/orders", h.MyOrders)
		user.POST("/orders", h.PlaceOrder)
		user.POST("/admin/unlock", limiter.Middleware(eh), h.UnlockAdmin)

		admin := api.Group("/admin", middleware.RequireUser(d.Service, eh), middleware.RequireAdmin(d.Service, eh))
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/role", h.UpdateUserRole)

		admin.GET("/products", h.ListProducts)
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.POST("/products/:id/toggle", h.ToggleProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)

		admin.GET("/orders", h.AllOrders)
		admin.GET("/orders/export", h.ExportOrders)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)

		admin.GET("/events", h.ListEvents)
		admin.POST("/events", h.BroadcastEvent)
		admin.POST("/events/:id/toggle", h.ToggleEvent)
		admin.DELETE("/events/:id", h.DeleteEvent)

		admin.PUT("/settings", h.UpdateSettings)
	}

	return r
}

// corsConfig admits the configured origins only. Without any the API is
// same-origin and no CORS headers are sent.
func corsConfig(cfg config.ServerConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = cfg.AllowOrigins
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", cnst.XLang, "Accept-Language"}
	c.ExposeHeaders = []string{"Content-Disposition", "Content-Language"}
	c.AllowCredentials = true
	return c
}
