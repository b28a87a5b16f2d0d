package server

import (
	"context"
	"net/http"

	"github.com/Nairolf13/Frimousse-sub002/internal/billingrun"
	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	invoicedomain "github.com/Nairolf13/Frimousse-sub002/internal/invoice/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(RunHTTP),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type ServerParam struct {
	fx.In

	Log      *zap.Logger
	Engine   *gin.Engine
	Runner   *billingrun.Runner
	Invoices invoicedomain.Service
	Ledger   LedgerHandlerDeps
}

type Server struct {
	log      *zap.Logger
	engine   *gin.Engine
	runner   *billingrun.Runner
	invoices invoicedomain.Service
	ledger   LedgerHandlerDeps
}

func NewServer(p ServerParam) *Server {
	return &Server{
		log:      p.Log.Named("http"),
		engine:   p.Engine,
		runner:   p.Runner,
		invoices: p.Invoices,
		ledger:   p.Ledger,
	}
}

func RegisterRoutes(s *Server) {
	api := s.engine.Group("/api")
	api.POST("/billing/runs", s.triggerRun)
	api.GET("/payment-histories/:id", s.getPaymentHistory)
	api.GET("/payment-histories/:id/invoice.pdf", s.downloadInvoice)
	api.PUT("/payment-histories/:id/paid", s.setPaid)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
