package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"upload-url-api/config"
	"upload-url-api/internal/application/ports"
	"upload-url-api/internal/application/services"
	"upload-url-api/internal/infrastructure/metrics"
	"upload-url-api/internal/infrastructure/minio"
	"upload-url-api/internal/infrastructure/mq"
	"upload-url-api/internal/infrastructure/s3"
	"upload-url-api/internal/interface/api/rest"
	"upload-url-api/internal/interface/api/rest/middleware"
	"upload-url-api/internal/interface/web"
)

type App struct {
	logger    *zap.Logger
	cfg       config.Config
	presigner ports.Presigner
	httpSrv   *http.Server
	router    *gin.Engine
	mCounter  *prometheus.CounterVec
	mq        ports.RabbitMQ
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// config
	if err = godotenv.Load(".env"); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Fatal("error loading .env file", zap.Error(err))
		}
		logger.Info("no .env file, using process environment")
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	r, err := newRouter(logger, cfg, mCounter)
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// s3
	presigner, err := newPresigner(ctx, logger, cfg.S3)
	if err != nil {
		logger.Fatal("failed to init S3 presigner", zap.Error(err))
	}

	app := &App{
		logger:    logger,
		cfg:       cfg,
		presigner: presigner,
		httpSrv:   httpSrv,
		router:    r,
		mCounter:  mCounter,
	}

	// rabbitMQ
	if !cfg.EventsEnabled() {
		logger.Info("RABBITMQ_HOST not set, upload events disabled")
		return app, nil
	}
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	app.mq = rbMQ

	return app, nil
}

func newPresigner(ctx context.Context, logger *zap.Logger, cfg config.S3) (ports.Presigner, error) {
	switch cfg.Provider {
	case config.ProviderMinio:
		return minio.New(logger, cfg)
	case config.ProviderAWS:
		return s3.New(ctx, logger, cfg)
	default:
		return nil, fmt.Errorf("unknown S3 provider %q", cfg.Provider)
	}
}

func newRouter(logger *zap.Logger, cfg config.Config, mCounter *prometheus.CounterVec) (*gin.Engine, error) {
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	tmpl, custom, err := web.LoadTemplate(cfg.App.ViewsDir)
	if err != nil {
		return nil, fmt.Errorf("landing template: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	logger.Info("landing template loaded", zap.Bool("custom", custom), zap.String("views_dir", cfg.App.ViewsDir))

	return r, nil
}

func (a *App) Close() {
	if a.mq != nil && a.mq.GetConn() != nil {
		a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name,
			zap.String("addr", a.httpSrv.Addr),
			zap.String("provider", a.presigner.Provider()),
			zap.String("bucket", a.presigner.GetBucket()),
		)
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	var events ports.EventPublisher
	if a.mq != nil {
		events = a.mq
	}

	registerRoutes(a.router, a.cfg, a.logger, a.mCounter, services.NewUploadURLService(a.presigner, events, a.mCounter))
}

func registerRoutes(
	r *gin.Engine,
	cfg config.Config,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
	uploadURLService ports.UploadURLService,
) {
	// api
	rest.NewUploadController(r, uploadURLService, logger, mCounter)

	// web
	landing := web.NewLanding(web.LandingData{
		AppName:        cfg.App.Name,
		APIKey:         cfg.App.LandingKey,
		UploadEndpoint: rest.RouteUpload,
	})
	r.GET(rest.RouteLanding, landing.Handle)
	r.HEAD(rest.RouteLanding, landing.Handle)
	r.NoRoute(web.NewStatic(cfg.App.PublicDir, cfg.App.StaticMaxAge).Handle)

	// ops
	r.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
