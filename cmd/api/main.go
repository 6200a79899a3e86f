package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hillview-school/school-cms/api/controllers"
	"github.com/hillview-school/school-cms/api/responses"
	"github.com/hillview-school/school-cms/api/routes"
	"github.com/hillview-school/school-cms/internal/admins"
	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/assignments"
	"github.com/hillview-school/school-cms/internal/careers"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/internal/council"
	"github.com/hillview-school/school-cms/internal/documents"
	"github.com/hillview-school/school-cms/internal/events"
	"github.com/hillview-school/school-cms/internal/galleries"
	"github.com/hillview-school/school-cms/internal/news"
	"github.com/hillview-school/school-cms/internal/resources"
	"github.com/hillview-school/school-cms/internal/search"
	"github.com/hillview-school/school-cms/internal/staff"
	"github.com/hillview-school/school-cms/pkg/auth/session"
	"github.com/hillview-school/school-cms/pkg/config"
	"github.com/hillview-school/school-cms/pkg/db"
	"github.com/hillview-school/school-cms/pkg/logger"
	"github.com/hillview-school/school-cms/pkg/metrics"
	"github.com/hillview-school/school-cms/pkg/migrate"
	"github.com/hillview-school/school-cms/pkg/redis"
	"github.com/hillview-school/school-cms/pkg/storage/cloudinary"
	"github.com/hillview-school/school-cms/pkg/storage/gcs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	responses.ExposeInternalErrors(cfg.App.ExposeInternalErrors)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	health := map[string]controllers.Pinger{"database": dbClient, "redis": nil}

	var (
		revocations session.Checker
		revoker     *session.Revocations
		idempotency redis.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		revoker, err = session.NewRevocations(redisClient)
		if err != nil {
			return err
		}
		revocations = revoker
		idempotency = redisClient
		health["redis"] = redisClient
	} else {
		logg.Warn(ctx, "redis disabled: logout revocation and idempotent replay are off")
	}

	files, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		return err
	}
	health["storage"] = files

	images, err := cloudinary.NewClient(ctx, cfg.Cloudinary, logg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	transfer, err := assets.NewTransfer(images, files, metrics.NewAssetMetrics(reg), logg)
	if err != nil {
		return err
	}

	conn := dbClient.DB()
	deps := collectionDeps{conn: conn, transfer: transfer, limits: cfg.Uploads, logg: logg}

	assignmentsSvc, err := collection(deps, assignments.Schema())
	if err != nil {
		return err
	}
	eventsSvc, err := collection(deps, events.Schema())
	if err != nil {
		return err
	}
	newsSvc, err := collection(deps, news.Schema())
	if err != nil {
		return err
	}
	staffSvc, err := collection(deps, staff.Schema())
	if err != nil {
		return err
	}
	resourcesSvc, err := collection(deps, resources.Schema())
	if err != nil {
		return err
	}
	documentsSvc, err := collection(deps, documents.Schema())
	if err != nil {
		return err
	}
	councilSvc, err := collection(deps, council.Schema())
	if err != nil {
		return err
	}
	galleriesSvc, err := collection(deps, galleries.Schema())
	if err != nil {
		return err
	}
	careersSvc, err := collection(deps, careers.Schema())
	if err != nil {
		return err
	}

	searchSvc, err := search.NewService(logg,
		assignmentsSvc, eventsSvc, newsSvc, staffSvc, resourcesSvc,
		documentsSvc, councilSvc, galleriesSvc, careersSvc,
	)
	if err != nil {
		return err
	}

	adminParams := admins.ServiceParams{
		Repo:     admins.NewRepository(conn),
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	}
	if revoker != nil {
		adminParams.Revocations = revoker
	}
	adminSvc, err := admins.NewService(adminParams)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Health:         health,
		Admins:         adminSvc,
		Revocations:    revocations,
		Idempotency:    idempotency,
		Search:         searchSvc,
		Collections: []routes.Mount{
			routes.Content(assignmentsSvc),
			routes.Content(eventsSvc),
			routes.Content(newsSvc),
			routes.Content(staffSvc),
			routes.Content(resourcesSvc),
			routes.Content(documentsSvc),
			routes.Content(councilSvc),
			routes.Content(galleriesSvc),
			routes.Content(careersSvc),
		},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(context.WithoutCancel(ctx), "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.App.ShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

type collectionDeps struct {
	conn     *gorm.DB
	transfer *assets.Transfer
	limits   config.UploadsConfig
	logg     *logger.Logger
}

func collection[T any](deps collectionDeps, schema content.Schema[T]) (content.Service[T], error) {
	return content.NewService(schema, content.NewRepository[T](deps.conn), deps.transfer, deps.limits, deps.logg)
}
