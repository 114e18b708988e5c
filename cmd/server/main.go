package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/facilitykit/modules/workorders"
	"github.com/dmitrymomot/facilitykit/pkg/audit"
	"github.com/dmitrymomot/facilitykit/pkg/auth"
	"github.com/dmitrymomot/facilitykit/pkg/clientip"
	"github.com/dmitrymomot/facilitykit/pkg/config"
	"github.com/dmitrymomot/facilitykit/pkg/httpserver"
	"github.com/dmitrymomot/facilitykit/pkg/jwt"
	"github.com/dmitrymomot/facilitykit/pkg/logger"
	"github.com/dmitrymomot/facilitykit/pkg/pg"
	"github.com/dmitrymomot/facilitykit/pkg/redis"
	"github.com/dmitrymomot/facilitykit/pkg/requestid"
	"github.com/dmitrymomot/facilitykit/pkg/tenant"
	"github.com/dmitrymomot/facilitykit/pkg/tenantcache"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`

	AuditBufferSize     int           `env:"AUDIT_BUFFER_SIZE" envDefault:"1000"`
	AuditStorageTimeout time.Duration `env:"AUDIT_STORAGE_TIMEOUT" envDefault:"5s"`

	Auth     auth.Config
	Postgres pg.Config
	Redis    redis.Config
	HTTP     httpserver.Config
}

func main() {
	ctx := context.Background()

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Environment, "facilitykit"),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			tenant.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.Postgres, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Full violation detail goes to Postgres through the async writer; the
	// request path never blocks on the audit insert.
	auditStorage := audit.NewAsyncStorage(audit.NewPostgresStorage(pool), audit.AsyncOptions{
		BufferSize:     cfg.AuditBufferSize,
		StorageTimeout: cfg.AuditStorageTimeout,
		Logger:         log,
	})
	defer auditStorage.Close()

	auditor := audit.NewLogger(auditStorage,
		audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
			id := requestid.FromContext(ctx)
			return id, id != ""
		}),
		audit.WithIPExtractor(func(ctx context.Context) (string, bool) {
			ip := clientip.GetIPFromContext(ctx)
			return ip, ip != ""
		}),
	)
	violations := tenant.NewViolationHandler(auditor, log)

	cache := tenantcache.NewTenantAware(tenantcache.NewRedis(redisClient))
	defer cache.Close()

	workOrderSvc := workorders.NewService(workorders.NewRepository(pool), cache, log)

	jwtService, err := jwt.NewFromString(cfg.Auth.SigningKey)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(auth.Middleware(jwtService))
	r.Use(tenant.Middleware(violations,
		tenant.WithLogger(log),
		tenant.WithSkipPaths("/health"),
	))

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	))
	r.Mount("/workorders", workorders.Router(workOrderSvc, violations))

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}
