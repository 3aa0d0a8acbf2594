// Command workflowd serves the status workflow engine over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/audit"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/config"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/httpserver"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/i18n"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/idempotency"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/logger"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/mongo"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/pg"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/redis"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/requestid"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/tenant"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/transport"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/verticals"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

func main() {
	os.Exit(run())
}

// cleanup runs registered closers in reverse order.
type cleanup []func(context.Context)

func (c *cleanup) add(fn func(context.Context)) {
	*c = append(*c, fn)
}

func (c cleanup) run(ctx context.Context) {
	for i := len(c) - 1; i >= 0; i-- {
		c[i](ctx)
	}
}

func run() int {
	var cfg serviceConfig
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	log := logger.New(
		logger.WithEnvironment(cfg.App.Env, cfg.App.Service),
		logger.WithLevelName(cfg.App.LogLevel),
		logger.WithContextExtractors(requestid.LoggerExtractor(), tenant.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers cleanup
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		closers.run(shutdownCtx)
	}()

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		log.Error("postgres connection failed", logger.Error(err))
		return 1
	}
	closers.add(func(context.Context) { pool.Close() })

	if cfg.PG.AutoMigrate {
		if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
			log.Error("migrations failed", logger.Error(err))
			return 1
		}
	}
	store := workflow.NewPgStore(pool)
	checks := []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}}

	idem, check, err := buildIdempotencyStore(ctx, cfg, &closers)
	if err != nil {
		log.Error("idempotency store initialization failed", logger.Error(err))
		return 1
	}
	if check != nil {
		checks = append(checks, *check)
	}

	auditStorage, check, err := buildAuditStorage(ctx, cfg, pool, log, &closers)
	if err != nil {
		log.Error("audit storage initialization failed", logger.Error(err))
		return 1
	}
	if check != nil {
		checks = append(checks, *check)
	}

	labels, err := i18n.NewActionLabels(ctx,
		i18n.WithDefaultLanguage(cfg.App.DefaultLang),
		i18n.WithLogger(log.With(logger.Component("i18n"))),
	)
	if err != nil {
		log.Error("action labels failed to load", logger.Error(err))
		return 1
	}

	auditLog := audit.NewLogger(auditStorage,
		audit.WithTenantIDExtractor(tenant.IDFromContext),
		audit.WithActorExtractor(transport.ActorFromContext),
		audit.WithRequestIDExtractor(requestid.Lookup),
	)
	engine := workflow.NewEngine(verticals.Registry(), store,
		workflow.WithLogger(log.With(logger.Component("workflow"))),
		workflow.WithLabeler(labels),
		workflow.WithRecorder(audit.NewWorkflowRecorder(auditLog, log)),
	)

	handler := transport.NewHandler(engine,
		transport.WithMovementLedger(store),
		transport.WithHistory(audit.NewReader(auditStorage)),
		transport.WithIdempotency(idem, cfg.App.IdempotencyTTL),
		transport.WithLogger(log),
	)
	router := transport.Router(transport.RouterOptions{
		Workflow:        handler,
		Live:            httpserver.HealthCheckHandler(log, 0),
		Ready:           httpserver.HealthCheckHandler(log, cfg.App.HealthTimeout, checks...),
		Tenant:          tenant.NewHeaderResolver(cfg.App.StoreHeader),
		Languages:       labels.Translator().SupportedLanguages(),
		DefaultLanguage: labels.Translator().DefaultLanguage(),
		RequestTimeout:  cfg.App.RequestTimeout,
		Logger:          log,
	})

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	if err := srv.Run(ctx, router); err != nil {
		log.Error("http server failed", logger.Error(err))
		return 1
	}
	return 0
}

func buildIdempotencyStore(ctx context.Context, cfg serviceConfig, closers *cleanup) (idempotency.Store, *httpserver.Check, error) {
	if cfg.App.IdempotencyBackend == "memory" {
		return idempotency.NewMemoryStore(time.Now), nil, nil
	}
	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	closers.add(func(context.Context) { _ = client.Close() })
	return idempotency.NewRedisStore(client), &httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)}, nil
}

func buildAuditStorage(ctx context.Context, cfg serviceConfig, pool *pgxpool.Pool, log *slog.Logger, closers *cleanup) (audit.Storage, *httpserver.Check, error) {
	opts := audit.AsyncOptions{
		BatchSize:    cfg.App.AuditBatchSize,
		BatchTimeout: cfg.App.AuditBatchTimeout,
	}
	closeWriter := func(w *audit.AsyncWriter) func(context.Context) {
		return func(ctx context.Context) {
			if err := w.Close(ctx); err != nil {
				log.ErrorContext(ctx, "audit writer close failed", logger.Error(err))
			}
		}
	}

	switch cfg.App.AuditBackend {
	case auditBackendMemory:
		return audit.NewMemoryStorage(), nil, nil

	case auditBackendPostgres:
		writer := audit.NewAsyncWriter(audit.NewPgStorage(pool), opts)
		closers.add(closeWriter(writer))
		return writer, nil, nil

	case auditBackendMongo:
		db, err := mongo.NewWithDatabase(ctx, cfg.Mongo, "")
		if err != nil {
			return nil, nil, err
		}
		client := db.Client()
		closers.add(func(ctx context.Context) { _ = client.Disconnect(ctx) })

		storage := audit.NewMongoStorage(db, cfg.App.AuditMongoCollection)
		if err := storage.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		writer := audit.NewAsyncWriter(storage, opts)
		closers.add(closeWriter(writer))
		return writer, &httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)}, nil

	default:
		return nil, nil, fmt.Errorf("unknown audit backend %q", cfg.App.AuditBackend)
	}
}
