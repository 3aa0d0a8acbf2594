package main

import (
	"time"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/httpserver"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/mongo"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/pg"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/redis"
)

const (
	auditBackendMemory   = "memory"
	auditBackendPostgres = "postgres"
	auditBackendMongo    = "mongo"
)

type appConfig struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	Service        string        `env:"SERVICE_NAME" envDefault:"workflowd"`
	LogLevel       string        `env:"LOG_LEVEL"`
	DefaultLang    string        `env:"DEFAULT_LANG" envDefault:"en"`
	StoreHeader    string        `env:"STORE_ID_HEADER" envDefault:"X-Store-ID"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"10s"`
	HealthTimeout  time.Duration `env:"HEALTHCHECK_TIMEOUT" envDefault:"2s"`

	// IdempotencyTTL bounds how long transition responses are replayable.
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	// IdempotencyBackend is "redis" or "memory".
	IdempotencyBackend string `env:"IDEMPOTENCY_BACKEND" envDefault:"redis"`

	// AuditBackend is one of memory, postgres or mongo.
	AuditBackend         string        `env:"AUDIT_BACKEND" envDefault:"postgres"`
	AuditMongoCollection string        `env:"AUDIT_MONGO_COLLECTION" envDefault:"workflow_audit_log"`
	AuditBatchSize       int           `env:"AUDIT_BATCH_SIZE" envDefault:"100"`
	AuditBatchTimeout    time.Duration `env:"AUDIT_BATCH_TIMEOUT" envDefault:"50ms"`
}

type serviceConfig struct {
	App   appConfig
	HTTP  httpserver.Config
	PG    pg.Config
	Redis redis.Config
	Mongo mongo.Config
}
