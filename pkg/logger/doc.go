// Package logger builds *slog.Logger instances for the workflow services.
//
// New applies functional options (format, level, output, static attributes)
// and wraps the chosen handler in LogHandlerDecorator, which runs registered
// ContextExtractor callbacks on every record. Request ids and store ids
// stored in a context.Context therefore reach the log line without
// being passed explicitly.
//
// The attr helpers (EntityKind, EntityID, TenantID, Transition, ErrorCode and
// friends) keep attribute keys consistent between the engine, the HTTP layer
// and the audit recorder.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "workflowd"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "transition committed",
//		logger.EntityKind("deal"),
//		logger.Transition("contract", "closed"),
//	)
package logger
