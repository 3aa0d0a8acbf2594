// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a valid client supplied "X-Request-ID" header or generates
// a UUID, stores it in the request context and echoes it in the response.
// FromContext and Lookup read it back; LoggerExtractor feeds it to the
// structured logger and Lookup plugs into the audit logger so workflow
// audit events can be joined with request logs.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	auditLog := audit.NewLogger(storage, audit.WithRequestIDExtractor(requestid.Lookup))
package requestid
