// Package pg bootstraps the PostgreSQL side of the workflow service on top of
// pgx/v5 and goose/v3.
//
// Connect opens a *pgxpool.Pool with bounded retries, Migrate applies the
// schema embedded under migrations/ (workflow entity tables, the orders
// payment status column, inventory movements and the audit log), and
// Healthcheck returns a probe for the HTTP health endpoint. The error helpers
// classify driver errors so the stores can map them onto workflow errors.
//
// # Usage
//
//	var cfg pg.Config
//	if err := env.Parse(&cfg); err != nil {
//		return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//		return err
//	}
package pg
