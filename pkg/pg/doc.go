// Package pg bootstraps PostgreSQL access with pgx/v5.
//
// Connect opens a *pgxpool.Pool from Config (populated from PG_* environment
// variables) and retries until the database answers a ping. Migrate applies
// goose migrations from an fs.FS, usually one embedded by the package that
// owns the schema. Healthcheck returns a func(context.Context) error suitable
// for a health endpoint.
//
// Error helpers classify *pgconn.PgError values: IsUniqueViolation checks for
// SQLSTATE 23505 on a specific constraint, which is how stores map an insert
// race to a domain error.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg, log); err != nil {
//		return err
//	}
package pg
