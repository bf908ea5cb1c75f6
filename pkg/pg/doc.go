// Package pg wraps pgx/v5 connection pooling and goose/v3 migrations.
//
// Connect opens a *pgxpool.Pool with bounded retries, Migrate applies the
// embedded SQL migrations through the database/sql bridge goose expects, and
// the Is* helpers classify driver errors so stores can map them onto their
// own sentinel errors.
package pg
