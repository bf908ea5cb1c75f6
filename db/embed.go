// Package db holds the SQL schema migrations applied by "yieldcanary migrate".
package db

import "embed"

// MigrationsDir is the directory inside Migrations that goose reads from.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
