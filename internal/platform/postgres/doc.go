// Package postgres provides PostgreSQL implementations of the store
// interfaces, built on database/sql over the pgx stdlib driver. The
// package also embeds and runs the goose SQL migrations that define
// the schema.
package postgres
