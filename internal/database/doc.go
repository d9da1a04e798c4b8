// Package database provides PostgreSQL persistence for drone service
// requests, backed by a pgx connection pool.
package database
