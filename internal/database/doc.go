// Package database turns the connection parameters held by the environment
// store into a pgx connection config and offers a connectivity check.
package database
