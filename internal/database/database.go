package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eugenenazirov/doctour/internal/environment"
)

const defaultConnectTimeout = 5 * time.Second

// ErrUnreachable is returned when the database cannot be contacted.
var ErrUnreachable = errors.New("database unreachable")

// ConnConfig builds a pgx connection config from the environment snapshot.
func ConnConfig(snap environment.Snapshot) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(snap.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse connection config: %w", err)
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	return cfg, nil
}

// Ping opens a single connection, pings the server and closes it again.
func Ping(ctx context.Context, cfg *pgx.ConnConfig) error {
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%w: connect %s:%d: %v", ErrUnreachable, cfg.Host, cfg.Port, err)
	}
	defer func() {
		_ = conn.Close(context.WithoutCancel(ctx))
	}()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUnreachable, err)
	}
	return nil
}
