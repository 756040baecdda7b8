package repository

import (
	"context"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Global error declarations.
var (
	ErrIntervalNotSupported = errors.New("interval not supported by candle cache")
	ErrAssetNotFound        = errors.New("asset not found in candle cache")
	ErrNoCandles            = errors.New("no candles found in candle cache")
)

type assetQueries interface {
	GetAssetBySymbol(ctx context.Context, symbol string) (assetRow, error)
	UpsertAsset(ctx context.Context, symbol, name, assetType string) (assetRow, error)
}

type candleQueries interface {
	GetCandleRows(ctx context.Context, arg getCandlesParams) ([]candleRow, error)
	InsertCandleRows(ctx context.Context, assetId int, interval string, rows []candleRow) error
}

// Database is the Postgres-backed candle cache the scanners read from and
// write through, so a universe scan does not refetch a year of history per
// symbol on every run.
type Database struct {
	assets  assetQueries
	candles candleQueries
	conn    *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(ctx context.Context, dbURL string) (Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return Database{}, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return Database{}, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(ctx); err != nil {
		return Database{}, err
	}

	queries := &pgxQueries{conn: conn}
	return Database{
		assets:  queries,
		candles: queries,
		conn:    conn,
	}, nil
}

// EnsureSchema creates the cache tables when they do not exist yet.
func (db *Database) EnsureSchema(ctx context.Context) error {
	_, err := db.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS assets (
			id          SERIAL PRIMARY KEY,
			symbol      TEXT NOT NULL UNIQUE,
			name        TEXT NOT NULL DEFAULT '',
			type        TEXT NOT NULL DEFAULT 'STOCK',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			modified_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS candles (
			asset_id  INT NOT NULL REFERENCES assets(id),
			interval  TEXT NOT NULL,
			ts        TIMESTAMPTZ NOT NULL,
			open      NUMERIC NOT NULL,
			high      NUMERIC NOT NULL,
			low       NUMERIC NOT NULL,
			close     NUMERIC NOT NULL,
			volume    NUMERIC NOT NULL DEFAULT 0,
			PRIMARY KEY (asset_id, interval, ts)
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}
