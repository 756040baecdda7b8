package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type assetRow struct {
	ID         int32
	Symbol     string
	Name       string
	Type       string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

type candleRow struct {
	Ts     time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

type getCandlesParams struct {
	AssetID  int32
	Interval string
	Start    time.Time
	End      time.Time
}

type pgxQueries struct {
	conn *pgxpool.Pool
}

func (q *pgxQueries) GetAssetBySymbol(ctx context.Context, symbol string) (assetRow, error) {
	const query = `
		SELECT id, symbol, name, type, created_at, modified_at
		FROM assets WHERE symbol = $1`

	var row assetRow
	err := q.conn.QueryRow(ctx, query, symbol).
		Scan(&row.ID, &row.Symbol, &row.Name, &row.Type, &row.CreatedAt, &row.ModifiedAt)
	return row, err
}

func (q *pgxQueries) UpsertAsset(ctx context.Context, symbol, name, assetType string) (assetRow, error) {
	const query = `
		INSERT INTO assets (symbol, name, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO UPDATE SET modified_at = now()
		RETURNING id, symbol, name, type, created_at, modified_at`

	var row assetRow
	err := q.conn.QueryRow(ctx, query, symbol, name, assetType).
		Scan(&row.ID, &row.Symbol, &row.Name, &row.Type, &row.CreatedAt, &row.ModifiedAt)
	return row, err
}

func (q *pgxQueries) GetCandleRows(ctx context.Context, arg getCandlesParams) ([]candleRow, error) {
	const query = `
		SELECT ts, open, high, low, close, volume
		FROM candles
		WHERE asset_id = $1 AND interval = $2 AND ts >= $3 AND ts <= $4
		ORDER BY ts`

	rows, err := q.conn.Query(ctx, query, arg.AssetID, arg.Interval, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []candleRow
	for rows.Next() {
		var row candleRow
		if err := rows.Scan(&row.Ts, &row.Open, &row.High, &row.Low, &row.Close, &row.Volume); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (q *pgxQueries) InsertCandleRows(ctx context.Context, assetId int, interval string, rows []candleRow) error {
	const query = `
		INSERT INTO candles (asset_id, interval, ts, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (asset_id, interval, ts) DO NOTHING`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, assetId, interval, row.Ts, row.Open, row.High, row.Low, row.Close, row.Volume)
	}
	return q.conn.SendBatch(ctx, batch).Close()
}
