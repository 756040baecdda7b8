package repository

import (
	"context"
	"errors"
	"fmt"

	"equitydesk/types"

	"github.com/jackc/pgx/v5"
)

// GetAssetBySymbol retrieves a types.Asset by its symbol.
func (db *Database) GetAssetBySymbol(ctx context.Context, symbol string) (*types.Asset, error) {
	asset, err := db.assets.GetAssetBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("symbol %s %w", symbol, ErrAssetNotFound)
		}
		return nil, err
	}
	return convertAsset(asset), nil
}

// UpsertAsset registers a symbol in the cache, returning the existing row
// when the symbol is already known.
func (db *Database) UpsertAsset(ctx context.Context, symbol, name string, assetType types.AssetType) (*types.Asset, error) {
	asset, err := db.assets.UpsertAsset(ctx, symbol, name, string(assetType))
	if err != nil {
		return nil, fmt.Errorf("upsert asset %s: %w", symbol, err)
	}
	return convertAsset(asset), nil
}

func convertAsset(row assetRow) *types.Asset {
	return &types.Asset{
		Id:         int(row.ID),
		Symbol:     row.Symbol,
		Name:       row.Name,
		Type:       types.AssetType(row.Type),
		CreatedAt:  row.CreatedAt,
		ModifiedAt: row.ModifiedAt,
	}
}
