package scan

import (
	"context"
	"errors"
	"time"

	"equitydesk/internal/repository"
	"equitydesk/types"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// HistorySource supplies daily candles for one symbol, oldest first.
type HistorySource interface {
	History(ctx context.Context, symbol string, interval types.Interval, start, end time.Time) ([]types.Candle, error)
}

// CandleStore is the optional write-through cache consulted before the
// HistorySource. Satisfied by repository.Database.
type CandleStore interface {
	GetAssetBySymbol(ctx context.Context, symbol string) (*types.Asset, error)
	UpsertAsset(ctx context.Context, symbol, name string, assetType types.AssetType) (*types.Asset, error)
	GetCandles(ctx context.Context, assetId int, symbol string, interval types.Interval, start, end time.Time) ([]types.Candle, error)
	SaveCandles(ctx context.Context, assetId int, candles []types.Candle) error
}

// Runner walks a symbol universe, loads each symbol's history and hands it
// to a detector callback. A failing symbol is logged and skipped; one bad
// ticker must not kill a whole universe scan.
type Runner struct {
	source   HistorySource
	store    CandleStore
	log      zerolog.Logger
	progress bool
}

func NewRunner(source HistorySource, store CandleStore, log zerolog.Logger, progress bool) *Runner {
	return &Runner{
		source:   source,
		store:    store,
		log:      log,
		progress: progress,
	}
}

// Run fetches lookback worth of daily candles per symbol and invokes fn for
// each symbol that produced data. Returns the number of symbols whose scan
// completed.
func (r *Runner) Run(ctx context.Context, symbols []string, lookback time.Duration, fn func(symbol string, candles []types.Candle) error) (int, error) {
	var bar *progressbar.ProgressBar
	if r.progress {
		bar = progressbar.Default(int64(len(symbols)), "scanning")
	}

	end := time.Now()
	start := end.Add(-lookback)

	scanned := 0
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return scanned, err
		}
		if bar != nil {
			_ = bar.Add(1)
		}

		candles, err := r.loadCandles(ctx, symbol, start, end)
		if err != nil {
			r.log.Warn().Str("symbol", symbol).Err(err).Msg("skipping symbol")
			continue
		}
		if err := fn(symbol, candles); err != nil {
			r.log.Warn().Str("symbol", symbol).Err(err).Msg("detector failed")
			continue
		}
		scanned++
	}
	return scanned, nil
}

func (r *Runner) loadCandles(ctx context.Context, symbol string, start, end time.Time) ([]types.Candle, error) {
	if r.store == nil {
		return r.source.History(ctx, symbol, types.Day, start, end)
	}

	asset, err := r.store.GetAssetBySymbol(ctx, symbol)
	if err != nil && !errors.Is(err, repository.ErrAssetNotFound) {
		return nil, err
	}
	if asset != nil {
		cached, err := r.store.GetCandles(ctx, asset.Id, symbol, types.Day, start, end)
		if err == nil && fresh(cached, end) {
			return cached, nil
		}
		if err != nil && !errors.Is(err, repository.ErrNoCandles) {
			r.log.Debug().Str("symbol", symbol).Err(err).Msg("candle cache read failed")
		}
	}

	candles, err := r.source.History(ctx, symbol, types.Day, start, end)
	if err != nil {
		return nil, err
	}

	if asset == nil {
		asset, err = r.store.UpsertAsset(ctx, symbol, "", types.AssetTypeStock)
		if err != nil {
			r.log.Debug().Str("symbol", symbol).Err(err).Msg("asset upsert failed")
			return candles, nil
		}
	}
	if err := r.store.SaveCandles(ctx, asset.Id, candles); err != nil {
		r.log.Debug().Str("symbol", symbol).Err(err).Msg("candle cache write failed")
	}
	return candles, nil
}

// fresh reports whether a cached series already covers the most recent
// sessions; a stale cache forces a refetch.
func fresh(candles []types.Candle, end time.Time) bool {
	if len(candles) == 0 {
		return false
	}
	last := candles[len(candles)-1].Timestamp
	return end.Sub(last) < 4*24*time.Hour
}
