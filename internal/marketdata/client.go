// Package marketdata is the HTTP client for the market data provider:
// latest quotes, historical daily candles and company fundamentals. The
// ledger and every scanner treat a failure here as a hard stop for the
// in-flight operation; a missing price is never substituted with zero.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"equitydesk/types"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

var (
	ErrPriceUnavailable = errors.New("no price available for symbol")
	ErrNoData           = errors.New("no historical data for symbol")
)

type Client struct {
	client *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Accept", "application/json")
	return &Client{client: client}
}

// Quote returns the most recent traded price for symbol. Satisfies the
// ledger's PriceSource interface.
func (c *Client) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := c.LatestQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Price, nil
}

// LatestQuote returns the latest price together with the previous session
// close, which the sizing tools use for day-change bands.
func (c *Client) LatestQuote(ctx context.Context, symbol string) (types.Quote, error) {
	result, err := c.chart(ctx, symbol, map[string]string{
		"range":    "5d",
		"interval": string(types.Day),
	})
	if err != nil {
		return types.Quote{}, err
	}

	if result.Meta.RegularMarketPrice <= 0 {
		return types.Quote{}, fmt.Errorf("quote %s: %w", symbol, ErrPriceUnavailable)
	}

	q := types.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(result.Meta.RegularMarketPrice),
		Timestamp: time.Unix(result.Meta.RegularMarketTime, 0).UTC(),
	}

	// Prefer the second-to-last daily close over the meta field; the meta
	// previous close tracks the chart range start, not the prior session.
	closes := result.Indicators.Quote
	if len(closes) > 0 && len(closes[0].Close) >= 2 {
		if prev := closes[0].Close[len(closes[0].Close)-2]; prev != nil && *prev > 0 {
			q.PrevClose = decimal.NewFromFloat(*prev)
			return q, nil
		}
	}
	if result.Meta.ChartPreviousClose > 0 {
		q.PrevClose = decimal.NewFromFloat(result.Meta.ChartPreviousClose)
	}
	return q, nil
}

// History returns daily candles for symbol between start and end, oldest
// first. Sessions with missing OHLC fields are dropped.
func (c *Client) History(ctx context.Context, symbol string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	result, err := c.chart(ctx, symbol, map[string]string{
		"interval": string(interval),
		"period1":  fmt.Sprintf("%d", start.Unix()),
		"period2":  fmt.Sprintf("%d", end.Unix()),
	})
	if err != nil {
		return nil, err
	}

	if len(result.Indicators.Quote) == 0 || len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("history %s: %w", symbol, ErrNoData)
	}

	quote := result.Indicators.Quote[0]
	candles := make([]types.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}
		candle := types.Candle{
			Symbol:    symbol,
			Open:      decimal.NewFromFloat(*quote.Open[i]),
			High:      decimal.NewFromFloat(*quote.High[i]),
			Low:       decimal.NewFromFloat(*quote.Low[i]),
			Close:     decimal.NewFromFloat(*quote.Close[i]),
			Interval:  interval,
			Timestamp: time.Unix(ts, 0).UTC(),
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = decimal.NewFromFloat(*quote.Volume[i])
		}
		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("history %s: %w", symbol, ErrNoData)
	}
	return candles, nil
}

// Fundamentals returns market cap, sector, industry, trailing P/E and the
// quarterly revenue and net income history for symbol.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParam("modules", "price,summaryProfile,summaryDetail,incomeStatementHistoryQuarterly").
		Get("/v10/finance/quoteSummary/{symbol}")
	if err != nil {
		return types.Fundamentals{}, fmt.Errorf("fundamentals %s: %w", symbol, err)
	}
	if resp.IsError() {
		return types.Fundamentals{}, fmt.Errorf("fundamentals %s: status %s", symbol, resp.Status())
	}

	var payload quoteSummaryResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return types.Fundamentals{}, fmt.Errorf("fundamentals %s: decode: %w", symbol, err)
	}
	if payload.QuoteSummary.Error != nil {
		return types.Fundamentals{}, fmt.Errorf("fundamentals %s: %s: %w",
			symbol, payload.QuoteSummary.Error.Description, ErrNoData)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return types.Fundamentals{}, fmt.Errorf("fundamentals %s: %w", symbol, ErrNoData)
	}

	result := payload.QuoteSummary.Result[0]
	f := types.Fundamentals{
		Symbol:     symbol,
		MarketCap:  decimal.NewFromFloat(result.Price.MarketCap.Raw),
		Sector:     result.SummaryProfile.Sector,
		Industry:   result.SummaryProfile.Industry,
		TrailingPE: decimal.NewFromFloat(result.SummaryDetail.TrailingPE.Raw),
	}
	for _, stmt := range result.IncomeStatementHistoryQuarterly.IncomeStatementHistory {
		quarter := time.Unix(int64(stmt.EndDate.Raw), 0).UTC()
		f.Revenue = append(f.Revenue, types.QuarterFigure{
			Quarter: quarter,
			Value:   decimal.NewFromFloat(stmt.TotalRevenue.Raw),
		})
		f.NetIncome = append(f.NetIncome, types.QuarterFigure{
			Quarter: quarter,
			Value:   decimal.NewFromFloat(stmt.NetIncome.Raw),
		})
	}
	return f, nil
}

func (c *Client) chart(ctx context.Context, symbol string, params map[string]string) (chartResult, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(params).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return chartResult{}, fmt.Errorf("chart %s: %w", symbol, err)
	}
	if resp.IsError() {
		return chartResult{}, fmt.Errorf("chart %s: status %s", symbol, resp.Status())
	}

	var payload chartResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return chartResult{}, fmt.Errorf("chart %s: decode: %w", symbol, err)
	}
	if payload.Chart.Error != nil {
		return chartResult{}, fmt.Errorf("chart %s: %s: %w",
			symbol, payload.Chart.Error.Description, ErrNoData)
	}
	if len(payload.Chart.Result) == 0 {
		return chartResult{}, fmt.Errorf("chart %s: %w", symbol, ErrNoData)
	}
	return payload.Chart.Result[0], nil
}
