package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuarterFigure is one reported quarter of a fundamental line item.
type QuarterFigure struct {
	Quarter time.Time       `json:"quarter"`
	Value   decimal.Decimal `json:"value"`
}

// Fundamentals is the company-level data returned by the market data
// provider, independent of price history.
type Fundamentals struct {
	Symbol     string          `json:"symbol"`
	MarketCap  decimal.Decimal `json:"marketCap"`
	Sector     string          `json:"sector"`
	Industry   string          `json:"industry"`
	TrailingPE decimal.Decimal `json:"trailingPE"`
	Revenue    []QuarterFigure `json:"revenue"`
	NetIncome  []QuarterFigure `json:"netIncome"`
}

// StockInfo is the assembled per-ticker summary: one year of price extremes
// plus fundamentals, with monetary aggregates in thousand crores.
type StockInfo struct {
	Symbol     string          `json:"symbol"`
	HighPrice  decimal.Decimal `json:"highPrice"`
	LowPrice   decimal.Decimal `json:"lowPrice"`
	HighVolume decimal.Decimal `json:"highVolume"`
	LowVolume  decimal.Decimal `json:"lowVolume"`
	MarketCap  decimal.Decimal `json:"marketCap"`
	Sector     string          `json:"sector"`
	Industry   string          `json:"industry"`
	TrailingPE decimal.Decimal `json:"trailingPE"`
	Revenue    []QuarterFigure `json:"revenue"`
	NetIncome  []QuarterFigure `json:"netIncome"`
}
