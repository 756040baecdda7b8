// Package chart renders interactive HTML charts: candlestick charts with
// volume for a single symbol, a portfolio invested-versus-current bar chart
// and quarterly fundamentals bars.
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"equitydesk/internal/ledger"
	"equitydesk/types"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrNoSeries = errors.New("nothing to chart")

// Kline renders a candlestick chart with a volume pane below it.
func Kline(w io.Writer, symbol string, candles []types.Candle) error {
	if len(candles) == 0 {
		return fmt.Errorf("kline %s: %w", symbol, ErrNoSeries)
	}

	dates := make([]string, len(candles))
	klineData := make([]opts.KlineData, len(candles))
	volumeData := make([]opts.BarData, len(candles))
	for i, c := range candles {
		dates[i] = c.Timestamp.Format(time.DateOnly)
		klineData[i] = opts.KlineData{Value: [4]float64{
			c.Open.InexactFloat64(),
			c.Close.InexactFloat64(),
			c.Low.InexactFloat64(),
			c.High.InexactFloat64(),
		}}
		volumeData[i] = opts.BarData{Value: c.Volume.InexactFloat64()}
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: symbol}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	kline.SetXAxis(dates).AddSeries(symbol, klineData)

	volume := charts.NewBar()
	volume.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Volume"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	volume.SetXAxis(dates).AddSeries("volume", volumeData)

	page := components.NewPage()
	page.PageTitle = symbol
	page.AddCharts(kline, volume)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render kline %s: %w", symbol, err)
	}
	return nil
}

// WriteKlineHTML renders the candlestick chart for symbol into an HTML file.
func WriteKlineHTML(path, symbol string, candles []types.Candle) error {
	return writeHTML(path, func(w io.Writer) error {
		return Kline(w, symbol, candles)
	})
}

// PortfolioBar renders invested amount against current value per position.
func PortfolioBar(w io.Writer, rows []ledger.SnapshotRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("portfolio chart: %w", ErrNoSeries)
	}

	symbols := make([]string, len(rows))
	invested := make([]opts.BarData, len(rows))
	current := make([]opts.BarData, len(rows))
	for i, row := range rows {
		symbols[i] = row.Symbol
		invested[i] = opts.BarData{Value: row.Invested.InexactFloat64()}
		current[i] = opts.BarData{Value: row.CurrentValue.InexactFloat64()}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Portfolio", Subtitle: "invested vs current value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(symbols).
		AddSeries("invested", invested).
		AddSeries("current value", current)
	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render portfolio chart: %w", err)
	}
	return nil
}

// WritePortfolioHTML renders the portfolio bar chart into an HTML file.
func WritePortfolioHTML(path string, rows []ledger.SnapshotRow) error {
	return writeHTML(path, func(w io.Writer) error {
		return PortfolioBar(w, rows)
	})
}

// QuarterlyBar renders quarterly revenue and net income side by side,
// both in thousand crores.
func QuarterlyBar(w io.Writer, symbol string, revenue, netIncome []types.QuarterFigure) error {
	if len(revenue) == 0 && len(netIncome) == 0 {
		return fmt.Errorf("quarterly chart %s: %w", symbol, ErrNoSeries)
	}

	quarters := make([]string, 0, len(revenue))
	revenueData := make([]opts.BarData, 0, len(revenue))
	for _, f := range revenue {
		quarters = append(quarters, f.Quarter.Format(time.DateOnly))
		revenueData = append(revenueData, opts.BarData{Value: f.Value.InexactFloat64()})
	}
	incomeData := make([]opts.BarData, 0, len(netIncome))
	for i, f := range netIncome {
		if i >= len(quarters) {
			quarters = append(quarters, f.Quarter.Format(time.DateOnly))
		}
		incomeData = append(incomeData, opts.BarData{Value: f.Value.InexactFloat64()})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: symbol, Subtitle: "quarterly revenue and net income, thousand crores"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(quarters).
		AddSeries("revenue", revenueData).
		AddSeries("net income", incomeData)
	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render quarterly chart %s: %w", symbol, err)
	}
	return nil
}

// WriteQuarterlyHTML renders the quarterly fundamentals chart into an HTML
// file.
func WriteQuarterlyHTML(path, symbol string, revenue, netIncome []types.QuarterFigure) error {
	return writeHTML(path, func(w io.Writer) error {
		return QuarterlyBar(w, symbol, revenue, netIncome)
	})
}

func writeHTML(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart %s: %w", path, err)
	}
	defer file.Close()
	return render(file)
}
