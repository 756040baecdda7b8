package stockinfo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"equitydesk/types"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fakeMarketData struct {
	candles      []types.Candle
	fundamentals types.Fundamentals
	historyErr   error
	fundErr      error
}

func (f *fakeMarketData) History(context.Context, string, types.Interval, time.Time, time.Time) ([]types.Candle, error) {
	return f.candles, f.historyErr
}

func (f *fakeMarketData) Fundamentals(context.Context, string) (types.Fundamentals, error) {
	return f.fundamentals, f.fundErr
}

func yearCandles() []types.Candle {
	specs := []struct{ close, volume string }{
		{"2500", "1000000"},
		{"2900", "4000000"},
		{"2300", "500000"},
		{"2700", "2000000"},
	}
	candles := make([]types.Candle, len(specs))
	for i, s := range specs {
		candles[i] = types.Candle{
			Symbol:    "RELIANCE.NS",
			Close:     d(s.close),
			Volume:    d(s.volume),
			Interval:  types.Day,
			Timestamp: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
	}
	return candles
}

func TestSummarize(t *testing.T) {
	quarter := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	source := &fakeMarketData{
		candles: yearCandles(),
		fundamentals: types.Fundamentals{
			Symbol:     "RELIANCE.NS",
			MarketCap:  d("19000000000000"), // 19 lakh crore raw
			Sector:     "Energy",
			Industry:   "Oil & Gas",
			TrailingPE: d("28.5"),
			Revenue: []types.QuarterFigure{
				{Quarter: quarter, Value: d("2350000000000")},
			},
			NetIncome: []types.QuarterFigure{
				{Quarter: quarter, Value: d("190000000000")},
			},
		},
	}

	info, err := NewService(source).Summarize(context.Background(), "RELIANCE.NS")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !info.HighPrice.Equal(d("2900")) || !info.LowPrice.Equal(d("2300")) {
		t.Errorf("price extremes = %s / %s", info.HighPrice, info.LowPrice)
	}
	if !info.HighVolume.Equal(d("4000000")) || !info.LowVolume.Equal(d("500000")) {
		t.Errorf("volume extremes = %s / %s", info.HighVolume, info.LowVolume)
	}
	if !info.MarketCap.Equal(d("1900000")) {
		t.Errorf("market cap = %s, want 1900000 thousand crores", info.MarketCap)
	}
	if len(info.Revenue) != 1 || !info.Revenue[0].Value.Equal(d("235000")) {
		t.Errorf("revenue = %+v", info.Revenue)
	}
	if len(info.NetIncome) != 1 || !info.NetIncome[0].Value.Equal(d("19000")) {
		t.Errorf("net income = %+v", info.NetIncome)
	}
	if info.Sector != "Energy" || info.Industry != "Oil & Gas" {
		t.Errorf("profile = %q / %q", info.Sector, info.Industry)
	}
}

func TestSummarizeKeepsFourQuarters(t *testing.T) {
	fundamentals := types.Fundamentals{}
	for i := 0; i < 6; i++ {
		fundamentals.Revenue = append(fundamentals.Revenue, types.QuarterFigure{
			Quarter: time.Date(2024, time.Month(1+i*3), 1, 0, 0, 0, 0, time.UTC),
			Value:   d("10000000"),
		})
	}
	source := &fakeMarketData{candles: yearCandles(), fundamentals: fundamentals}

	info, err := NewService(source).Summarize(context.Background(), "X.NS")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(info.Revenue) != 4 {
		t.Errorf("quarters kept = %d, want 4", len(info.Revenue))
	}
	if !info.Revenue[0].Value.Equal(d("1")) {
		t.Errorf("revenue[0] = %s, want 1", info.Revenue[0].Value)
	}
}

func TestSummarizeErrors(t *testing.T) {
	boom := errors.New("provider down")

	if _, err := NewService(&fakeMarketData{historyErr: boom}).Summarize(context.Background(), "X.NS"); !errors.Is(err, boom) {
		t.Errorf("history err = %v", err)
	}
	if _, err := NewService(&fakeMarketData{}).Summarize(context.Background(), "X.NS"); !errors.Is(err, ErrNoHistory) {
		t.Errorf("empty history err = %v", err)
	}
	if _, err := NewService(&fakeMarketData{candles: yearCandles(), fundErr: boom}).Summarize(context.Background(), "X.NS"); !errors.Is(err, boom) {
		t.Errorf("fundamentals err = %v", err)
	}
}

func summaryFixture() types.StockInfo {
	quarter := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	return types.StockInfo{
		Symbol:     "TCS.NS",
		HighPrice:  d("4250.75"),
		LowPrice:   d("3100.20"),
		HighVolume: d("9000000"),
		LowVolume:  d("400000"),
		MarketCap:  d("1450000"),
		Sector:     "Technology",
		Industry:   "IT Services",
		TrailingPE: d("31.2"),
		Revenue:    []types.QuarterFigure{{Quarter: quarter, Value: d("60583")}},
		NetIncome:  []types.QuarterFigure{{Quarter: quarter, Value: d("11058")}},
	}
}

func TestAppendSummaryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.csv")
	info := summaryFixture()

	if err := AppendSummaryCSV(path, []types.StockInfo{info}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := AppendSummaryCSV(path, []types.StockInfo{info}); err != nil {
		t.Fatalf("second append: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)
	if !strings.HasPrefix(content, strings.Join(summaryHeader, ",")+"\n") {
		t.Errorf("missing header: %q", content)
	}
	if strings.Count(content, strings.Join(summaryHeader, ",")) != 1 {
		t.Error("header repeated on append")
	}
	if strings.Count(content, "TCS.NS,4250.75,3100.20") != 2 {
		t.Errorf("summary rows not appended:\n%s", content)
	}
	if !strings.Contains(content, "revenue_thousand_cr\n2023-12-31,60583.00") {
		t.Errorf("revenue block missing:\n%s", content)
	}
}

func TestAppendSummaryText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.txt")
	if err := AppendSummaryText(path, []types.StockInfo{summaryFixture()}); err != nil {
		t.Fatalf("append: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Symbol: TCS.NS",
		"365-Day High Price: 4250.75",
		"Market Cap: 1450000.00 thousand crores",
		"2023-12-31: 60583.00",
		"P/E Ratio: 31.20",
	} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("text summary missing %q:\n%s", want, raw)
		}
	}
}
