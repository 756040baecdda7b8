package scan

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrEmptyUniverse = errors.New("no symbols in universe file")

// LoadUniverse reads the symbol universe from a CSV file. The SYMBOL column
// is used when a header names one; otherwise the first column is taken.
// Symbols are upper-cased and the optional exchange suffix is appended when
// not already present.
func LoadUniverse(path, suffix string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe file: %w", err)
	}
	defer f.Close()

	return readUniverse(f, suffix)
}

func readUniverse(r io.Reader, suffix string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read universe csv: %w", err)
	}

	col := 0
	start := 0
	if len(records) > 0 {
		for i, name := range records[0] {
			if strings.EqualFold(strings.TrimSpace(name), "SYMBOL") {
				col = i
				start = 1
				break
			}
		}
	}

	var symbols []string
	for _, record := range records[start:] {
		if col >= len(record) {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(record[col]))
		if symbol == "" {
			continue
		}
		if suffix != "" && !strings.HasSuffix(symbol, suffix) {
			symbol += suffix
		}
		symbols = append(symbols, symbol)
	}
	if len(symbols) == 0 {
		return nil, ErrEmptyUniverse
	}
	return symbols, nil
}
