package ledger

import (
	"fmt"
	"io"
	"os"
	"time"

	"equitydesk/types"
)

// AppendTransactionLog appends one human-readable line per transaction to the
// log file at path. The file is only ever appended to, never rewritten.
func AppendTransactionLog(path string, transactions []types.Transaction) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transaction log: %w", err)
	}
	defer f.Close()

	return writeTransactionLog(f, transactions)
}

func writeTransactionLog(w io.Writer, transactions []types.Transaction) error {
	for _, tx := range transactions {
		_, err := fmt.Fprintf(w, "%s %s %s qty=%d price=%s total=%s cash=%s id=%s\n",
			tx.Timestamp.Format(time.DateTime),
			tx.Action,
			tx.Symbol,
			tx.Quantity,
			tx.Price.StringFixed(2),
			tx.TotalValue.StringFixed(2),
			tx.CashBalance.StringFixed(2),
			tx.Id,
		)
		if err != nil {
			return fmt.Errorf("write transaction %s: %w", tx.Id, err)
		}
	}
	return nil
}
