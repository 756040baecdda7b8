package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"equitydesk/internal/ledger"

	"github.com/spf13/cobra"
)

func newPortfolioCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Interactive virtual portfolio session",
		Long: "Runs an interactive buy/sell session against live quotes. Open positions " +
			"are restored from the snapshot file and written back on exit; every trade " +
			"is appended to the transaction log.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPortfolio(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func (a *app) runPortfolio(ctx context.Context, in io.Reader, out io.Writer) error {
	book := ledger.New(a.cfg.StartingCash, a.market)

	rows, err := ledger.LoadSnapshotFile(a.cfg.SnapshotFile)
	switch {
	case err == nil:
		if err := book.Restore(rows); err != nil {
			return err
		}
		fmt.Fprintf(out, "restored %d position(s) from %s\n", len(rows), a.cfg.SnapshotFile)
	case errors.Is(err, os.ErrNotExist):
		// fresh session
	default:
		return err
	}
	fmt.Fprintf(out, "session cash assumed at %s\n", a.cfg.StartingCash.StringFixed(2))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\naction [buy/sell/exit all/exit]: ")
		action, ok := readLine(scanner)
		if !ok {
			break
		}

		switch strings.ToLower(action) {
		case "buy":
			a.promptTrade(ctx, scanner, out, book, true)
		case "sell":
			a.promptTrade(ctx, scanner, out, book, false)
		case "exit all":
			if err := book.LiquidateAll(ctx, time.Now()); err != nil {
				fmt.Fprintf(out, "liquidation failed, nothing sold: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "all positions closed, cash %s\n", book.Cash().StringFixed(2))
		case "exit":
			return a.closeSession(ctx, out, book)
		default:
			fmt.Fprintf(out, "unknown action %q\n", action)
		}
	}
	return a.closeSession(ctx, out, book)
}

// promptTrade reads a symbol and quantity, quotes the live price and applies
// the trade. Every invalid input re-prompts rather than aborting the session.
func (a *app) promptTrade(ctx context.Context, scanner *bufio.Scanner, out io.Writer, book *ledger.Ledger, isBuy bool) {
	fmt.Fprint(out, "symbol: ")
	symbol, ok := readLine(scanner)
	if !ok || symbol == "" {
		fmt.Fprintln(out, "no symbol given")
		return
	}
	symbol = strings.ToUpper(symbol)
	if !strings.Contains(symbol, ".") && a.cfg.SymbolSuffix != "" {
		symbol += a.cfg.SymbolSuffix
	}

	fmt.Fprint(out, "quantity: ")
	rawQty, ok := readLine(scanner)
	if !ok {
		return
	}
	quantity, err := strconv.ParseInt(rawQty, 10, 64)
	if err != nil || quantity <= 0 {
		fmt.Fprintf(out, "invalid quantity %q\n", rawQty)
		return
	}

	price, err := a.market.Quote(ctx, symbol)
	if err != nil {
		fmt.Fprintf(out, "no quote for %s: %v\n", symbol, err)
		return
	}

	now := time.Now()
	if isBuy {
		err = book.Buy(symbol, quantity, price, now)
	} else {
		err = book.Sell(symbol, quantity, price, now)
	}
	if err != nil {
		fmt.Fprintf(out, "trade rejected: %v\n", err)
		return
	}

	verb := "bought"
	if !isBuy {
		verb = "sold"
	}
	fmt.Fprintf(out, "%s %d %s at %s, cash %s\n",
		verb, quantity, symbol, price.StringFixed(2), book.Cash().StringFixed(2))
}

// closeSession prints the final state and persists the snapshot and the
// transaction log.
func (a *app) closeSession(ctx context.Context, out io.Writer, book *ledger.Ledger) error {
	fmt.Fprintf(out, "\ncash: %s\n", book.Cash().StringFixed(2))
	for _, pos := range book.Positions() {
		fmt.Fprintf(out, "%s: %d @ avg %s since %s\n",
			pos.Symbol, pos.Quantity, pos.AvgCost.StringFixed(2), pos.AcquiredAt.Format(time.DateOnly))
	}

	if value, err := book.Valuation(ctx); err == nil {
		fmt.Fprintf(out, "total value: %s\n", value.StringFixed(2))
	} else {
		a.log.Warn().Err(err).Msg("valuation unavailable")
	}
	if pnl, err := book.UnrealizedPNL(ctx); err == nil {
		fmt.Fprintf(out, "unrealized PNL: %s\n", pnl.StringFixed(2))
	}

	snapshot, err := book.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := ledger.SaveSnapshotFile(a.cfg.SnapshotFile, snapshot); err != nil {
		return err
	}
	if transactions := book.Transactions(); len(transactions) > 0 {
		if err := ledger.AppendTransactionLog(a.cfg.TransactionLog, transactions); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "portfolio saved to %s\n", a.cfg.SnapshotFile)
	return nil
}

func readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}
