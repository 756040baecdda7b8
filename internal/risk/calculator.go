package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FixedRisk is a plain account-percentage risk calculation: how many shares
// can be bought so that hitting the stop loses at most riskPct of the
// account.
type FixedRisk struct {
	RiskPerShare  decimal.Decimal
	MaxRiskAmount decimal.Decimal
	Shares        int64
}

func CalculateFixedRisk(accountSize, riskPct, entry, stop decimal.Decimal) (FixedRisk, error) {
	if !accountSize.IsPositive() || !riskPct.IsPositive() {
		return FixedRisk{}, fmt.Errorf("account %s risk %s%%: %w", accountSize, riskPct, ErrInvalidInput)
	}
	perShare := entry.Sub(stop).Abs()
	if perShare.IsZero() {
		return FixedRisk{}, fmt.Errorf("entry equals stop at %s: %w", entry, ErrInvalidInput)
	}
	maxRisk := accountSize.Mul(riskPct.Div(decimal.NewFromInt(100)))
	return FixedRisk{
		RiskPerShare:  perShare,
		MaxRiskAmount: maxRisk,
		Shares:        maxRisk.Div(perShare).IntPart(),
	}, nil
}
