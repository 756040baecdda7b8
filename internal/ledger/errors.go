package ledger

import "errors"

// Ledger error declarations. Every failed operation leaves the ledger
// exactly as it was; none of these is ever swallowed into a default value.
var (
	ErrInvalidInput       = errors.New("invalid trade input")
	ErrInsufficientFunds  = errors.New("insufficient cash for buy")
	ErrNoSuchPosition     = errors.New("no open position for symbol")
	ErrInsufficientShares = errors.New("sell quantity exceeds held shares")
)
