// Package ledger reads token balances and submits transfers.
package ledger

import (
	"context"
	"errors"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidRecipient  = errors.New("invalid recipient address")
)

// Receipt identifies a submitted transfer.
type Receipt struct {
	TxHash string
	From   string
	To     string
	Amount Amount
}

// Ledger is the token ledger collaborator.
type Ledger interface {
	// Decimals is the token's decimal places, used to parse amounts.
	Decimals() int
	Balance(ctx context.Context, address string) (Amount, error)
	// Transfer signs with privateKey and submits; it does not wait for
	// inclusion.
	Transfer(ctx context.Context, privateKey []byte, to string, amount Amount) (Receipt, error)
}
