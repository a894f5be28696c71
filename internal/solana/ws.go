package solana

import (
	"context"

	"solana-governance-kit/internal/address"
)

// WSClient defines Solana WebSocket subscription interface.
type WSClient interface {
	// SubscribeAccount streams every change to one account.
	SubscribeAccount(ctx context.Context, account address.PublicKey) (<-chan AccountNotification, error)

	// SubscribeProgram streams changes to accounts owned by program that
	// pass all filters.
	SubscribeProgram(ctx context.Context, program address.PublicKey, filters ...Filter) (<-chan AccountNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// AccountNotification represents an account or program subscription message.
type AccountNotification struct {
	Address address.PublicKey
	Account Account
	Slot    uint64
}
