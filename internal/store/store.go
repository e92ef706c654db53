package store

import (
	"context"
	"errors"

	"ton-faucet-go/internal/models"
)

// ErrStorage marks a ledger I/O failure. Callers must not assume partial
// success when they see it and must not retry automatically.
var ErrStorage = errors.New("ledger storage failure")

// AttemptParams contains the parameters for recording one distribution attempt.
type AttemptParams struct {
	UserId       int64
	Username     string
	TonAddress   string
	TokensAmount int64
	Success      bool
	TxHash       string
	ErrorMessage string
}

// Ledger defines the contract the admission pipeline and the stats surface
// need from the persistent request/address history.
type Ledger interface {
	// RecordAttempt appends a RequestRecord and, on success, upserts the
	// address aggregate. Both writes happen atomically.
	RecordAttempt(ctx context.Context, params AttemptParams) error

	// CountSuccessfulToday returns the number of successful distributions for
	// the user since local midnight.
	CountSuccessfulToday(ctx context.Context, userId int64) (int, error)

	// RemainingQuota is maxPerDay minus today's successful count. May be
	// negative; callers interpret anything <= 0 as exhausted.
	RemainingQuota(ctx context.Context, userId int64, maxPerDay int) (int, error)

	GlobalStatistics(ctx context.Context) (models.GlobalStats, error)

	// HasAddressReceived reports whether the address ever received tokens.
	HasAddressReceived(ctx context.Context, tonAddress string) (bool, error)

	// AddressHistory returns the aggregate for one address, or nil when the
	// address never received tokens.
	AddressHistory(ctx context.Context, tonAddress string) (*models.AddressHistory, error)

	Close()
}
