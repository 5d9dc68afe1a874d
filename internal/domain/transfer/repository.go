package transfer

import (
	"context"
	"time"

	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/domain/shared"
)

// Filter defines filtering options for transfer queries
type Filter struct {
	shared.Filter
	Status       *Status
	CurrencyCode *string
	AgentID      *uint64
	FromDate     *time.Time
	ToDate       *time.Time
}

// TransferRepository defines persistence for hawala transfers
type TransferRepository interface {
	// Create inserts a new transfer row
	Create(ctx context.Context, transfer *Transfer) error

	// FindByID finds a transfer by ID
	FindByID(ctx context.Context, id uint64) (*Transfer, error)

	// FindByReferenceCode finds a transfer by its reference code
	FindByReferenceCode(ctx context.Context, code string) (*Transfer, error)

	// SaveWithLock persists a mutated transfer with an optimistic version
	// check; a stale version fails with CONCURRENCY_CONFLICT
	SaveWithLock(ctx context.Context, transfer *Transfer) error

	// List pages through transfers with filtering, newest first
	List(ctx context.Context, filter Filter) (shared.Paginated[Transfer], error)
}

// Repositories bundles everything a transfer operation may touch inside one
// transaction: the transfer row plus the ledger it moves money through.
type Repositories struct {
	Transfers  TransferRepository
	Accounts   ledger.AccountRepository
	Entries    ledger.AuditEntryRepository
	Sequences  ledger.SequenceRepository
	Currencies ledger.CurrencyRepository
}

// UnitOfWork runs a function with transaction-scoped repositories. A
// transfer's debit and its row creation share one unit: both commit or
// neither does.
type UnitOfWork interface {
	InTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}
