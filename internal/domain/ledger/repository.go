package ledger

import (
	"context"

	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountIdentity is the uniqueness triple (plus kind) that addresses an
// account: exactly one account may exist per identity.
type AccountIdentity struct {
	Kind               AccountKind
	OwnerID            uint64
	CounterpartAgentID uint64
	CurrencyCode       string
}

// AccountRepository defines persistence for ledger accounts
type AccountRepository interface {
	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uint64) (*Account, error)

	// FindByIdentity finds the account for a uniqueness triple
	FindByIdentity(ctx context.Context, identity AccountIdentity) (*Account, error)

	// Create inserts a new account; a duplicate identity fails with
	// ALREADY_EXISTS
	Create(ctx context.Context, account *Account) error

	// SaveWithLock persists a mutated account with an optimistic version
	// check; a stale version fails with CONCURRENCY_CONFLICT and writes
	// nothing
	SaveWithLock(ctx context.Context, account *Account) error
}

// AuditEntryRepository defines persistence for the append-only audit log
type AuditEntryRepository interface {
	// Append inserts one immutable audit entry
	Append(ctx context.Context, entry *AuditEntry) error

	// ListByAccount pages through an account's history, newest first
	ListByAccount(ctx context.Context, accountID uint64, filter shared.Filter) (shared.Paginated[AuditEntry], error)

	// SumByAccount folds all of an account's entries in the store
	SumByAccount(ctx context.Context, accountID uint64) (decimal.Decimal, error)

	// CountByAccount counts an account's entries
	CountByAccount(ctx context.Context, accountID uint64) (int64, error)
}

// SequenceRepository issues reference numbers. Next must perform the
// year-check, increment and read-back as one atomic unit relative to all
// other callers; a lost increment is a correctness bug, not a retry detail.
type SequenceRepository interface {
	// Next returns the next counter value for the year, starting at 1 for
	// a year's first call. Contention that prevents the atomic update from
	// applying fails with SEQUENCE_UPDATE_FAILED (transient, retryable).
	Next(ctx context.Context, year int) (int64, error)
}

// CurrencyRepository defines persistence for currency reference data
type CurrencyRepository interface {
	// FindByCode finds an active currency by its code
	FindByCode(ctx context.Context, code string) (*Currency, error)

	// Save creates or updates a currency row
	Save(ctx context.Context, currency *Currency) error
}

// Repositories bundles the ledger repositories bound to one transaction
type Repositories struct {
	Accounts   AccountRepository
	Entries    AuditEntryRepository
	Sequences  SequenceRepository
	Currencies CurrencyRepository
}

// UnitOfWork runs a function with transaction-scoped repositories. The
// balance write and the audit append of one mutation always share a unit:
// both commit or neither does.
type UnitOfWork interface {
	InTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}
