package persistence

import (
	"context"

	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormUnitOfWork runs domain operations inside one database transaction,
// handing the callback repositories bound to that transaction. A balance
// write and its audit append therefore commit together or not at all.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func ledgerRepositories(tx *gorm.DB) *ledger.Repositories {
	return &ledger.Repositories{
		Accounts:   NewGormAccountRepository(tx),
		Entries:    NewGormAuditEntryRepository(tx),
		Sequences:  NewGormSequenceRepository(tx),
		Currencies: NewGormCurrencyRepository(tx),
	}
}

// InTransaction implements ledger.UnitOfWork
func (u *GormUnitOfWork) InTransaction(ctx context.Context, fn func(repos *ledger.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ledgerRepositories(tx))
	})
}

// Ensure GormUnitOfWork implements the interface
var _ ledger.UnitOfWork = (*GormUnitOfWork)(nil)

// GormTransferUnitOfWork is the transfer-context counterpart: the transfer
// row and the ledger it moves money through share one transaction.
type GormTransferUnitOfWork struct {
	db *gorm.DB
}

// NewGormTransferUnitOfWork creates a new GormTransferUnitOfWork
func NewGormTransferUnitOfWork(db *gorm.DB) *GormTransferUnitOfWork {
	return &GormTransferUnitOfWork{db: db}
}

// InTransaction implements transfer.UnitOfWork
func (u *GormTransferUnitOfWork) InTransaction(ctx context.Context, fn func(repos *transfer.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lr := ledgerRepositories(tx)
		return fn(&transfer.Repositories{
			Transfers:  NewGormTransferRepository(tx),
			Accounts:   lr.Accounts,
			Entries:    lr.Entries,
			Sequences:  lr.Sequences,
			Currencies: lr.Currencies,
		})
	})
}

// Ensure GormTransferUnitOfWork implements the interface
var _ transfer.UnitOfWork = (*GormTransferUnitOfWork)(nil)
