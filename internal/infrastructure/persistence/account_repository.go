package persistence

import (
	"context"
	"errors"

	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uint64) (*ledger.Account, error) {
	var account ledger.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByIdentity finds the account matching a uniqueness triple
func (r *GormAccountRepository) FindByIdentity(ctx context.Context, identity ledger.AccountIdentity) (*ledger.Account, error) {
	var account ledger.Account
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND owner_id = ? AND counterpart_agent_id = ? AND currency_code = ?",
			identity.Kind, identity.OwnerID, identity.CounterpartAgentID, identity.CurrencyCode).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// Create inserts a new account row
func (r *GormAccountRepository) Create(ctx context.Context, account *ledger.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewDomainError(shared.CodeAlreadyExists,
				"An account already exists for this owner, kind and currency")
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, account *ledger.Account) error {
	result := r.db.WithContext(ctx).
		Model(account).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
		Updates(map[string]interface{}{
			"balance":    account.Balance,
			"active":     account.Active,
			"version":    account.Version,
			"updated_at": account.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict,
			"Account was modified by another transaction")
	}
	return nil
}

// Ensure GormAccountRepository implements the interface
var _ ledger.AccountRepository = (*GormAccountRepository)(nil)
