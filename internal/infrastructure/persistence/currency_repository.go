package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCurrencyRepository implements ledger.CurrencyRepository using GORM
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a new GormCurrencyRepository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// FindByCode finds an active currency by its code
func (r *GormCurrencyRepository) FindByCode(ctx context.Context, code string) (*ledger.Currency, error) {
	var currency ledger.Currency
	if err := r.db.WithContext(ctx).
		Where("code = ? AND active = ?", strings.ToUpper(code), true).
		First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &currency, nil
}

// Save creates or updates a currency row
func (r *GormCurrencyRepository) Save(ctx context.Context, currency *ledger.Currency) error {
	return r.db.WithContext(ctx).Save(currency).Error
}

// Ensure GormCurrencyRepository implements the interface
var _ ledger.CurrencyRepository = (*GormCurrencyRepository)(nil)
