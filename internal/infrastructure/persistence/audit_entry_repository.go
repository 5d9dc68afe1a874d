package persistence

import (
	"context"

	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAuditEntryRepository implements ledger.AuditEntryRepository using GORM.
// Entries are append-only; the repository exposes no update or delete path.
type GormAuditEntryRepository struct {
	db *gorm.DB
}

// NewGormAuditEntryRepository creates a new GormAuditEntryRepository
func NewGormAuditEntryRepository(db *gorm.DB) *GormAuditEntryRepository {
	return &GormAuditEntryRepository{db: db}
}

// Append inserts one immutable audit entry
func (r *GormAuditEntryRepository) Append(ctx context.Context, entry *ledger.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByAccount pages through an account's history, newest first
func (r *GormAuditEntryRepository) ListByAccount(ctx context.Context, accountID uint64, filter shared.Filter) (shared.Paginated[ledger.AuditEntry], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.AuditEntry{}).
		Where("account_id = ?", accountID).
		Count(&total).Error; err != nil {
		return shared.Paginated[ledger.AuditEntry]{}, err
	}

	var entries []ledger.AuditEntry
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&entries).Error; err != nil {
		return shared.Paginated[ledger.AuditEntry]{}, err
	}

	return shared.NewPaginated(entries, total, filter.Page, filter.PageSize), nil
}

// SumByAccount folds all of an account's signed amounts in the store
func (r *GormAuditEntryRepository) SumByAccount(ctx context.Context, accountID uint64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&ledger.AuditEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ?", accountID).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// CountByAccount counts an account's entries
func (r *GormAuditEntryRepository) CountByAccount(ctx context.Context, accountID uint64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.AuditEntry{}).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormAuditEntryRepository implements the interface
var _ ledger.AuditEntryRepository = (*GormAuditEntryRepository)(nil)
