package persistence

import (
	"context"
	"errors"

	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/sarafi/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormTransferRepository implements transfer.TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// Create inserts a new transfer row
func (r *GormTransferRepository) Create(ctx context.Context, tr *transfer.Transfer) error {
	if err := r.db.WithContext(ctx).Create(tr).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewDomainError(shared.CodeAlreadyExists,
				"A transfer with this reference code already exists")
		}
		return err
	}
	return nil
}

// FindByID finds a transfer by ID
func (r *GormTransferRepository) FindByID(ctx context.Context, id uint64) (*transfer.Transfer, error) {
	var tr transfer.Transfer
	if err := r.db.WithContext(ctx).First(&tr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tr, nil
}

// FindByReferenceCode finds a transfer by its reference code
func (r *GormTransferRepository) FindByReferenceCode(ctx context.Context, code string) (*transfer.Transfer, error) {
	var tr transfer.Transfer
	if err := r.db.WithContext(ctx).
		First(&tr, "reference_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tr, nil
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormTransferRepository) SaveWithLock(ctx context.Context, tr *transfer.Transfer) error {
	result := r.db.WithContext(ctx).
		Model(tr).
		Where("id = ? AND version = ?", tr.ID, tr.Version-1).
		Updates(map[string]interface{}{
			"status":          tr.Status,
			"debit_entry_id":  tr.DebitEntryID,
			"credit_entry_id": tr.CreditEntryID,
			"refund_entry_id": tr.RefundEntryID,
			"completed_by_id": tr.CompletedByID,
			"completed_at":    tr.CompletedAt,
			"cancelled_by_id": tr.CancelledByID,
			"cancelled_at":    tr.CancelledAt,
			"version":         tr.Version,
			"updated_at":      tr.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict,
			"Transfer was modified by another transaction")
	}
	return nil
}

// List pages through transfers with filtering, newest first
func (r *GormTransferRepository) List(ctx context.Context, filter transfer.Filter) (shared.Paginated[transfer.Transfer], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}

	applyFilters := func(q *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			q = q.Where("status = ?", *filter.Status)
		}
		if filter.CurrencyCode != nil {
			q = q.Where("currency_code = ?", *filter.CurrencyCode)
		}
		if filter.AgentID != nil {
			q = q.Where("(sender_agent_id = ? OR receiver_agent_id = ?)", *filter.AgentID, *filter.AgentID)
		}
		if filter.FromDate != nil {
			q = q.Where("created_at >= ?", *filter.FromDate)
		}
		if filter.ToDate != nil {
			q = q.Where("created_at <= ?", *filter.ToDate)
		}
		return q
	}

	var total int64
	if err := applyFilters(r.db.WithContext(ctx).Model(&transfer.Transfer{})).
		Count(&total).Error; err != nil {
		return shared.Paginated[transfer.Transfer]{}, err
	}

	var transfers []transfer.Transfer
	if err := applyFilters(r.db.WithContext(ctx)).
		Order("id DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&transfers).Error; err != nil {
		return shared.Paginated[transfer.Transfer]{}, err
	}

	return shared.NewPaginated(transfers, total, filter.Page, filter.PageSize), nil
}

// Ensure GormTransferRepository implements the interface
var _ transfer.TransferRepository = (*GormTransferRepository)(nil)
