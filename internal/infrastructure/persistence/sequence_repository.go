package persistence

import (
	"context"
	"time"

	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSequenceRepository implements ledger.SequenceRepository using GORM.
// The counter moves only through an in-database increment so two concurrent
// callers can never read the same value; the increment and the read-back
// happen inside one transaction.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next returns the next counter value for the year. The first call of a new
// year inserts the row with counter 1; later calls apply an atomic
// counter = counter + 1 and read the result back while still holding the
// row lock the update acquired.
func (r *GormSequenceRepository) Next(ctx context.Context, year int) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ledger.ReferenceSequence{}).
			Where("year = ?", year).
			Updates(map[string]interface{}{
				"counter":    gorm.Expr("counter + 1"),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// First issue for this year. A concurrent first caller may win
			// the insert race; fall back to the increment in that case.
			seq := &ledger.ReferenceSequence{Year: year, Counter: 1, UpdatedAt: time.Now()}
			if err := tx.Create(seq).Error; err != nil {
				if !isDuplicateKey(err) {
					return err
				}
				result = tx.Model(&ledger.ReferenceSequence{}).
					Where("year = ?", year).
					Updates(map[string]interface{}{
						"counter":    gorm.Expr("counter + 1"),
						"updated_at": time.Now(),
					})
				if result.Error != nil {
					return result.Error
				}
				if result.RowsAffected == 0 {
					return shared.ErrSequenceUpdateFailed
				}
			} else {
				value = 1
				return nil
			}
		}

		var seq ledger.ReferenceSequence
		if err := tx.First(&seq, "year = ?", year).Error; err != nil {
			return err
		}
		value = seq.Counter
		return nil
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Ensure GormSequenceRepository implements the interface
var _ ledger.SequenceRepository = (*GormSequenceRepository)(nil)
