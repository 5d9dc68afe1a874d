package persistence

import (
	"context"

	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/domain/report"
	"github.com/sarafi/backend/internal/domain/transfer"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM. All queries
// are read-only aggregations over the transfer and audit entry tables.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func (r *GormReportRepository) periodScope(q *gorm.DB, period report.Period) *gorm.DB {
	if !period.From.IsZero() {
		q = q.Where("created_at >= ?", period.From)
	}
	if !period.To.IsZero() {
		q = q.Where("created_at <= ?", period.To)
	}
	return q
}

// TotalsByStatus sums transfers grouped by lifecycle status
func (r *GormReportRepository) TotalsByStatus(ctx context.Context, period report.Period) ([]report.StatusTotal, error) {
	var totals []report.StatusTotal
	q := r.db.WithContext(ctx).
		Model(&transfer.Transfer{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(commission_amount), 0) AS commission_total").
		Group("status")
	if err := r.periodScope(q, period).Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// TotalsByAgent sums completed transfers grouped by sending agent
func (r *GormReportRepository) TotalsByAgent(ctx context.Context, period report.Period) ([]report.AgentTotal, error) {
	var totals []report.AgentTotal
	q := r.db.WithContext(ctx).
		Model(&transfer.Transfer{}).
		Select("sender_agent_id AS agent_id, currency_code, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(commission_amount), 0) AS commission_total").
		Where("status = ? AND sender_agent_id IS NOT NULL", transfer.StatusCompleted).
		Group("sender_agent_id, currency_code")
	if err := r.periodScope(q, period).Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// TotalsByCurrency sums transfers grouped by currency
func (r *GormReportRepository) TotalsByCurrency(ctx context.Context, period report.Period) ([]report.CurrencyTotal, error) {
	var totals []report.CurrencyTotal
	q := r.db.WithContext(ctx).
		Model(&transfer.Transfer{}).
		Select("currency_code, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(commission_amount), 0) AS commission_total").
		Group("currency_code")
	if err := r.periodScope(q, period).Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// ReconcileCompletedTransfers compares completed transfers that credited a
// receiver account against the transfer_in audit entries those completions
// produced. The two sums must agree on a balanced ledger.
func (r *GormReportRepository) ReconcileCompletedTransfers(ctx context.Context) (report.Reconciliation, error) {
	var completed decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&transfer.Transfer{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND credit_entry_id IS NOT NULL", transfer.StatusCompleted).
		Scan(&completed).Error; err != nil {
		return report.Reconciliation{}, err
	}

	// Only the entries linked as a transfer's credit count; cancellation
	// refunds share the transfer_in kind but are not receiver credits.
	var credited decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&ledger.AuditEntry{}).
		Select("COALESCE(SUM(audit_entries.amount), 0)").
		Joins("JOIN hawala_transfers ON hawala_transfers.credit_entry_id = audit_entries.id").
		Where("hawala_transfers.status = ?", transfer.StatusCompleted).
		Scan(&credited).Error; err != nil {
		return report.Reconciliation{}, err
	}

	return report.Reconciliation{
		CompletedAmount: completed,
		CreditedAmount:  credited,
	}, nil
}

// Ensure GormReportRepository implements the interface
var _ report.Repository = (*GormReportRepository)(nil)
