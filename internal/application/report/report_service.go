package report

import (
	"context"

	"github.com/sarafi/backend/internal/domain/report"
	"go.uber.org/zap"
)

// ReportService exposes the read-only aggregation and reconciliation
// queries. Nothing here mutates state.
type ReportService struct {
	reports report.Repository
	logger  *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(reports report.Repository, logger *zap.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		logger:  logger.Named("report_service"),
	}
}

// TotalsByStatus sums transfers grouped by lifecycle status
func (s *ReportService) TotalsByStatus(ctx context.Context, period report.Period) ([]report.StatusTotal, error) {
	return s.reports.TotalsByStatus(ctx, period)
}

// TotalsByAgent sums completed transfers grouped by sending agent
func (s *ReportService) TotalsByAgent(ctx context.Context, period report.Period) ([]report.AgentTotal, error) {
	return s.reports.TotalsByAgent(ctx, period)
}

// TotalsByCurrency sums transfers grouped by currency
func (s *ReportService) TotalsByCurrency(ctx context.Context, period report.Period) ([]report.CurrencyTotal, error) {
	return s.reports.TotalsByCurrency(ctx, period)
}

// ReconcileCompletedTransfers compares completed transfer amounts against
// the receiver-side credits they produced and logs an imbalance.
func (s *ReportService) ReconcileCompletedTransfers(ctx context.Context) (report.Reconciliation, error) {
	rec, err := s.reports.ReconcileCompletedTransfers(ctx)
	if err != nil {
		return report.Reconciliation{}, err
	}
	if !rec.Balanced() {
		s.logger.Warn("completed transfers and credited entries disagree",
			zap.String("completed_amount", rec.CompletedAmount.String()),
			zap.String("credited_amount", rec.CreditedAmount.String()))
	}
	return rec, nil
}
