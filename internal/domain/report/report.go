package report

import (
	"context"
	"time"

	"github.com/sarafi/backend/internal/domain/transfer"
	"github.com/shopspring/decimal"
)

// StatusTotal aggregates transfers sharing one lifecycle status
type StatusTotal struct {
	Status          transfer.Status `json:"status"`
	Count           int64           `json:"count"`
	Amount          decimal.Decimal `json:"amount"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
}

// AgentTotal aggregates transfers debited from one hawaladar's account
type AgentTotal struct {
	AgentID         uint64          `json:"agent_id"`
	CurrencyCode    string          `json:"currency_code"`
	Count           int64           `json:"count"`
	Amount          decimal.Decimal `json:"amount"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
}

// CurrencyTotal aggregates transfers per currency
type CurrencyTotal struct {
	CurrencyCode    string          `json:"currency_code"`
	Count           int64           `json:"count"`
	Amount          decimal.Decimal `json:"amount"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
}

// Reconciliation compares completed transfer amounts with the receiver-side
// transfer_in audit entries those completions produced. A balanced ledger
// has equal sums.
type Reconciliation struct {
	CompletedAmount decimal.Decimal `json:"completed_amount"`
	CreditedAmount  decimal.Decimal `json:"credited_amount"`
}

// Balanced reports whether the two sides agree
func (r Reconciliation) Balanced() bool {
	return r.CompletedAmount.Equal(r.CreditedAmount)
}

// Period bounds a report query; zero times mean unbounded
type Period struct {
	From time.Time
	To   time.Time
}

// Repository defines the read-only aggregation queries. No mutation happens
// here; everything is derived from Transfer and AuditEntry rows.
type Repository interface {
	// TotalsByStatus sums transfers grouped by lifecycle status
	TotalsByStatus(ctx context.Context, period Period) ([]StatusTotal, error)

	// TotalsByAgent sums completed transfers grouped by sending agent
	TotalsByAgent(ctx context.Context, period Period) ([]AgentTotal, error)

	// TotalsByCurrency sums transfers grouped by currency
	TotalsByCurrency(ctx context.Context, period Period) ([]CurrencyTotal, error)

	// ReconcileCompletedTransfers compares completed transfers that have a
	// receiver account against their transfer_in audit entries
	ReconcileCompletedTransfers(ctx context.Context) (Reconciliation, error)
}
