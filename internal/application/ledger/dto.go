package ledger

import (
	"time"

	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// OpenAccountRequest represents a request to open a ledger account
type OpenAccountRequest struct {
	Kind               string `json:"kind" validate:"required,oneof=agent_cash customer_savings"`
	OwnerID            uint64 `json:"owner_id" validate:"required"`
	CounterpartAgentID uint64 `json:"counterpart_agent_id" validate:"required_if=Kind customer_savings"`
	CurrencyCode       string `json:"currency_code" validate:"required,min=3,max=10"`
}

// MutateBalanceRequest represents a deposit or withdrawal against an account
type MutateBalanceRequest struct {
	AccountID uint64          `json:"account_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	ActorID   uint64          `json:"actor_id" validate:"required"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID                 uint64          `json:"id"`
	Kind               string          `json:"kind"`
	OwnerID            uint64          `json:"owner_id"`
	CounterpartAgentID uint64          `json:"counterpart_agent_id,omitempty"`
	CurrencyCode       string          `json:"currency_code"`
	Balance            decimal.Decimal `json:"balance"`
	Active             bool            `json:"active"`
	Version            int             `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// AuditEntryResponse represents one audit log entry in API responses
type AuditEntryResponse struct {
	ID            uint64          `json:"id"`
	AccountID     uint64          `json:"account_id"`
	Kind          string          `json:"kind"`
	CurrencyCode  string          `json:"currency_code"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	TransferID    *uint64         `json:"transfer_id,omitempty"`
	ActorID       uint64          `json:"actor_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AccountReconciliation compares an account's stored balance with the fold
// of its audit entries
type AccountReconciliation struct {
	AccountID     uint64          `json:"account_id"`
	StoredBalance decimal.Decimal `json:"stored_balance"`
	EntrySum      decimal.Decimal `json:"entry_sum"`
	Balanced      bool            `json:"balanced"`
}

// ToAccountResponse converts a domain account to its response form
func ToAccountResponse(account *ledger.Account) AccountResponse {
	return AccountResponse{
		ID:                 account.ID,
		Kind:               account.Kind.String(),
		OwnerID:            account.OwnerID,
		CounterpartAgentID: account.CounterpartAgentID,
		CurrencyCode:       account.CurrencyCode,
		Balance:            account.Balance,
		Active:             account.Active,
		Version:            account.Version,
		CreatedAt:          account.CreatedAt,
		UpdatedAt:          account.UpdatedAt,
	}
}

// ToAuditEntryResponse converts a domain audit entry to its response form
func ToAuditEntryResponse(entry ledger.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:            entry.ID,
		AccountID:     entry.AccountID,
		Kind:          string(entry.Kind),
		CurrencyCode:  entry.CurrencyCode,
		Amount:        entry.Amount,
		BalanceBefore: entry.BalanceBefore,
		BalanceAfter:  entry.BalanceAfter,
		TransferID:    entry.TransferID,
		ActorID:       entry.ActorID,
		CreatedAt:     entry.CreatedAt,
	}
}

// ToAuditEntryResponses converts a slice of audit entries
func ToAuditEntryResponses(entries []ledger.AuditEntry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = ToAuditEntryResponse(entry)
	}
	return responses
}
