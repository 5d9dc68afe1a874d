package ledger

import (
	"time"

	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryKind classifies a balance-changing event
type EntryKind string

const (
	EntryKindDeposit     EntryKind = "deposit"
	EntryKindWithdraw    EntryKind = "withdraw"
	EntryKindTransferIn  EntryKind = "transfer_in"
	EntryKindTransferOut EntryKind = "transfer_out"
)

// IsValid checks if the kind is a known EntryKind
func (k EntryKind) IsValid() bool {
	switch k {
	case EntryKindDeposit, EntryKindWithdraw, EntryKindTransferIn, EntryKindTransferOut:
		return true
	}
	return false
}

// IsCredit reports whether the kind increases the balance
func (k EntryKind) IsCredit() bool {
	return k == EntryKindDeposit || k == EntryKindTransferIn
}

// IsDebit reports whether the kind decreases the balance
func (k EntryKind) IsDebit() bool {
	return k == EntryKindWithdraw || k == EntryKindTransferOut
}

// AuditEntry is one immutable record of a balance change. The amount is
// signed by kind (credits positive, debits negative) so folding entries in
// creation order from zero reproduces the account balance. Entries are only
// ever inserted; there is no update or delete path.
type AuditEntry struct {
	ID            uint64          `gorm:"primaryKey" json:"id"`
	AccountID     uint64          `gorm:"not null;index" json:"account_id"`
	AccountKind   AccountKind     `gorm:"type:varchar(20);not null;index" json:"account_kind"`
	Kind          EntryKind       `gorm:"type:varchar(20);not null;index" json:"kind"`
	CurrencyCode  string          `gorm:"type:varchar(10);not null" json:"currency_code"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"balance_after"`
	TransferID    *uint64         `gorm:"index" json:"transfer_id,omitempty"`
	ActorID       uint64          `gorm:"not null" json:"actor_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TableName returns the table name for GORM
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// NewAuditEntry builds the audit row for a mutation that moved an account
// from balanceBefore to balanceAfter. The magnitude is the absolute amount
// moved; the stored amount is signed by kind.
func NewAuditEntry(
	account *Account,
	kind EntryKind,
	magnitude decimal.Decimal,
	balanceBefore decimal.Decimal,
	actorID uint64,
	transferID *uint64,
) (*AuditEntry, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown audit entry kind")
	}
	if !magnitude.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Audit entry amount must be positive")
	}
	signed := magnitude
	if kind.IsDebit() {
		signed = magnitude.Neg()
	}
	return &AuditEntry{
		AccountID:     account.ID,
		AccountKind:   account.Kind,
		Kind:          kind,
		CurrencyCode:  account.CurrencyCode,
		Amount:        signed,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore.Add(signed),
		TransferID:    transferID,
		ActorID:       actorID,
		CreatedAt:     time.Now(),
	}, nil
}

// FoldBalance replays entries in order from zero and returns the resulting
// balance. Used by reconciliation to verify the stored balance.
func FoldBalance(entries []AuditEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		balance = balance.Add(e.Amount)
	}
	return balance
}
