package transfer

import (
	"time"

	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/sarafi/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a hawala transfer
type Status string

const (
	StatusPending   Status = "pending"
	StatusInTransit Status = "in_transit"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are accepted
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the transition s -> target is permitted
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusInTransit || target == StatusCancelled
	case StatusInTransit:
		return target == StatusCompleted || target == StatusCancelled
	}
	return false
}

// Party describes one side of a transfer. Senders may be walk-in customers
// with no ledger account; a linked AccountID ties the side to an agent cash
// account that is debited (sender) or credited (receiver).
type Party struct {
	Name      string  `gorm:"type:varchar(200);not null" json:"name"`
	Phone     string  `gorm:"type:varchar(30)" json:"phone"`
	AgentID   *uint64 `json:"agent_id,omitempty"`
	AccountID *uint64 `json:"account_id,omitempty"`
}

// HasAccount reports whether the party is linked to a ledger account
func (p Party) HasAccount() bool {
	return p.AccountID != nil && *p.AccountID != 0
}

// Transfer is the aggregate driving one hawala transaction. Reference code,
// amount and commission are immutable once created; only the status moves,
// and only through the transition table above. The linked audit-entry ids
// record which ledger mutations this transfer caused.
type Transfer struct {
	shared.BaseAggregateRoot
	ReferenceCode    string          `gorm:"type:varchar(20);not null;uniqueIndex" json:"reference_code"`
	Sender           Party           `gorm:"embedded;embeddedPrefix:sender_" json:"sender"`
	Receiver         Party           `gorm:"embedded;embeddedPrefix:receiver_" json:"receiver"`
	CurrencyCode     string          `gorm:"type:varchar(10);not null;index" json:"currency_code"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(9,6);not null" json:"commission_rate"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"commission_amount"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	Status           Status          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DebitEntryID     *uint64         `json:"debit_entry_id,omitempty"`
	CreditEntryID    *uint64         `json:"credit_entry_id,omitempty"`
	RefundEntryID    *uint64         `json:"refund_entry_id,omitempty"`
	CreatedByID      uint64          `gorm:"not null" json:"created_by_id"`
	CompletedByID    *uint64         `json:"completed_by_id,omitempty"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	CancelledByID    *uint64         `json:"cancelled_by_id,omitempty"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
}

// TableName returns the table name for GORM
func (Transfer) TableName() string {
	return "hawala_transfers"
}

// NewTransfer creates a pending transfer. Commission is computed here, once,
// from the sender-currency rate rounded half-up to the currency's minor
// unit; later rate-table changes never touch an existing transfer.
func NewTransfer(
	referenceCode string,
	sender Party,
	receiver Party,
	amount valueobject.Money,
	commissionRate decimal.Decimal,
	currencyPrecision int32,
	createdByID uint64,
) (*Transfer, error) {
	if referenceCode == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Reference code cannot be empty")
	}
	if sender.Name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Sender name cannot be empty")
	}
	if receiver.Name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Receiver name cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Transfer amount must be positive")
	}
	if commissionRate.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Commission rate cannot be negative")
	}
	if createdByID == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Transfer requires an acting user")
	}

	commission := amount.MulRate(commissionRate, currencyPrecision)
	total, err := amount.Add(commission)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, err.Error())
	}

	tr := &Transfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReferenceCode:     referenceCode,
		Sender:            sender,
		Receiver:          receiver,
		CurrencyCode:      amount.Currency(),
		Amount:            amount.Amount(),
		CommissionRate:    commissionRate,
		CommissionAmount:  commission.Amount(),
		TotalAmount:       total.Amount(),
		Status:            StatusPending,
		CreatedByID:       createdByID,
	}
	tr.AddDomainEvent(NewTransferCreatedEvent(tr))
	return tr, nil
}

// AmountMoney returns the forwarded amount as Money
func (t *Transfer) AmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(t.Amount, t.CurrencyCode)
	return m
}

// TotalMoney returns amount plus commission as Money
func (t *Transfer) TotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(t.TotalAmount, t.CurrencyCode)
	return m
}

// MarkInTransit moves a pending transfer to in_transit
func (t *Transfer) MarkInTransit() error {
	return t.transition(StatusInTransit, nil)
}

// Complete terminates the transfer successfully. Whether a receiver-side
// credit accompanies the status change is the lifecycle manager's concern;
// for a cash pickup this is a pure status change.
func (t *Transfer) Complete(actorID uint64) error {
	if err := t.transition(StatusCompleted, &actorID); err != nil {
		return err
	}
	now := time.Now()
	t.CompletedByID = &actorID
	t.CompletedAt = &now
	return nil
}

// Cancel terminates the transfer. The original debit history stays; the
// lifecycle manager appends a compensating credit and records it via
// AttachRefundEntry.
func (t *Transfer) Cancel(actorID uint64) error {
	if err := t.transition(StatusCancelled, &actorID); err != nil {
		return err
	}
	now := time.Now()
	t.CancelledByID = &actorID
	t.CancelledAt = &now
	t.AddDomainEvent(NewTransferCancelledEvent(t))
	return nil
}

// NeedsRefund reports whether a sender-side debit was taken and has not
// been compensated yet. Guards the cancellation refund against retries.
func (t *Transfer) NeedsRefund() bool {
	return t.DebitEntryID != nil && t.RefundEntryID == nil
}

// AttachDebitEntry records the audit entry id of the sender-side debit
func (t *Transfer) AttachDebitEntry(entryID uint64) {
	t.DebitEntryID = &entryID
}

// AttachCreditEntry records the audit entry id of the receiver-side credit
func (t *Transfer) AttachCreditEntry(entryID uint64) {
	t.CreditEntryID = &entryID
}

// AttachRefundEntry records the audit entry id of the cancellation refund
func (t *Transfer) AttachRefundEntry(entryID uint64) {
	t.RefundEntryID = &entryID
}

func (t *Transfer) transition(target Status, actorID *uint64) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unknown transfer status")
	}
	if !t.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			"Transfer cannot move from "+t.Status.String()+" to "+target.String())
	}
	from := t.Status
	t.Status = target
	t.IncrementVersion()
	t.AddDomainEvent(NewTransferStatusChangedEvent(t, from, actorID))
	return nil
}
