package transfer

import (
	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransferCreatedEvent is raised when a new transfer enters the lifecycle
type TransferCreatedEvent struct {
	shared.BaseDomainEvent
	TransferID    uint64          `json:"transfer_id"`
	ReferenceCode string          `json:"reference_code"`
	CurrencyCode  string          `json:"currency_code"`
	Amount        decimal.Decimal `json:"amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedByID   uint64          `json:"created_by_id"`
}

// EventType returns the event type name
func (e *TransferCreatedEvent) EventType() string {
	return "TransferCreated"
}

// NewTransferCreatedEvent creates a new TransferCreatedEvent
func NewTransferCreatedEvent(t *Transfer) *TransferCreatedEvent {
	return &TransferCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransferCreated", "Transfer", t.ID),
		TransferID:      t.ID,
		ReferenceCode:   t.ReferenceCode,
		CurrencyCode:    t.CurrencyCode,
		Amount:          t.Amount,
		TotalAmount:     t.TotalAmount,
		CreatedByID:     t.CreatedByID,
	}
}

// TransferStatusChangedEvent is raised on every accepted status transition
type TransferStatusChangedEvent struct {
	shared.BaseDomainEvent
	TransferID    uint64  `json:"transfer_id"`
	ReferenceCode string  `json:"reference_code"`
	FromStatus    Status  `json:"from_status"`
	ToStatus      Status  `json:"to_status"`
	ActorID       *uint64 `json:"actor_id,omitempty"`
}

// EventType returns the event type name
func (e *TransferStatusChangedEvent) EventType() string {
	return "TransferStatusChanged"
}

// NewTransferStatusChangedEvent creates a new TransferStatusChangedEvent
func NewTransferStatusChangedEvent(t *Transfer, from Status, actorID *uint64) *TransferStatusChangedEvent {
	return &TransferStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransferStatusChanged", "Transfer", t.ID),
		TransferID:      t.ID,
		ReferenceCode:   t.ReferenceCode,
		FromStatus:      from,
		ToStatus:        t.Status,
		ActorID:         actorID,
	}
}

// TransferCancelledEvent is raised when a transfer terminates in cancelled
type TransferCancelledEvent struct {
	shared.BaseDomainEvent
	TransferID    uint64          `json:"transfer_id"`
	ReferenceCode string          `json:"reference_code"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *TransferCancelledEvent) EventType() string {
	return "TransferCancelled"
}

// NewTransferCancelledEvent creates a new TransferCancelledEvent
func NewTransferCancelledEvent(t *Transfer) *TransferCancelledEvent {
	return &TransferCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransferCancelled", "Transfer", t.ID),
		TransferID:      t.ID,
		ReferenceCode:   t.ReferenceCode,
		TotalAmount:     t.TotalAmount,
	}
}
