package ledger

import (
	"github.com/sarafi/backend/internal/domain/shared"
)

// AccountOpenedEvent is raised when a new ledger account is opened
type AccountOpenedEvent struct {
	shared.BaseDomainEvent
	AccountID    uint64      `json:"account_id"`
	Kind         AccountKind `json:"kind"`
	OwnerID      uint64      `json:"owner_id"`
	CurrencyCode string      `json:"currency_code"`
}

// EventType returns the event type name
func (e *AccountOpenedEvent) EventType() string {
	return "AccountOpened"
}

// NewAccountOpenedEvent creates a new AccountOpenedEvent
func NewAccountOpenedEvent(account *Account) *AccountOpenedEvent {
	return &AccountOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountOpened", "Account", account.ID),
		AccountID:       account.ID,
		Kind:            account.Kind,
		OwnerID:         account.OwnerID,
		CurrencyCode:    account.CurrencyCode,
	}
}

// AccountDeactivatedEvent is raised when an account is soft-deactivated
type AccountDeactivatedEvent struct {
	shared.BaseDomainEvent
	AccountID uint64 `json:"account_id"`
}

// EventType returns the event type name
func (e *AccountDeactivatedEvent) EventType() string {
	return "AccountDeactivated"
}

// NewAccountDeactivatedEvent creates a new AccountDeactivatedEvent
func NewAccountDeactivatedEvent(account *Account) *AccountDeactivatedEvent {
	return &AccountDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountDeactivated", "Account", account.ID),
		AccountID:       account.ID,
	}
}
