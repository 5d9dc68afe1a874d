package ledger

import (
	"errors"

	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/sarafi/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AccountKind distinguishes the two account variants the ledger tracks:
// a hawaladar's cash account and a customer's savings account held with
// a specific hawaladar.
type AccountKind string

const (
	AccountKindAgentCash       AccountKind = "agent_cash"
	AccountKindCustomerSavings AccountKind = "customer_savings"
)

// IsValid checks if the kind is a known AccountKind
func (k AccountKind) IsValid() bool {
	return k == AccountKindAgentCash || k == AccountKindCustomerSavings
}

// String returns the string representation of AccountKind
func (k AccountKind) String() string {
	return string(k)
}

// Account is the aggregate owning a monetary balance. The balance is mutated
// only through Credit/Debit; persistence enforces the version check so two
// concurrent mutations cannot both apply against the same snapshot.
//
// Identity: (kind, owner, counterpart agent, currency) is unique. Agent cash
// accounts have CounterpartAgentID zero; customer savings accounts carry the
// id of the hawaladar holding the funds.
type Account struct {
	shared.BaseAggregateRoot
	Kind               AccountKind     `gorm:"type:varchar(20);not null;uniqueIndex:idx_account_identity,priority:1" json:"kind"`
	OwnerID            uint64          `gorm:"not null;uniqueIndex:idx_account_identity,priority:2;index" json:"owner_id"`
	CounterpartAgentID uint64          `gorm:"not null;default:0;uniqueIndex:idx_account_identity,priority:3" json:"counterpart_agent_id"`
	CurrencyCode       string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_account_identity,priority:4" json:"currency_code"`
	Balance            decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"balance"`
	Active             bool            `gorm:"not null;default:true" json:"active"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "ledger_accounts"
}

// NewAgentCashAccount opens a cash account for a hawaladar
func NewAgentCashAccount(agentID uint64, currencyCode string) (*Account, error) {
	return newAccount(AccountKindAgentCash, agentID, 0, currencyCode)
}

// NewCustomerSavingsAccount opens a savings account for a customer held
// with the given hawaladar
func NewCustomerSavingsAccount(customerID, agentID uint64, currencyCode string) (*Account, error) {
	if agentID == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Savings account requires a counterpart agent")
	}
	return newAccount(AccountKindCustomerSavings, customerID, agentID, currencyCode)
}

func newAccount(kind AccountKind, ownerID, counterpartAgentID uint64, currencyCode string) (*Account, error) {
	if ownerID == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Account owner cannot be empty")
	}
	if currencyCode == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Currency code cannot be empty")
	}
	account := &Account{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Kind:               kind,
		OwnerID:            ownerID,
		CounterpartAgentID: counterpartAgentID,
		CurrencyCode:       currencyCode,
		Balance:            decimal.Zero,
		Active:             true,
	}
	account.AddDomainEvent(NewAccountOpenedEvent(account))
	return account, nil
}

// BalanceMoney returns the current balance as a Money value
func (a *Account) BalanceMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(a.Balance, a.CurrencyCode)
	return m
}

// Credit adds a positive amount to the balance
func (a *Account) Credit(amount valueobject.Money) error {
	if err := a.checkMutable(amount); err != nil {
		return err
	}
	newBalance, err := a.BalanceMoney().Add(amount)
	if err != nil {
		return shared.NewDomainError(shared.CodeInvalidInput, err.Error())
	}
	a.Balance = newBalance.Amount()
	a.IncrementVersion()
	return nil
}

// Debit subtracts a positive amount from the balance. A result below zero
// is rejected with INSUFFICIENT_BALANCE and the account is left untouched.
func (a *Account) Debit(amount valueobject.Money) error {
	if err := a.checkMutable(amount); err != nil {
		return err
	}
	newBalance, err := a.BalanceMoney().Sub(amount)
	if err != nil {
		if errors.Is(err, valueobject.ErrNegativeResult) {
			return shared.ErrInsufficientBalance
		}
		return shared.NewDomainError(shared.CodeInvalidInput, err.Error())
	}
	a.Balance = newBalance.Amount()
	a.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the account. Audit history keeps referencing it,
// so rows are never physically removed.
func (a *Account) Deactivate() error {
	if !a.Active {
		return shared.ErrInvalidState
	}
	a.Active = false
	a.IncrementVersion()
	a.AddDomainEvent(NewAccountDeactivatedEvent(a))
	return nil
}

func (a *Account) checkMutable(amount valueobject.Money) error {
	if !a.Active {
		return shared.ErrAccountInactive
	}
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Amount must be positive")
	}
	if amount.Currency() != a.CurrencyCode {
		return shared.NewDomainError(shared.CodeInvalidInput, "Amount currency does not match account currency")
	}
	return nil
}
