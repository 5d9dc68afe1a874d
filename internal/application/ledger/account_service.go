package ledger

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/sarafi/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// maxConflictRetries bounds the retries for transient store conflicts.
// Business errors are never retried.
const maxConflictRetries = 3

// AccountService handles account lifecycle and balance mutations. Every
// balance mutation and its audit entry run inside one unit of work.
type AccountService struct {
	uow            ledger.UnitOfWork
	accounts       ledger.AccountRepository
	entries        ledger.AuditEntryRepository
	validate       *validator.Validate
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(
	uow ledger.UnitOfWork,
	accounts ledger.AccountRepository,
	entries ledger.AuditEntryRepository,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		uow:      uow,
		accounts: accounts,
		entries:  entries,
		validate: validator.New(),
		logger:   logger.Named("account_service"),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes pending events after a successful commit.
// Errors are logged by the event bus, not propagated.
func (s *AccountService) publishDomainEvents(ctx context.Context, account *ledger.Account) {
	if s.eventPublisher == nil {
		return
	}
	events := account.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	account.ClearDomainEvents()
}

// retryOnConflict runs fn up to maxConflictRetries times, retrying only
// transient conflicts (optimistic lock or sequence contention).
func retryOnConflict(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || !domainErr.IsTransient() {
			return err
		}
	}
	return err
}

// OpenAccount opens a new ledger account. The currency must exist as active
// reference data; the (kind, owner, counterpart, currency) identity must be
// unused.
func (s *AccountService) OpenAccount(ctx context.Context, req OpenAccountRequest) (*AccountResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, err.Error())
	}

	var account *ledger.Account
	err := s.uow.InTransaction(ctx, func(repos *ledger.Repositories) error {
		currency, err := repos.Currencies.FindByCode(ctx, req.CurrencyCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.CodeInvalidInput, "Unknown currency "+req.CurrencyCode)
			}
			return err
		}

		switch ledger.AccountKind(req.Kind) {
		case ledger.AccountKindAgentCash:
			account, err = ledger.NewAgentCashAccount(req.OwnerID, currency.Code)
		case ledger.AccountKindCustomerSavings:
			account, err = ledger.NewCustomerSavingsAccount(req.OwnerID, req.CounterpartAgentID, currency.Code)
		default:
			return shared.NewDomainError(shared.CodeInvalidInput, "Unknown account kind "+req.Kind)
		}
		if err != nil {
			return err
		}
		return repos.Accounts.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, account)

	s.logger.Info("account opened",
		zap.Uint64("account_id", account.ID),
		zap.String("kind", req.Kind),
		zap.String("currency", account.CurrencyCode))

	response := ToAccountResponse(account)
	return &response, nil
}

// Deposit credits an account and appends the matching audit entry
func (s *AccountService) Deposit(ctx context.Context, req MutateBalanceRequest) (*AuditEntryResponse, error) {
	return s.mutate(ctx, req, ledger.EntryKindDeposit)
}

// Withdraw debits an account and appends the matching audit entry. An
// overdraw is rejected with INSUFFICIENT_BALANCE and leaves no trace.
func (s *AccountService) Withdraw(ctx context.Context, req MutateBalanceRequest) (*AuditEntryResponse, error) {
	return s.mutate(ctx, req, ledger.EntryKindWithdraw)
}

func (s *AccountService) mutate(ctx context.Context, req MutateBalanceRequest, kind ledger.EntryKind) (*AuditEntryResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, err.Error())
	}
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Amount must be positive")
	}

	var entry *ledger.AuditEntry
	err := retryOnConflict(func() error {
		return s.uow.InTransaction(ctx, func(repos *ledger.Repositories) error {
			account, err := repos.Accounts.FindByID(ctx, req.AccountID)
			if err != nil {
				return err
			}

			currency, err := repos.Currencies.FindByCode(ctx, account.CurrencyCode)
			if err != nil {
				return err
			}
			amount := req.Amount.Round(currency.Precision)

			money, err := valueobject.NewMoney(amount, account.CurrencyCode)
			if err != nil {
				return shared.NewDomainError(shared.CodeInvalidInput, err.Error())
			}

			before := account.Balance
			if kind.IsCredit() {
				err = account.Credit(money)
			} else {
				err = account.Debit(money)
			}
			if err != nil {
				return err
			}

			if err := repos.Accounts.SaveWithLock(ctx, account); err != nil {
				return err
			}

			entry, err = ledger.NewAuditEntry(account, kind, amount, before, req.ActorID, nil)
			if err != nil {
				return err
			}
			return repos.Entries.Append(ctx, entry)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("balance mutated",
		zap.Uint64("account_id", req.AccountID),
		zap.String("kind", string(kind)),
		zap.String("amount", req.Amount.String()))

	response := ToAuditEntryResponse(*entry)
	return &response, nil
}

// GetAccount retrieves an account by ID
func (s *AccountService) GetAccount(ctx context.Context, accountID uint64) (*AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// GetByIdentity retrieves the account matching a uniqueness triple
func (s *AccountService) GetByIdentity(ctx context.Context, identity ledger.AccountIdentity) (*AccountResponse, error) {
	account, err := s.accounts.FindByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// ListEntries pages through an account's audit history, newest first
func (s *AccountService) ListEntries(ctx context.Context, accountID uint64, filter shared.Filter) (shared.Paginated[AuditEntryResponse], error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return shared.Paginated[AuditEntryResponse]{}, err
	}

	page, err := s.entries.ListByAccount(ctx, accountID, filter)
	if err != nil {
		return shared.Paginated[AuditEntryResponse]{}, err
	}
	return shared.NewPaginated(ToAuditEntryResponses(page.Items), page.Total, page.Page, page.PageSize), nil
}

// ReconcileAccount folds the account's audit entries in the store and
// compares the result with the stored balance
func (s *AccountService) ReconcileAccount(ctx context.Context, accountID uint64) (*AccountReconciliation, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sum, err := s.entries.SumByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &AccountReconciliation{
		AccountID:     accountID,
		StoredBalance: account.Balance,
		EntrySum:      sum,
		Balanced:      account.Balance.Equal(sum),
	}, nil
}

// DeactivateAccount soft-deletes an account; its history stays readable
func (s *AccountService) DeactivateAccount(ctx context.Context, accountID uint64) error {
	var account *ledger.Account
	err := retryOnConflict(func() error {
		return s.uow.InTransaction(ctx, func(repos *ledger.Repositories) error {
			var err error
			account, err = repos.Accounts.FindByID(ctx, accountID)
			if err != nil {
				return err
			}
			if err := account.Deactivate(); err != nil {
				return err
			}
			return repos.Accounts.SaveWithLock(ctx, account)
		})
	})
	if err != nil {
		return err
	}
	s.publishDomainEvents(ctx, account)

	s.logger.Info("account deactivated", zap.Uint64("account_id", accountID))
	return nil
}
