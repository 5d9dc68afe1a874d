package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/sarafi/backend/internal/domain/shared/valueobject"
	"github.com/sarafi/backend/internal/domain/transfer"
	"go.uber.org/zap"
)

// maxConflictRetries bounds the retries for transient store conflicts.
// Business errors are never retried.
const maxConflictRetries = 3

// TransferService drives the hawala transfer lifecycle. Creation reserves a
// reference number in its own committed transaction, then persists the
// transfer and the sender-side debit atomically; a create that fails after
// reservation leaves a gap in the sequence, never a reused number.
type TransferService struct {
	uow            transfer.UnitOfWork
	transfers      transfer.TransferRepository
	sequences      ledger.SequenceRepository
	validate       *validator.Validate
	logger         *zap.Logger
	now            func() time.Time
	eventPublisher shared.EventPublisher
}

// NewTransferService creates a new TransferService. The sequence repository
// must be bound to the root database handle so reservations commit
// independently of the transfer transaction.
func NewTransferService(
	uow transfer.UnitOfWork,
	transfers transfer.TransferRepository,
	sequences ledger.SequenceRepository,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		uow:       uow,
		transfers: transfers,
		sequences: sequences,
		validate:  validator.New(),
		logger:    logger.Named("transfer_service"),
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes pending events after a successful commit.
// Errors are logged by the event bus, not propagated.
func (s *TransferService) publishDomainEvents(ctx context.Context, tr *transfer.Transfer) {
	if s.eventPublisher == nil {
		return
	}
	events := tr.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	tr.ClearDomainEvents()
}

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

// Create creates a pending transfer. When the sender is linked to a ledger
// account, the account is debited for amount plus commission in the same
// transaction that persists the transfer row.
func (s *TransferService) Create(ctx context.Context, req CreateTransferRequest) (*TransferResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, err.Error())
	}
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Transfer amount must be positive")
	}
	if req.CommissionRate.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Commission rate cannot be negative")
	}

	year := s.now().Year()
	var number int64
	if err := retryOnConflict(func() error {
		var err error
		number, err = s.sequences.Next(ctx, year)
		return err
	}); err != nil {
		return nil, err
	}
	referenceCode := ledger.FormatReferenceCode(year, number)

	var tr *transfer.Transfer
	err := retryOnConflict(func() error {
		return s.uow.InTransaction(ctx, func(repos *transfer.Repositories) error {
			currency, err := repos.Currencies.FindByCode(ctx, req.CurrencyCode)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError(shared.CodeInvalidInput, "Unknown currency "+req.CurrencyCode)
				}
				return err
			}

			amount, err := valueobject.NewMoney(req.Amount.Round(currency.Precision), currency.Code)
			if err != nil {
				return shared.NewDomainError(shared.CodeInvalidInput, err.Error())
			}

			tr, err = transfer.NewTransfer(
				referenceCode,
				toParty(req.Sender),
				toParty(req.Receiver),
				amount,
				req.CommissionRate,
				currency.Precision,
				req.ActorID,
			)
			if err != nil {
				return err
			}
			if err := repos.Transfers.Create(ctx, tr); err != nil {
				return err
			}

			if tr.Sender.HasAccount() {
				entryID, err := s.moveMoney(ctx, repos, *tr.Sender.AccountID,
					ledger.EntryKindTransferOut, tr.TotalMoney(), req.ActorID, tr.ID)
				if err != nil {
					return err
				}
				tr.AttachDebitEntry(entryID)
				// One version bump for the link; the row was created at
				// version 1 and nobody else can see it yet.
				tr.IncrementVersion()
				return repos.Transfers.SaveWithLock(ctx, tr)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, tr)

	s.logger.Info("transfer created",
		zap.String("reference_code", tr.ReferenceCode),
		zap.String("amount", tr.Amount.String()),
		zap.String("currency", tr.CurrencyCode))

	response := ToTransferResponse(tr)
	return &response, nil
}

// moveMoney applies one ledger mutation and its audit entry inside the
// caller's transaction, returning the audit entry id. Only agent cash
// accounts take part in transfers; customer savings accounts are limited to
// the deposit/withdraw contract.
func (s *TransferService) moveMoney(
	ctx context.Context,
	repos *transfer.Repositories,
	accountID uint64,
	kind ledger.EntryKind,
	amount valueobject.Money,
	actorID uint64,
	transferID uint64,
) (uint64, error) {
	account, err := repos.Accounts.FindByID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if account.Kind != ledger.AccountKindAgentCash {
		return 0, shared.NewDomainError(shared.CodeInvalidInput,
			"Transfers only move money through agent cash accounts")
	}

	before := account.Balance
	if kind.IsCredit() {
		err = account.Credit(amount)
	} else {
		err = account.Debit(amount)
	}
	if err != nil {
		return 0, err
	}
	if err := repos.Accounts.SaveWithLock(ctx, account); err != nil {
		return 0, err
	}

	entry, err := ledger.NewAuditEntry(account, kind, amount.Amount(), before, actorID, &transferID)
	if err != nil {
		return 0, err
	}
	if err := repos.Entries.Append(ctx, entry); err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// MarkInTransit moves a pending transfer to in_transit
func (s *TransferService) MarkInTransit(ctx context.Context, referenceCode string, actorID uint64) (*TransferResponse, error) {
	return s.advance(ctx, referenceCode, func(tr *transfer.Transfer, repos *transfer.Repositories) error {
		return tr.MarkInTransit()
	})
}

// Complete terminates a transfer successfully. When the receiver is linked
// to a ledger account, the forwarded amount (without commission) is credited
// in the same transaction as the status change.
func (s *TransferService) Complete(ctx context.Context, referenceCode string, actorID uint64) (*TransferResponse, error) {
	return s.advance(ctx, referenceCode, func(tr *transfer.Transfer, repos *transfer.Repositories) error {
		if tr.Receiver.HasAccount() {
			entryID, err := s.moveMoney(ctx, repos, *tr.Receiver.AccountID,
				ledger.EntryKindTransferIn, tr.AmountMoney(), actorID, tr.ID)
			if err != nil {
				return err
			}
			tr.AttachCreditEntry(entryID)
		}
		return tr.Complete(actorID)
	})
}

// Cancel terminates a transfer. When the sender-side debit was taken and not
// yet compensated, the full amount plus commission is credited back in the
// same transaction; a retried cancel never refunds twice.
func (s *TransferService) Cancel(ctx context.Context, referenceCode string, actorID uint64) (*TransferResponse, error) {
	return s.advance(ctx, referenceCode, func(tr *transfer.Transfer, repos *transfer.Repositories) error {
		if err := tr.Cancel(actorID); err != nil {
			return err
		}
		if tr.NeedsRefund() && tr.Sender.HasAccount() {
			entryID, err := s.moveMoney(ctx, repos, *tr.Sender.AccountID,
				ledger.EntryKindTransferIn, tr.TotalMoney(), actorID, tr.ID)
			if err != nil {
				return err
			}
			tr.AttachRefundEntry(entryID)
		}
		return nil
	})
}

// advance loads a transfer by reference code, applies the mutation and
// persists the result under the optimistic version check, retrying
// transient conflicts against a fresh copy.
func (s *TransferService) advance(
	ctx context.Context,
	referenceCode string,
	mutate func(tr *transfer.Transfer, repos *transfer.Repositories) error,
) (*TransferResponse, error) {
	if !ledger.IsReferenceCode(referenceCode) {
		return nil, shared.ErrNotFound
	}

	var tr *transfer.Transfer
	err := retryOnConflict(func() error {
		return s.uow.InTransaction(ctx, func(repos *transfer.Repositories) error {
			var err error
			tr, err = repos.Transfers.FindByReferenceCode(ctx, referenceCode)
			if err != nil {
				return err
			}
			if err := mutate(tr, repos); err != nil {
				return err
			}
			return repos.Transfers.SaveWithLock(ctx, tr)
		})
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, tr)

	s.logger.Info("transfer advanced",
		zap.String("reference_code", tr.ReferenceCode),
		zap.String("status", tr.Status.String()))

	response := ToTransferResponse(tr)
	return &response, nil
}

// GetByReferenceCode retrieves a transfer by its reference code. A malformed
// code is treated as not found rather than an input error.
func (s *TransferService) GetByReferenceCode(ctx context.Context, referenceCode string) (*TransferResponse, error) {
	if !ledger.IsReferenceCode(referenceCode) {
		return nil, shared.ErrNotFound
	}
	tr, err := s.transfers.FindByReferenceCode(ctx, referenceCode)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(tr)
	return &response, nil
}

// List pages through transfers with filtering, newest first
func (s *TransferService) List(ctx context.Context, filter transfer.Filter) (shared.Paginated[TransferResponse], error) {
	page, err := s.transfers.List(ctx, filter)
	if err != nil {
		return shared.Paginated[TransferResponse]{}, err
	}
	return shared.NewPaginated(ToTransferResponses(page.Items), page.Total, page.Page, page.PageSize), nil
}

func toParty(req PartyRequest) transfer.Party {
	return transfer.Party{
		Name:      req.Name,
		Phone:     req.Phone,
		AgentID:   req.AgentID,
		AccountID: req.AccountID,
	}
}
