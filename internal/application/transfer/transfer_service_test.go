package transfer

import (
	"context"
	"testing"

	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/sarafi/backend/internal/domain/transfer"
	"github.com/sarafi/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type transferFixture struct {
	service  *TransferService
	db       *gorm.DB
	accounts *persistence.GormAccountRepository
	entries  *persistence.GormAuditEntryRepository
}

func setupTransferService(t *testing.T) *transferFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))

	usd, err := ledger.NewCurrency("USD", "US Dollar", 2)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCurrencyRepository(db).Save(context.Background(), usd))

	service := NewTransferService(
		persistence.NewGormTransferUnitOfWork(db),
		persistence.NewGormTransferRepository(db),
		persistence.NewGormSequenceRepository(db),
		zap.NewNop(),
	)
	return &transferFixture{
		service:  service,
		db:       db,
		accounts: persistence.NewGormAccountRepository(db),
		entries:  persistence.NewGormAuditEntryRepository(db),
	}
}

func (f *transferFixture) fundedAccount(t *testing.T, ownerID uint64, balance string) *ledger.Account {
	t.Helper()
	account, err := ledger.NewAgentCashAccount(ownerID, "USD")
	require.NoError(t, err)
	account.Balance = decimal.RequireFromString(balance)
	require.NoError(t, f.accounts.Create(context.Background(), account))
	return account
}

func (f *transferFixture) balance(t *testing.T, accountID uint64) decimal.Decimal {
	t.Helper()
	account, err := f.accounts.FindByID(context.Background(), accountID)
	require.NoError(t, err)
	return account.Balance
}

func baseRequest(sender, receiver PartyRequest, amount string) CreateTransferRequest {
	return CreateTransferRequest{
		Sender:         sender,
		Receiver:       receiver,
		Amount:         decimal.RequireFromString(amount),
		CurrencyCode:   "USD",
		CommissionRate: decimal.RequireFromString("0.02"),
		ActorID:        1,
	}
}

func TestTransferService_Create(t *testing.T) {
	f := setupTransferService(t)
	ctx := context.Background()

	t.Run("walk-in sender creates pending transfer without debit", func(t *testing.T) {
		resp, err := f.service.Create(ctx, baseRequest(
			PartyRequest{Name: "Ahmad Karimi"},
			PartyRequest{Name: "Besmillah Rahimi"},
			"500",
		))
		require.NoError(t, err)

		assert.Equal(t, "pending", resp.Status)
		assert.True(t, ledger.IsReferenceCode(resp.ReferenceCode))
		assert.True(t, resp.CommissionAmount.Equal(decimal.RequireFromString("10")))
		assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("510")))
		assert.Nil(t, resp.DebitEntryID)
	})

	t.Run("linked sender is debited amount plus commission atomically", func(t *testing.T) {
		sender := f.fundedAccount(t, 41, "1000")

		resp, err := f.service.Create(ctx, baseRequest(
			PartyRequest{Name: "Agent Sender", AccountID: &sender.ID},
			PartyRequest{Name: "Receiver"},
			"200",
		))
		require.NoError(t, err)

		require.NotNil(t, resp.DebitEntryID)
		assert.True(t, f.balance(t, sender.ID).Equal(decimal.RequireFromString("796")))

		page, err := f.entries.ListByAccount(ctx, sender.ID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, ledger.EntryKindTransferOut, page.Items[0].Kind)
		assert.True(t, page.Items[0].Amount.Equal(decimal.RequireFromString("-204")))
		require.NotNil(t, page.Items[0].TransferID)
		assert.Equal(t, resp.ID, *page.Items[0].TransferID)
	})

	t.Run("insufficient balance leaves no transfer and no entries", func(t *testing.T) {
		sender := f.fundedAccount(t, 42, "100")

		_, err := f.service.Create(ctx, baseRequest(
			PartyRequest{Name: "Poor Sender", AccountID: &sender.ID},
			PartyRequest{Name: "Receiver"},
			"200",
		))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInsufficientBalance, domainErr.Code)

		assert.True(t, f.balance(t, sender.ID).Equal(decimal.RequireFromString("100")))

		count, err := f.entries.CountByAccount(ctx, sender.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		var transfers int64
		require.NoError(t, f.db.Model(&transfer.Transfer{}).
			Where("sender_account_id = ?", sender.ID).Count(&transfers).Error)
		assert.Equal(t, int64(0), transfers)
	})

	t.Run("a failed create leaves a sequence gap, never a reuse", func(t *testing.T) {
		resp, err := f.service.Create(ctx, baseRequest(
			PartyRequest{Name: "Next Sender"},
			PartyRequest{Name: "Next Receiver"},
			"10",
		))
		require.NoError(t, err)

		// Three successful creates and one failed attempt so far
		assert.True(t, ledger.IsReferenceCode(resp.ReferenceCode))
		found, err := f.service.GetByReferenceCode(ctx, resp.ReferenceCode)
		require.NoError(t, err)
		assert.Equal(t, resp.ID, found.ID)
	})

	t.Run("rejects a customer savings account on the sender side", func(t *testing.T) {
		savings, err := ledger.NewCustomerSavingsAccount(81, 41, "USD")
		require.NoError(t, err)
		savings.Balance = decimal.RequireFromString("1000")
		require.NoError(t, f.accounts.Create(ctx, savings))

		_, err = f.service.Create(ctx, baseRequest(
			PartyRequest{Name: "Savings Holder", AccountID: &savings.ID},
			PartyRequest{Name: "Receiver"},
			"100",
		))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidInput, domainErr.Code)

		assert.True(t, f.balance(t, savings.ID).Equal(decimal.RequireFromString("1000")))

		count, err := f.entries.CountByAccount(ctx, savings.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		var transfers int64
		require.NoError(t, f.db.Model(&transfer.Transfer{}).
			Where("sender_account_id = ?", savings.ID).Count(&transfers).Error)
		assert.Equal(t, int64(0), transfers)
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		req := baseRequest(PartyRequest{Name: "A"}, PartyRequest{Name: "B"}, "10")
		req.CurrencyCode = "JPY"
		_, err := f.service.Create(ctx, req)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidInput, domainErr.Code)
	})

	t.Run("rejects negative commission rate", func(t *testing.T) {
		req := baseRequest(PartyRequest{Name: "A"}, PartyRequest{Name: "B"}, "10")
		req.CommissionRate = decimal.RequireFromString("-0.01")
		_, err := f.service.Create(ctx, req)
		require.Error(t, err)
	})
}

func TestTransferService_SequenceNumbers(t *testing.T) {
	f := setupTransferService(t)
	ctx := context.Background()

	var codes []string
	for i := 0; i < 3; i++ {
		resp, err := f.service.Create(ctx, baseRequest(
			PartyRequest{Name: "S"},
			PartyRequest{Name: "R"},
			"10",
		))
		require.NoError(t, err)
		codes = append(codes, resp.ReferenceCode)
	}

	// Reference codes are unique and strictly increasing
	assert.NotEqual(t, codes[0], codes[1])
	assert.NotEqual(t, codes[1], codes[2])
	assert.Less(t, codes[0], codes[1])
	assert.Less(t, codes[1], codes[2])
}

func TestTransferService_Lifecycle(t *testing.T) {
	f := setupTransferService(t)
	ctx := context.Background()

	sender := f.fundedAccount(t, 51, "1000")
	receiver := f.fundedAccount(t, 52, "0")

	create := func(t *testing.T) *TransferResponse {
		t.Helper()
		resp, err := f.service.Create(ctx, baseRequest(
			PartyRequest{Name: "Sender", AccountID: &sender.ID},
			PartyRequest{Name: "Receiver", AccountID: &receiver.ID},
			"100",
		))
		require.NoError(t, err)
		return resp
	}

	t.Run("complete credits the receiver the forwarded amount", func(t *testing.T) {
		resp := create(t)
		receiverBefore := f.balance(t, receiver.ID)

		_, err := f.service.MarkInTransit(ctx, resp.ReferenceCode, 9)
		require.NoError(t, err)
		completed, err := f.service.Complete(ctx, resp.ReferenceCode, 9)
		require.NoError(t, err)

		assert.Equal(t, "completed", completed.Status)
		require.NotNil(t, completed.CreditEntryID)
		require.NotNil(t, completed.CompletedAt)

		// Receiver gets the amount, not amount plus commission
		assert.True(t, f.balance(t, receiver.ID).Equal(receiverBefore.Add(decimal.RequireFromString("100"))))
	})

	t.Run("in transit then complete", func(t *testing.T) {
		resp := create(t)

		moved, err := f.service.MarkInTransit(ctx, resp.ReferenceCode, 9)
		require.NoError(t, err)
		assert.Equal(t, "in_transit", moved.Status)

		completed, err := f.service.Complete(ctx, resp.ReferenceCode, 9)
		require.NoError(t, err)
		assert.Equal(t, "completed", completed.Status)
	})

	t.Run("pending cannot complete without transit", func(t *testing.T) {
		resp := create(t)
		_, err := f.service.Complete(ctx, resp.ReferenceCode, 9)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidState, domainErr.Code)
	})

	t.Run("terminal transfers reject further transitions", func(t *testing.T) {
		resp := create(t)
		_, err := f.service.MarkInTransit(ctx, resp.ReferenceCode, 9)
		require.NoError(t, err)
		_, err = f.service.Complete(ctx, resp.ReferenceCode, 9)
		require.NoError(t, err)

		_, err = f.service.Cancel(ctx, resp.ReferenceCode, 9)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidState, domainErr.Code)

		_, err = f.service.MarkInTransit(ctx, resp.ReferenceCode, 9)
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidState, domainErr.Code)
	})
}

func TestTransferService_Cancel(t *testing.T) {
	f := setupTransferService(t)
	ctx := context.Background()

	sender := f.fundedAccount(t, 61, "1000")

	resp, err := f.service.Create(ctx, baseRequest(
		PartyRequest{Name: "Sender", AccountID: &sender.ID},
		PartyRequest{Name: "Walk-in Receiver"},
		"300",
	))
	require.NoError(t, err)
	assert.True(t, f.balance(t, sender.ID).Equal(decimal.RequireFromString("694")))

	t.Run("cancel refunds amount plus commission once", func(t *testing.T) {
		cancelled, err := f.service.Cancel(ctx, resp.ReferenceCode, 9)
		require.NoError(t, err)

		assert.Equal(t, "cancelled", cancelled.Status)
		require.NotNil(t, cancelled.RefundEntryID)
		assert.True(t, f.balance(t, sender.ID).Equal(decimal.RequireFromString("1000")))

		// Debit and refund both stay in the history
		count, err := f.entries.CountByAccount(ctx, sender.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("a second cancel is rejected without a second refund", func(t *testing.T) {
		_, err := f.service.Cancel(ctx, resp.ReferenceCode, 9)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidState, domainErr.Code)

		assert.True(t, f.balance(t, sender.ID).Equal(decimal.RequireFromString("1000")))
		count, err := f.entries.CountByAccount(ctx, sender.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("cancelling a walk-in transfer needs no refund", func(t *testing.T) {
		walkIn, err := f.service.Create(ctx, baseRequest(
			PartyRequest{Name: "Walk-in"},
			PartyRequest{Name: "Receiver"},
			"50",
		))
		require.NoError(t, err)

		cancelled, err := f.service.Cancel(ctx, walkIn.ReferenceCode, 9)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)
		assert.Nil(t, cancelled.RefundEntryID)
	})
}

func TestTransferService_GetByReferenceCode(t *testing.T) {
	f := setupTransferService(t)
	ctx := context.Background()

	resp, err := f.service.Create(ctx, baseRequest(
		PartyRequest{Name: "S"},
		PartyRequest{Name: "R"},
		"20",
	))
	require.NoError(t, err)

	t.Run("finds an existing transfer", func(t *testing.T) {
		found, err := f.service.GetByReferenceCode(ctx, resp.ReferenceCode)
		require.NoError(t, err)
		assert.Equal(t, resp.ID, found.ID)
	})

	t.Run("malformed reference is not found", func(t *testing.T) {
		_, err := f.service.GetByReferenceCode(ctx, "not-a-reference")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("well-formed unknown reference is not found", func(t *testing.T) {
		_, err := f.service.GetByReferenceCode(ctx, "HWL-1999-000001")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
