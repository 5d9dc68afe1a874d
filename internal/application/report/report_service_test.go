package report

import (
	"context"
	"testing"

	appTransfer "github.com/sarafi/backend/internal/application/transfer"
	"github.com/sarafi/backend/internal/domain/ledger"
	"github.com/sarafi/backend/internal/domain/report"
	"github.com/sarafi/backend/internal/domain/transfer"
	"github.com/sarafi/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupReportService seeds the store through the transfer lifecycle so the
// reports aggregate real movements: two completed transfers crediting a
// receiver account, one pending, one cancelled.
func setupReportService(t *testing.T) (*ReportService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))
	ctx := context.Background()

	usd, err := ledger.NewCurrency("USD", "US Dollar", 2)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCurrencyRepository(db).Save(ctx, usd))

	accounts := persistence.NewGormAccountRepository(db)
	sender, err := ledger.NewAgentCashAccount(71, "USD")
	require.NoError(t, err)
	sender.Balance = decimal.RequireFromString("10000")
	require.NoError(t, accounts.Create(ctx, sender))

	receiver, err := ledger.NewAgentCashAccount(72, "USD")
	require.NoError(t, err)
	require.NoError(t, accounts.Create(ctx, receiver))

	agentID := uint64(71)
	transfers := appTransfer.NewTransferService(
		persistence.NewGormTransferUnitOfWork(db),
		persistence.NewGormTransferRepository(db),
		persistence.NewGormSequenceRepository(db),
		zap.NewNop(),
	)

	create := func(amount string) *appTransfer.TransferResponse {
		resp, err := transfers.Create(ctx, appTransfer.CreateTransferRequest{
			Sender:         appTransfer.PartyRequest{Name: "Sender", AgentID: &agentID, AccountID: &sender.ID},
			Receiver:       appTransfer.PartyRequest{Name: "Receiver", AccountID: &receiver.ID},
			Amount:         decimal.RequireFromString(amount),
			CurrencyCode:   "USD",
			CommissionRate: decimal.RequireFromString("0.02"),
			ActorID:        1,
		})
		require.NoError(t, err)
		return resp
	}

	complete := func(referenceCode string) {
		_, err := transfers.MarkInTransit(ctx, referenceCode, 1)
		require.NoError(t, err)
		_, err = transfers.Complete(ctx, referenceCode, 1)
		require.NoError(t, err)
	}

	first := create("100")
	complete(first.ReferenceCode)

	second := create("250")
	complete(second.ReferenceCode)

	create("40")

	fourth := create("75")
	_, err = transfers.Cancel(ctx, fourth.ReferenceCode, 1)
	require.NoError(t, err)

	return NewReportService(persistence.NewGormReportRepository(db), zap.NewNop()), db
}

func TestReportService_Totals(t *testing.T) {
	service, _ := setupReportService(t)
	ctx := context.Background()

	t.Run("totals by status", func(t *testing.T) {
		totals, err := service.TotalsByStatus(ctx, report.Period{})
		require.NoError(t, err)

		byStatus := make(map[transfer.Status]report.StatusTotal)
		for _, total := range totals {
			byStatus[total.Status] = total
		}

		assert.Equal(t, int64(2), byStatus[transfer.StatusCompleted].Count)
		assert.True(t, byStatus[transfer.StatusCompleted].Amount.Equal(decimal.RequireFromString("350")))
		assert.Equal(t, int64(1), byStatus[transfer.StatusPending].Count)
		assert.Equal(t, int64(1), byStatus[transfer.StatusCancelled].Count)
	})

	t.Run("totals by agent", func(t *testing.T) {
		totals, err := service.TotalsByAgent(ctx, report.Period{})
		require.NoError(t, err)

		require.Len(t, totals, 1)
		assert.Equal(t, uint64(71), totals[0].AgentID)
		assert.Equal(t, int64(2), totals[0].Count)
		assert.True(t, totals[0].CommissionTotal.Equal(decimal.RequireFromString("7")))
	})

	t.Run("totals by currency", func(t *testing.T) {
		totals, err := service.TotalsByCurrency(ctx, report.Period{})
		require.NoError(t, err)

		require.Len(t, totals, 1)
		assert.Equal(t, "USD", totals[0].CurrencyCode)
		assert.Equal(t, int64(4), totals[0].Count)
	})
}

func TestReportService_Reconcile(t *testing.T) {
	service, db := setupReportService(t)
	ctx := context.Background()

	t.Run("completed amounts equal credited entries", func(t *testing.T) {
		rec, err := service.ReconcileCompletedTransfers(ctx)
		require.NoError(t, err)

		assert.True(t, rec.Balanced())
		assert.True(t, rec.CompletedAmount.Equal(decimal.RequireFromString("350")))
	})

	t.Run("a missing credit shows up as an imbalance", func(t *testing.T) {
		// Simulate a lost credit by deleting one transfer_in entry
		require.NoError(t, db.
			Where("kind = ?", ledger.EntryKindTransferIn).
			Where("amount = ?", decimal.RequireFromString("100")).
			Delete(&ledger.AuditEntry{}).Error)

		rec, err := service.ReconcileCompletedTransfers(ctx)
		require.NoError(t, err)
		assert.False(t, rec.Balanced())
	})
}
