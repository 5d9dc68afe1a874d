package transfer

import (
	"testing"

	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/sarafi/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTransfer(t *testing.T) *Transfer {
	t.Helper()
	amount, err := valueobject.NewMoneyFromString("50.00", "USD")
	require.NoError(t, err)

	tr, err := NewTransfer(
		"HWL-2026-000001",
		Party{Name: "Ahmad Wali"},
		Party{Name: "Farid Khan"},
		amount,
		decimal.NewFromFloat(0.02),
		2,
		1,
	)
	require.NoError(t, err)
	return tr
}

func TestNewTransfer(t *testing.T) {
	t.Run("creates pending transfer with computed commission", func(t *testing.T) {
		tr := createTestTransfer(t)
		assert.Equal(t, StatusPending, tr.Status)
		assert.Equal(t, "HWL-2026-000001", tr.ReferenceCode)
		assert.Equal(t, "50", tr.Amount.String())
		assert.Equal(t, "1", tr.CommissionAmount.String())
		assert.Equal(t, "51", tr.TotalAmount.String())
		assert.Equal(t, "USD", tr.CurrencyCode)
		assert.NotEmpty(t, tr.GetDomainEvents())
	})

	t.Run("zero commission rate yields zero commission", func(t *testing.T) {
		amount, _ := valueobject.NewMoneyFromString("50.00", "USD")
		tr, err := NewTransfer("HWL-2026-000002", Party{Name: "A"}, Party{Name: "B"}, amount, decimal.Zero, 2, 1)
		require.NoError(t, err)
		assert.True(t, tr.CommissionAmount.IsZero())
		assert.Equal(t, "50", tr.TotalAmount.String())
	})

	t.Run("fails with non-positive amount", func(t *testing.T) {
		amount := valueobject.Zero("USD")
		_, err := NewTransfer("HWL-2026-000003", Party{Name: "A"}, Party{Name: "B"}, amount, decimal.Zero, 2, 1)
		require.Error(t, err)
	})

	t.Run("fails with negative commission rate", func(t *testing.T) {
		amount, _ := valueobject.NewMoneyFromString("50.00", "USD")
		_, err := NewTransfer("HWL-2026-000004", Party{Name: "A"}, Party{Name: "B"}, amount, decimal.NewFromFloat(-0.01), 2, 1)
		require.Error(t, err)
	})

	t.Run("fails with missing party names", func(t *testing.T) {
		amount, _ := valueobject.NewMoneyFromString("50.00", "USD")
		_, err := NewTransfer("HWL-2026-000005", Party{}, Party{Name: "B"}, amount, decimal.Zero, 2, 1)
		require.Error(t, err)
		_, err = NewTransfer("HWL-2026-000005", Party{Name: "A"}, Party{}, amount, decimal.Zero, 2, 1)
		require.Error(t, err)
	})

	t.Run("fails with empty reference code", func(t *testing.T) {
		amount, _ := valueobject.NewMoneyFromString("50.00", "USD")
		_, err := NewTransfer("", Party{Name: "A"}, Party{Name: "B"}, amount, decimal.Zero, 2, 1)
		require.Error(t, err)
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusInTransit))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusInTransit.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusInTransit.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusPending.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusInTransit.CanTransitionTo(StatusPending))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusInTransit))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusCompleted))
}

func TestTransfer_Lifecycle(t *testing.T) {
	t.Run("pending to in_transit to completed", func(t *testing.T) {
		tr := createTestTransfer(t)
		require.NoError(t, tr.MarkInTransit())
		assert.Equal(t, StatusInTransit, tr.Status)

		require.NoError(t, tr.Complete(5))
		assert.Equal(t, StatusCompleted, tr.Status)
		require.NotNil(t, tr.CompletedByID)
		assert.Equal(t, uint64(5), *tr.CompletedByID)
		assert.NotNil(t, tr.CompletedAt)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		tr := createTestTransfer(t)
		require.NoError(t, tr.MarkInTransit())
		require.NoError(t, tr.Complete(5))

		err := tr.Cancel(5)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidState, domainErr.Code)
	})

	t.Run("cancel from pending and from in_transit", func(t *testing.T) {
		tr := createTestTransfer(t)
		require.NoError(t, tr.Cancel(5))
		assert.Equal(t, StatusCancelled, tr.Status)
		assert.NotNil(t, tr.CancelledAt)

		tr2 := createTestTransfer(t)
		require.NoError(t, tr2.MarkInTransit())
		require.NoError(t, tr2.Cancel(5))
		assert.Equal(t, StatusCancelled, tr2.Status)
	})

	t.Run("second cancel is rejected", func(t *testing.T) {
		tr := createTestTransfer(t)
		require.NoError(t, tr.Cancel(5))
		err := tr.Cancel(5)
		require.Error(t, err)
	})

	t.Run("transition bumps the version", func(t *testing.T) {
		tr := createTestTransfer(t)
		v := tr.Version
		require.NoError(t, tr.MarkInTransit())
		assert.Equal(t, v+1, tr.Version)
	})
}

func TestTransfer_RefundGuards(t *testing.T) {
	tr := createTestTransfer(t)
	assert.False(t, tr.NeedsRefund())

	tr.AttachDebitEntry(11)
	assert.True(t, tr.NeedsRefund())

	tr.AttachRefundEntry(12)
	assert.False(t, tr.NeedsRefund())
}

func TestParty_HasAccount(t *testing.T) {
	assert.False(t, Party{Name: "A"}.HasAccount())
	zero := uint64(0)
	assert.False(t, Party{Name: "A", AccountID: &zero}.HasAccount())
	id := uint64(3)
	assert.True(t, Party{Name: "A", AccountID: &id}.HasAccount())
}
