package ledger

import (
	"testing"

	"github.com/sarafi/backend/internal/domain/shared"
	"github.com/sarafi/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(t *testing.T, amount string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromString(amount, "USD")
	require.NoError(t, err)
	return m
}

func TestNewAgentCashAccount(t *testing.T) {
	t.Run("creates account with zero balance", func(t *testing.T) {
		account, err := NewAgentCashAccount(7, "USD")
		require.NoError(t, err)
		assert.Equal(t, AccountKindAgentCash, account.Kind)
		assert.Equal(t, uint64(7), account.OwnerID)
		assert.Equal(t, uint64(0), account.CounterpartAgentID)
		assert.True(t, account.Balance.IsZero())
		assert.True(t, account.Active)
		assert.Equal(t, 1, account.Version)
		assert.NotEmpty(t, account.GetDomainEvents())
	})

	t.Run("fails with empty owner", func(t *testing.T) {
		_, err := NewAgentCashAccount(0, "USD")
		require.Error(t, err)
	})

	t.Run("fails with empty currency", func(t *testing.T) {
		_, err := NewAgentCashAccount(7, "")
		require.Error(t, err)
	})
}

func TestNewCustomerSavingsAccount(t *testing.T) {
	t.Run("creates account bound to an agent", func(t *testing.T) {
		account, err := NewCustomerSavingsAccount(21, 7, "USD")
		require.NoError(t, err)
		assert.Equal(t, AccountKindCustomerSavings, account.Kind)
		assert.Equal(t, uint64(21), account.OwnerID)
		assert.Equal(t, uint64(7), account.CounterpartAgentID)
	})

	t.Run("fails without counterpart agent", func(t *testing.T) {
		_, err := NewCustomerSavingsAccount(21, 0, "USD")
		require.Error(t, err)
	})
}

func TestAccount_Credit(t *testing.T) {
	t.Run("adds to balance and bumps version", func(t *testing.T) {
		account, _ := NewAgentCashAccount(7, "USD")
		err := account.Credit(usd(t, "100.00"))
		require.NoError(t, err)
		assert.Equal(t, "100", account.Balance.String())
		assert.Equal(t, 2, account.Version)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		account, _ := NewAgentCashAccount(7, "USD")
		err := account.Credit(valueobject.Zero("USD"))
		require.Error(t, err)
		assert.True(t, account.Balance.IsZero())
	})

	t.Run("rejects currency mismatch", func(t *testing.T) {
		account, _ := NewAgentCashAccount(7, "USD")
		eur, _ := valueobject.NewMoneyFromString("10", "EUR")
		err := account.Credit(eur)
		require.Error(t, err)
	})

	t.Run("rejects inactive account", func(t *testing.T) {
		account, _ := NewAgentCashAccount(7, "USD")
		require.NoError(t, account.Deactivate())
		err := account.Credit(usd(t, "10"))
		assert.ErrorIs(t, err, shared.ErrAccountInactive)
	})
}

func TestAccount_Debit(t *testing.T) {
	t.Run("subtracts from balance", func(t *testing.T) {
		account, _ := NewAgentCashAccount(7, "USD")
		require.NoError(t, account.Credit(usd(t, "100.00")))
		err := account.Debit(usd(t, "51.00"))
		require.NoError(t, err)
		assert.Equal(t, "49", account.Balance.String())
	})

	t.Run("rejects overdraw and leaves balance untouched", func(t *testing.T) {
		account, _ := NewAgentCashAccount(7, "USD")
		require.NoError(t, account.Credit(usd(t, "100.00")))
		versionBefore := account.Version

		err := account.Debit(usd(t, "150.00"))
		assert.ErrorIs(t, err, shared.ErrInsufficientBalance)
		assert.Equal(t, "100", account.Balance.String())
		assert.Equal(t, versionBefore, account.Version)
	})

	t.Run("allows debit to exactly zero", func(t *testing.T) {
		account, _ := NewAgentCashAccount(7, "USD")
		require.NoError(t, account.Credit(usd(t, "100.00")))
		err := account.Debit(usd(t, "100.00"))
		require.NoError(t, err)
		assert.True(t, account.Balance.IsZero())
	})
}

func TestAccount_Deactivate(t *testing.T) {
	account, _ := NewAgentCashAccount(7, "USD")
	require.NoError(t, account.Deactivate())
	assert.False(t, account.Active)

	err := account.Deactivate()
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestAccountKind_IsValid(t *testing.T) {
	assert.True(t, AccountKindAgentCash.IsValid())
	assert.True(t, AccountKindCustomerSavings.IsValid())
	assert.False(t, AccountKind("checking").IsValid())
}

func TestAccount_BalanceMoney(t *testing.T) {
	account, _ := NewAgentCashAccount(7, "USD")
	require.NoError(t, account.Credit(usd(t, "42.50")))
	m := account.BalanceMoney()
	assert.Equal(t, "USD", m.Currency())
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("42.50")))
}
