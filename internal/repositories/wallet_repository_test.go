package repositories_test

import (
	"context"
	"testing"

	"brokerage/internal/models"
	"brokerage/internal/repositories"
	"brokerage/internal/repositories/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletRepository_GetOrCreate(t *testing.T) {
	repo := repositories.NewWalletRepository(testutil.NewDB(t))
	ctx := context.Background()

	_, err := repo.GetByUserID(ctx, 7)
	assert.ErrorIs(t, err, repositories.ErrWalletNotFound)

	first, err := repo.GetOrCreate(ctx, 7, "USD")
	require.NoError(t, err)
	second, err := repo.GetOrCreate(ctx, 7, "USD")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Balance.IsZero())

	wallets, total, err := repo.ListWallets(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, wallets, 1)
}

func TestWalletRepository_SumAndHistory(t *testing.T) {
	repo := repositories.NewWalletRepository(testutil.NewDB(t))
	ctx := context.Background()

	w, err := repo.GetOrCreate(ctx, 1, "USD")
	require.NoError(t, err)

	sum, err := repo.SumTransactions(ctx, 1, models.TransactionTypeDeposit, models.TransactionStatusPending)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	for i, amt := range []string{"100.50", "200", "50"} {
		status := models.TransactionStatusPending
		if i == 2 {
			status = models.TransactionStatusCompleted
		}
		session := "cs_" + amt
		require.NoError(t, repo.CreateTransaction(ctx, &models.Transaction{
			UserID:    1,
			WalletID:  w.ID,
			Type:      models.TransactionTypeDeposit,
			Amount:    decimal.RequireFromString(amt),
			Currency:  "USD",
			Status:    status,
			SessionID: &session,
		}))
	}

	sum, err = repo.SumTransactions(ctx, 1, models.TransactionTypeDeposit, models.TransactionStatusPending)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("300.50").Equal(sum), sum.String())

	txs, total, err := repo.History(ctx, 1, repositories.HistoryFilter{Status: models.TransactionStatusCompleted}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, txs, 1)
	assert.True(t, decimal.NewFromInt(50).Equal(txs[0].Amount))

	dup := "cs_200"
	err = repo.CreateTransaction(ctx, &models.Transaction{UserID: 1, WalletID: w.ID, Type: models.TransactionTypeDeposit, Amount: decimal.NewFromInt(1), Status: models.TransactionStatusPending, SessionID: &dup})
	assert.ErrorIs(t, err, repositories.ErrDuplicateSession)
}

func TestWalletRepository_LockedUpdateInTransaction(t *testing.T) {
	repo := repositories.NewWalletRepository(testutil.NewDB(t))
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, 1, "USD")
	require.NoError(t, err)

	err = repo.ExecuteInTransaction(ctx, func(tx repositories.WalletRepository) error {
		w, err := tx.GetForUpdate(ctx, 1)
		if err != nil {
			return err
		}
		return tx.UpdateBalance(ctx, w.ID, w.Balance.Add(decimal.NewFromInt(25)))
	})
	require.NoError(t, err)

	w, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(w.Balance))
}
