package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fintrack/internal/models"
)

func TestApplyExpenseDelta(t *testing.T) {
	t.Run("account_balance", func(t *testing.T) {
		account := &models.Account{Balance: decimal.NewFromInt(1000)}
		ApplyExpenseDelta(AccountTarget{Account: account}, decimal.NewFromInt(-200))
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(800)), "got %s", account.Balance)

		ApplyExpenseDelta(AccountTarget{Account: account}, decimal.NewFromInt(200))
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(1000)), "got %s", account.Balance)
	})

	t.Run("card_current_limit", func(t *testing.T) {
		card := &models.Card{Limit: decimal.NewFromInt(5000), CurrentLimit: decimal.NewFromInt(5000)}
		ApplyExpenseDelta(CardTarget{Card: card}, decimal.NewFromInt(-1200))
		assert.True(t, card.CurrentLimit.Equal(decimal.NewFromInt(3800)), "got %s", card.CurrentLimit)
		assert.True(t, card.Limit.Equal(decimal.NewFromInt(5000)), "limit must not move")
	})

	t.Run("balance_may_go_negative", func(t *testing.T) {
		account := &models.Account{Balance: decimal.NewFromInt(10)}
		ApplyExpenseDelta(AccountTarget{Account: account}, decimal.NewFromInt(-25))
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(-15)), "got %s", account.Balance)
	})
}

func TestAssignTarget(t *testing.T) {
	accountID := "acc"
	e := &models.Expense{AccountID: &accountID}

	AssignTarget(e, CardTarget{Card: &models.Card{Base: models.Base{ID: "card"}}})
	assert.Nil(t, e.AccountID)
	if assert.NotNil(t, e.CardID) {
		assert.Equal(t, "card", *e.CardID)
	}

	AssignTarget(e, AccountTarget{Account: &models.Account{Base: models.Base{ID: "acc2"}}})
	assert.Nil(t, e.CardID)
	if assert.NotNil(t, e.AccountID) {
		assert.Equal(t, "acc2", *e.AccountID)
	}
}

func TestApplyEarningDelta(t *testing.T) {
	account := &models.Account{Balance: decimal.RequireFromString("10.50")}
	ApplyEarningDelta(account, decimal.RequireFromString("89.50"))
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(100)), "got %s", account.Balance)

	ApplyEarningDelta(account, decimal.NewFromInt(-100))
	assert.True(t, account.Balance.IsZero(), "got %s", account.Balance)
}
