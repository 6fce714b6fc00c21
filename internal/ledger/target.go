package ledger

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// Target is the balance holder an expense is charged against: either an
// account or a card, never both.
type Target interface {
	// ID returns the primary key of the underlying account or card.
	ID() string
	isTarget()
}

// AccountTarget charges an expense against an account balance.
type AccountTarget struct {
	Account *models.Account
}

// CardTarget charges an expense against a card's available limit.
type CardTarget struct {
	Card *models.Card
}

func (t AccountTarget) ID() string { return t.Account.ID }
func (t CardTarget) ID() string    { return t.Card.ID }

func (AccountTarget) isTarget() {}
func (CardTarget) isTarget()    {}

// ApplyExpenseDelta moves the target by a signed amount. Negative deltas
// charge the target, positive deltas release a previous charge.
func ApplyExpenseDelta(target Target, delta decimal.Decimal) {
	switch t := target.(type) {
	case AccountTarget:
		t.Account.Balance = t.Account.Balance.Add(delta)
	case CardTarget:
		t.Card.CurrentLimit = t.Card.CurrentLimit.Add(delta)
	}
}

// AssignTarget points the expense at the target, clearing the other side.
func AssignTarget(e *models.Expense, target Target) {
	switch t := target.(type) {
	case AccountTarget:
		id := t.Account.ID
		e.AccountID = &id
		e.CardID = nil
		e.Account = nil
		e.Card = nil
	case CardTarget:
		id := t.Card.ID
		e.CardID = &id
		e.AccountID = nil
		e.Account = nil
		e.Card = nil
	}
}

// ApplyEarningDelta moves an account balance for an earning. Creation passes
// the earning amount, deletion its negation.
func ApplyEarningDelta(account *models.Account, delta decimal.Decimal) {
	account.Balance = account.Balance.Add(delta)
}
