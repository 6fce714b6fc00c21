package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// expenseService runs the expense lifecycle: every mutation persists the
// expense rows and the resulting account or card movement in one transaction.
type expenseService struct {
	db  *gorm.DB
	now func() time.Time
}

// expenseBatchSize keeps long series under driver bind-parameter limits.
const expenseBatchSize = 100

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db, now: time.Now}
}

// CreateExpense expands the request into one or more rows and charges the
// account or card.
func (s *expenseService) CreateExpense(userID string, input CreateExpenseInput) ([]models.Expense, error) {
	if hasValue(input.AccountID) == hasValue(input.CardID) {
		return nil, apperrors.ErrInvalidTarget
	}

	var rows []models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		target, err := resolveTarget(tx, userID, input.AccountID, input.CardID)
		if err != nil {
			return err
		}
		category, err := findVisibleCategory(tx, userID, input.CategoryID)
		if err != nil {
			return err
		}

		draft := ledger.ExpenseDraft{
			UserID:       userID,
			CategoryID:   category.ID,
			Target:       target,
			Amount:       input.Amount.Round(2),
			Description:  input.Description,
			Date:         input.Date.UTC(),
			Type:         input.Type,
			Installments: input.Installments,
			Recurrence:   input.Recurrence,
		}
		if input.RecurrenceEndDate != nil {
			end := input.RecurrenceEndDate.UTC()
			draft.RecurrenceEndDate = &end
		}

		rows, err = ledger.Expand(draft)
		if err != nil {
			return err
		}
		if err := tx.CreateInBatches(&rows, expenseBatchSize).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		charge := ledger.CreationCharge(draft, rows)
		ledger.ApplyExpenseDelta(target, charge.Neg())
		if err := saveTarget(tx, target); err != nil {
			return err
		}

		logger.Get().Debugw("expense created",
			"user_id", userID,
			"target_id", target.ID(),
			"rows", len(rows),
			"charged", charge.String(),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// UpdateExpense applies a sparse patch to a single row. While the row is
// unpaid its hold follows it: the old amount is released on the old target
// and the new amount charged on the new one.
func (s *expenseService) UpdateExpense(userID, expenseID string, patch ExpensePatch) (*models.Expense, error) {
	if hasValue(patch.AccountID) && hasValue(patch.CardID) {
		return nil, apperrors.ErrInvalidTarget
	}
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	var expense *models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		expense, err = findExpense(tx, userID, expenseID)
		if err != nil {
			return err
		}

		oldAmount := expense.Amount
		oldTarget, err := expenseTarget(tx, expense)
		if err != nil {
			return err
		}

		newTarget := oldTarget
		targetChanged := false
		if hasValue(patch.AccountID) || hasValue(patch.CardID) {
			newTarget, err = resolveTarget(tx, userID, patch.AccountID, patch.CardID)
			if err != nil {
				return err
			}
			targetChanged = oldTarget == nil || targetKey(oldTarget) != targetKey(newTarget)
			if !targetChanged {
				newTarget = oldTarget
			}
		}

		if patch.Description != nil {
			expense.Description = *patch.Description
		}
		if patch.Amount != nil {
			expense.Amount = patch.Amount.Round(2)
		}
		if patch.Date != nil {
			expense.Date = patch.Date.UTC()
		}
		if patch.RecurrenceEndDate != nil {
			end := patch.RecurrenceEndDate.UTC()
			expense.RecurrenceEndDate = &end
		}
		if patch.CategoryID != nil {
			category, err := findVisibleCategory(tx, userID, *patch.CategoryID)
			if err != nil {
				return err
			}
			expense.CategoryID = category.ID
			expense.Category = nil
		}
		if targetChanged {
			ledger.AssignTarget(expense, newTarget)
		}

		amountChanged := !expense.Amount.Equal(oldAmount)
		if !expense.IsPaid && newTarget != nil && (amountChanged || targetChanged) {
			if oldTarget != nil {
				ledger.ApplyExpenseDelta(oldTarget, oldAmount)
				if err := saveTarget(tx, oldTarget); err != nil {
					return err
				}
			}
			ledger.ApplyExpenseDelta(newTarget, expense.Amount.Neg())
			if err := saveTarget(tx, newTarget); err != nil {
				return err
			}
			logger.Get().Debugw("expense hold moved",
				"expense_id", expense.ID,
				"released", oldAmount.String(),
				"charged", expense.Amount.String(),
				"target_id", newTarget.ID(),
			)
		}

		if err := tx.Omit(clause.Associations).Save(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// RemoveExpense deletes a single row. An unpaid row gives its amount back to
// the account; a card only gets it back when the row is dated in the current
// month.
func (s *expenseService) RemoveExpense(userID, expenseID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		expense, err := findExpense(tx, userID, expenseID)
		if err != nil {
			return err
		}

		if !expense.IsPaid {
			target, err := expenseTarget(tx, expense)
			if err != nil {
				return err
			}
			if target != nil && s.releasesOnRemove(target, expense) {
				ledger.ApplyExpenseDelta(target, expense.Amount)
				if err := saveTarget(tx, target); err != nil {
					return err
				}
				logger.Get().Debugw("expense hold released",
					"expense_id", expense.ID,
					"target_id", target.ID(),
					"amount", expense.Amount.String(),
				)
			}
		}

		if err := tx.Delete(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func (s *expenseService) releasesOnRemove(target ledger.Target, expense *models.Expense) bool {
	if _, ok := target.(ledger.CardTarget); ok {
		return ledger.SameMonth(expense.Date.UTC(), s.now().UTC())
	}
	return true
}

// MarkAsPaid flags the given expenses as paid and releases their holds.
// Either every id belongs to the user or nothing changes. Rows that are
// already paid are left alone; only the rows that transitioned are returned.
func (s *expenseService) MarkAsPaid(userID string, expenseIDs []string) ([]models.Expense, error) {
	ids := uniqueIDs(expenseIDs)
	if len(ids) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense_ids must not be empty")
	}

	paid := make([]models.Expense, 0, len(ids))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var found []models.Expense
		if err := tx.Where("id IN ? AND user_id = ?", ids, userID).Find(&found).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(found) != len(ids) {
			return apperrors.WithMessage(apperrors.ErrExpenseNotFound, "One or more expenses were not found")
		}

		byID := make(map[string]models.Expense, len(found))
		for _, e := range found {
			byID[e.ID] = e
		}

		targets := make(map[string]ledger.Target)
		var order []string
		for _, id := range ids {
			expense := byID[id]
			if expense.IsPaid {
				continue
			}

			target, err := expenseTarget(tx, &expense)
			if err != nil {
				return err
			}
			if target != nil {
				key := targetKey(target)
				if cached, ok := targets[key]; ok {
					target = cached
				} else {
					targets[key] = target
					order = append(order, key)
				}
				ledger.ApplyExpenseDelta(target, expense.Amount)
			}

			expense.IsPaid = true
			paid = append(paid, expense)
		}

		if len(paid) == 0 {
			return nil
		}

		paidIDs := make([]string, len(paid))
		for i := range paid {
			paidIDs[i] = paid[i].ID
		}
		if err := tx.Model(&models.Expense{}).Where("id IN ?", paidIDs).Update("is_paid", true).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, key := range order {
			if err := saveTarget(tx, targets[key]); err != nil {
				return err
			}
		}

		logger.Get().Debugw("expenses paid", "user_id", userID, "count", len(paid))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if paid == nil {
		paid = []models.Expense{}
	}
	return paid, nil
}

// GetExpenseByID retrieves an expense with its category and target loaded.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.Preload("Category").Preload("Account").Preload("Card").
		Where("id = ? AND user_id = ?", expenseID, userID).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// GetUserExpenses lists the user's expenses, newest first.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		base = base.Where("date >= ?", filter.FromDate.UTC())
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", filter.ToDate.UTC())
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AccountID != nil {
		base = base.Where("account_id = ?", *filter.AccountID)
	}
	if filter.CardID != nil {
		base = base.Where("card_id = ?", *filter.CardID)
	}
	if filter.IsPaid != nil {
		base = base.Where("is_paid = ?", *filter.IsPaid)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Preload("Category").
		Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func findExpense(tx *gorm.DB, userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := tx.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// resolveTarget loads the account or card named by the request. Exactly one
// of the two ids must be present.
func resolveTarget(tx *gorm.DB, userID string, accountID, cardID *string) (ledger.Target, error) {
	switch {
	case hasValue(accountID) == hasValue(cardID):
		return nil, apperrors.ErrInvalidTarget
	case hasValue(accountID):
		account, err := findAccount(tx, userID, *accountID)
		if err != nil {
			return nil, err
		}
		return ledger.AccountTarget{Account: account}, nil
	default:
		card, err := findCard(tx, userID, *cardID)
		if err != nil {
			return nil, err
		}
		return ledger.CardTarget{Card: card}, nil
	}
}

// expenseTarget loads the account or card a stored expense points at. It
// returns a nil target when that record has since been deleted.
func expenseTarget(tx *gorm.DB, e *models.Expense) (ledger.Target, error) {
	switch {
	case e.AccountID != nil:
		account, err := findAccount(tx, e.UserID, *e.AccountID)
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return ledger.AccountTarget{Account: account}, nil
	case e.CardID != nil:
		card, err := findCard(tx, e.UserID, *e.CardID)
		if errors.Is(err, apperrors.ErrCardNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return ledger.CardTarget{Card: card}, nil
	}
	return nil, nil
}

func saveTarget(tx *gorm.DB, target ledger.Target) error {
	switch t := target.(type) {
	case ledger.AccountTarget:
		return saveAccountBalance(tx, t.Account)
	case ledger.CardTarget:
		return saveCardLimit(tx, t.Card)
	}
	return nil
}

func targetKey(target ledger.Target) string {
	if _, ok := target.(ledger.CardTarget); ok {
		return "card:" + target.ID()
	}
	return "account:" + target.ID()
}

func hasValue(s *string) bool {
	return s != nil && *s != ""
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
