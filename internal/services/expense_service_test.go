package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

type expenseFixture struct {
	db       *gorm.DB
	svc      ExpenseServicer
	user     *models.User
	account  *models.Account
	card     *models.Card
	category *models.Category
}

func setupExpenseFixture(t *testing.T) *expenseFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db)
	return &expenseFixture{
		db:       db,
		svc:      NewExpenseService(db),
		user:     user,
		account:  testutil.CreateTestAccountWithBalance(t, db, user.ID, testutil.Money("1000")),
		card:     testutil.CreateTestCard(t, db, user.ID, testutil.Money("5000")),
		category: testutil.CreateTestDefaultCategory(t, db, "Food", models.CategoryTypeExpense),
	}
}

func (f *expenseFixture) accountInput(amount string, date time.Time) CreateExpenseInput {
	id := f.account.ID
	return CreateExpenseInput{
		AccountID:   &id,
		CategoryID:  f.category.ID,
		Amount:      testutil.Money(amount),
		Description: "Groceries",
		Date:        date,
		Type:        models.ExpenseTypeFixed,
	}
}

func (f *expenseFixture) cardInput(amount string, date time.Time) CreateExpenseInput {
	in := f.accountInput(amount, date)
	id := f.card.ID
	in.AccountID = nil
	in.CardID = &id
	return in
}

func (f *expenseFixture) balance(t *testing.T) string {
	t.Helper()
	return testutil.ReloadAccount(t, f.db, f.account.ID).Balance.String()
}

func (f *expenseFixture) countExpenses(t *testing.T) int64 {
	t.Helper()
	var count int64
	f.db.Model(&models.Expense{}).Where("user_id = ?", f.user.ID).Count(&count)
	return count
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestCreateExpense(t *testing.T) {
	t.Run("single_on_account", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		rows, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
		if rows[0].ID == "" || rows[0].Recurrence != models.RecurrenceOneTime {
			t.Errorf("unexpected row: %+v", rows[0])
		}
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "800")
	})

	t.Run("single_on_card", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		_, err := f.svc.CreateExpense(f.user.ID, f.cardInput("250.50", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		testutil.AssertMoney(t, "current limit", testutil.ReloadCard(t, f.db, f.card.ID).CurrentLimit, "4749.50")
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "1000")
	})

	t.Run("installments_on_card", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		in := f.cardInput("1200", testutil.Date(2025, 1, 15))
		in.Type = models.ExpenseTypeInstallments
		in.Installments = intPtr(3)

		rows, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertNoError(t, err)

		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		wantDates := []time.Time{testutil.Date(2025, 1, 15), testutil.Date(2025, 2, 15), testutil.Date(2025, 3, 15)}
		for i, row := range rows {
			testutil.AssertMoney(t, "installment amount", row.Amount, "400")
			if !row.Date.Equal(wantDates[i]) {
				t.Errorf("row %d: expected date %s, got %s", i, wantDates[i], row.Date)
			}
			if row.InstallmentGroupID == nil || *row.InstallmentGroupID != *rows[0].InstallmentGroupID {
				t.Errorf("row %d: expected shared installment group", i)
			}
		}
		testutil.AssertMoney(t, "current limit", testutil.ReloadCard(t, f.db, f.card.ID).CurrentLimit, "3800")
		if n := f.countExpenses(t); n != 3 {
			t.Errorf("expected 3 stored rows, got %d", n)
		}
	})

	t.Run("installments_on_account_charge_nominal_amount", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		in := f.accountInput("100", testutil.Date(2025, 1, 15))
		in.Type = models.ExpenseTypeInstallments
		in.Installments = intPtr(3)

		rows, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertNoError(t, err)

		testutil.AssertMoney(t, "installment amount", rows[0].Amount, "33.33")
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "900")
	})

	t.Run("monthly_recurrence_on_account", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		in := f.accountInput("50", testutil.Date(2025, 1, 10))
		in.Recurrence = models.RecurrenceMonthly
		end := testutil.Date(2025, 4, 5)
		in.RecurrenceEndDate = &end

		rows, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertNoError(t, err)

		if len(rows) != 4 {
			t.Fatalf("expected 4 monthly rows, got %d", len(rows))
		}
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "800")
	})

	t.Run("monthly_recurrence_on_card", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		in := f.cardInput("50", testutil.Date(2025, 1, 10))
		in.Recurrence = models.RecurrenceMonthly
		end := testutil.Date(2025, 4, 5)
		in.RecurrenceEndDate = &end

		_, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertNoError(t, err)

		testutil.AssertMoney(t, "current limit", testutil.ReloadCard(t, f.db, f.card.ID).CurrentLimit, "4950")
	})

	t.Run("both_targets", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		in := f.accountInput("10", testutil.Date(2025, 1, 1))
		in.CardID = strPtr(f.card.ID)

		_, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_TARGET")
	})

	t.Run("no_target", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		in := f.accountInput("10", testutil.Date(2025, 1, 1))
		in.AccountID = nil

		_, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_TARGET")
	})

	t.Run("foreign_account", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)
		other := testutil.CreateTestUser(t, f.db)

		_, err := f.svc.CreateExpense(other.ID, f.accountInput("10", testutil.Date(2025, 1, 1)))
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("foreign_card", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)
		other := testutil.CreateTestUser(t, f.db)

		_, err := f.svc.CreateExpense(other.ID, f.cardInput("10", testutil.Date(2025, 1, 1)))
		testutil.AssertAppError(t, err, "CARD_NOT_FOUND")
	})

	t.Run("foreign_category", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)
		other := testutil.CreateTestUser(t, f.db)
		foreign := testutil.CreateTestCategory(t, f.db, other.ID, models.CategoryTypeExpense)

		in := f.accountInput("10", testutil.Date(2025, 1, 1))
		in.CategoryID = foreign.ID

		_, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("invalid_amount_changes_nothing", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		_, err := f.svc.CreateExpense(f.user.ID, f.accountInput("0", testutil.Date(2025, 1, 1)))
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		if n := f.countExpenses(t); n != 0 {
			t.Errorf("expected no stored rows, got %d", n)
		}
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "1000")
	})

	t.Run("recurrence_end_before_start", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		in := f.accountInput("10", testutil.Date(2025, 5, 1))
		in.Recurrence = models.RecurrenceMonthly
		end := testutil.Date(2025, 2, 1)
		in.RecurrenceEndDate = &end

		_, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("recurrence_span_too_long_changes_nothing", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		in := f.accountInput("1", testutil.Date(2025, 1, 15))
		in.Recurrence = models.RecurrenceMonthly
		end := testutil.Date(2400, 1, 15)
		in.RecurrenceEndDate = &end

		_, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		if n := f.countExpenses(t); n != 0 {
			t.Errorf("expected no stored rows, got %d", n)
		}
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "1000")
	})

	t.Run("recurrence_at_row_limit_is_stored_in_batches", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		in := f.accountInput("1", testutil.Date(2025, 1, 15))
		in.Recurrence = models.RecurrenceMonthly
		end := testutil.Date(2064, 12, 15)
		in.RecurrenceEndDate = &end

		rows, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertNoError(t, err)

		if len(rows) != 480 {
			t.Fatalf("expected 480 rows, got %d", len(rows))
		}
		if n := f.countExpenses(t); n != 480 {
			t.Errorf("expected 480 stored rows, got %d", n)
		}
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "520")
	})
}

func TestRemoveExpense(t *testing.T) {
	t.Run("unpaid_account_expense_restores_balance", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		rows, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)
		testutil.AssertMoney(t, "balance after create", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "800")

		testutil.AssertNoError(t, f.svc.RemoveExpense(f.user.ID, rows[0].ID))
		testutil.AssertMoney(t, "balance after remove", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "1000")

		err = f.svc.RemoveExpense(f.user.ID, rows[0].ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})

	t.Run("only_the_single_row_is_removed", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		in := f.accountInput("300", testutil.Date(2025, 1, 15))
		in.Type = models.ExpenseTypeInstallments
		in.Installments = intPtr(3)
		rows, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, f.svc.RemoveExpense(f.user.ID, rows[1].ID))

		if n := f.countExpenses(t); n != 2 {
			t.Errorf("expected 2 sibling rows left, got %d", n)
		}
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "800")
	})

	t.Run("paid_expense_keeps_balance", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		rows, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)
		_, err = f.svc.MarkAsPaid(f.user.ID, []string{rows[0].ID})
		testutil.AssertNoError(t, err)
		before := f.balance(t)

		testutil.AssertNoError(t, f.svc.RemoveExpense(f.user.ID, rows[0].ID))
		if after := f.balance(t); after != before {
			t.Errorf("expected balance %s to stay, got %s", before, after)
		}
	})

	t.Run("card_expense_in_current_month_restores_limit", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)
		svc := &expenseService{db: f.db, now: func() time.Time { return testutil.Date(2025, 3, 20) }}

		rows, err := svc.CreateExpense(f.user.ID, f.cardInput("100", testutil.Date(2025, 3, 2)))
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.RemoveExpense(f.user.ID, rows[0].ID))
		testutil.AssertMoney(t, "current limit", testutil.ReloadCard(t, f.db, f.card.ID).CurrentLimit, "5000")
	})

	t.Run("card_expense_in_other_month_keeps_limit", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)
		svc := &expenseService{db: f.db, now: func() time.Time { return testutil.Date(2025, 4, 1) }}

		rows, err := svc.CreateExpense(f.user.ID, f.cardInput("100", testutil.Date(2025, 3, 2)))
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.RemoveExpense(f.user.ID, rows[0].ID))
		testutil.AssertMoney(t, "current limit", testutil.ReloadCard(t, f.db, f.card.ID).CurrentLimit, "4900")
	})

	t.Run("other_users_expense", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)
		other := testutil.CreateTestUser(t, f.db)

		rows, err := f.svc.CreateExpense(f.user.ID, f.accountInput("10", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		err = f.svc.RemoveExpense(other.ID, rows[0].ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
		if n := f.countExpenses(t); n != 1 {
			t.Errorf("expected expense to survive, got %d rows", n)
		}
	})
}

func TestMarkAsPaid(t *testing.T) {
	t.Run("releases_holds_once", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		a, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)
		b, err := f.svc.CreateExpense(f.user.ID, f.accountInput("50", testutil.Date(2025, 3, 2)))
		testutil.AssertNoError(t, err)
		c, err := f.svc.CreateExpense(f.user.ID, f.cardInput("300", testutil.Date(2025, 3, 3)))
		testutil.AssertNoError(t, err)

		ids := []string{a[0].ID, b[0].ID, c[0].ID, a[0].ID}
		paid, err := f.svc.MarkAsPaid(f.user.ID, ids)
		testutil.AssertNoError(t, err)

		if len(paid) != 3 {
			t.Fatalf("expected 3 expenses to transition, got %d", len(paid))
		}
		for _, e := range paid {
			if !e.IsPaid {
				t.Errorf("expected expense %s to be paid", e.ID)
			}
		}
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "1000")
		testutil.AssertMoney(t, "current limit", testutil.ReloadCard(t, f.db, f.card.ID).CurrentLimit, "5000")

		again, err := f.svc.MarkAsPaid(f.user.ID, ids)
		testutil.AssertNoError(t, err)
		if len(again) != 0 {
			t.Errorf("expected second call to be a no-op, got %d transitions", len(again))
		}
		testutil.AssertMoney(t, "balance after second call", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "1000")
	})

	t.Run("foreign_id_fails_whole_batch", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)
		other := testutil.CreateTestUser(t, f.db)
		otherAccount := testutil.CreateTestAccountWithBalance(t, f.db, other.ID, testutil.Money("10"))
		foreign := testutil.CreateTestExpense(t, f.db, other.ID, otherAccount.ID, f.category.ID, testutil.Money("5"), testutil.Date(2025, 3, 1))

		own, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		_, err = f.svc.MarkAsPaid(f.user.ID, []string{own[0].ID, foreign.ID})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")

		got, err := f.svc.GetExpenseByID(f.user.ID, own[0].ID)
		testutil.AssertNoError(t, err)
		if got.IsPaid {
			t.Error("expected own expense to stay unpaid")
		}
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "800")
	})

	t.Run("unknown_id", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		_, err := f.svc.MarkAsPaid(f.user.ID, []string{"0190a000-0000-7000-8000-000000000000"})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})

	t.Run("empty_list", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		_, err := f.svc.MarkAsPaid(f.user.ID, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateExpense(t *testing.T) {
	t.Run("amount_change_moves_hold", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		rows, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		amount := testutil.Money("150")
		desc := "Updated"
		updated, err := f.svc.UpdateExpense(f.user.ID, rows[0].ID, ExpensePatch{Amount: &amount, Description: &desc})
		testutil.AssertNoError(t, err)

		if updated.Description != "Updated" {
			t.Errorf("expected description Updated, got %s", updated.Description)
		}
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "850")
	})

	t.Run("switch_account_to_card", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		rows, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		updated, err := f.svc.UpdateExpense(f.user.ID, rows[0].ID, ExpensePatch{CardID: strPtr(f.card.ID)})
		testutil.AssertNoError(t, err)

		if updated.AccountID != nil || updated.CardID == nil || *updated.CardID != f.card.ID {
			t.Errorf("expected expense to point at the card, got account=%v card=%v", updated.AccountID, updated.CardID)
		}
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "1000")
		testutil.AssertMoney(t, "current limit", testutil.ReloadCard(t, f.db, f.card.ID).CurrentLimit, "4800")

		stored, err := f.svc.GetExpenseByID(f.user.ID, rows[0].ID)
		testutil.AssertNoError(t, err)
		if stored.AccountID != nil {
			t.Error("expected stored account_id to be cleared")
		}
	})

	t.Run("paid_expense_keeps_balances", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		rows, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)
		_, err = f.svc.MarkAsPaid(f.user.ID, []string{rows[0].ID})
		testutil.AssertNoError(t, err)

		amount := testutil.Money("500")
		_, err = f.svc.UpdateExpense(f.user.ID, rows[0].ID, ExpensePatch{Amount: &amount})
		testutil.AssertNoError(t, err)
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "1000")
	})

	t.Run("both_targets", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		rows, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		_, err = f.svc.UpdateExpense(f.user.ID, rows[0].ID, ExpensePatch{AccountID: strPtr(f.account.ID), CardID: strPtr(f.card.ID)})
		testutil.AssertAppError(t, err, "INVALID_TARGET")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		rows, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		amount := testutil.Money("-1")
		_, err = f.svc.UpdateExpense(f.user.ID, rows[0].ID, ExpensePatch{Amount: &amount})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("foreign_category_rolls_back", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)
		other := testutil.CreateTestUser(t, f.db)
		foreign := testutil.CreateTestCategory(t, f.db, other.ID, models.CategoryTypeExpense)

		rows, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		amount := testutil.Money("100")
		_, err = f.svc.UpdateExpense(f.user.ID, rows[0].ID, ExpensePatch{Amount: &amount, CategoryID: &foreign.ID})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, f.db, f.account.ID).Balance, "800")
	})

	t.Run("not_found", func(t *testing.T) {
		f := setupExpenseFixture(t)
		defer testutil.TeardownTestDB(t, f.db)

		desc := "x"
		_, err := f.svc.UpdateExpense(f.user.ID, "0190a000-0000-7000-8000-000000000000", ExpensePatch{Description: &desc})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestGetUserExpenses(t *testing.T) {
	f := setupExpenseFixture(t)
	defer testutil.TeardownTestDB(t, f.db)

	_, err := f.svc.CreateExpense(f.user.ID, f.accountInput("10", testutil.Date(2025, 1, 5)))
	testutil.AssertNoError(t, err)
	_, err = f.svc.CreateExpense(f.user.ID, f.accountInput("20", testutil.Date(2025, 2, 5)))
	testutil.AssertNoError(t, err)
	card, err := f.svc.CreateExpense(f.user.ID, f.cardInput("30", testutil.Date(2025, 2, 10)))
	testutil.AssertNoError(t, err)
	_, err = f.svc.MarkAsPaid(f.user.ID, []string{card[0].ID})
	testutil.AssertNoError(t, err)

	t.Run("all_newest_first", func(t *testing.T) {
		result, err := f.svc.GetUserExpenses(f.user.ID, pagination.PageRequest{}, ExpenseFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 3 {
			t.Fatalf("expected 3 expenses, got %d", result.TotalItems)
		}
		if result.Data[0].ID != card[0].ID {
			t.Errorf("expected newest expense first")
		}
		if result.Data[0].Category == nil {
			t.Error("expected category to be preloaded")
		}
	})

	t.Run("date_range", func(t *testing.T) {
		from, to := testutil.Date(2025, 2, 1), testutil.Date(2025, 2, 28)
		result, err := f.svc.GetUserExpenses(f.user.ID, pagination.PageRequest{}, ExpenseFilter{FromDate: &from, ToDate: &to})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 expenses in February, got %d", result.TotalItems)
		}
	})

	t.Run("by_card_and_paid", func(t *testing.T) {
		paid := true
		result, err := f.svc.GetUserExpenses(f.user.ID, pagination.PageRequest{}, ExpenseFilter{CardID: &f.card.ID, IsPaid: &paid})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 paid card expense, got %d", result.TotalItems)
		}
	})

	t.Run("other_user_sees_nothing", func(t *testing.T) {
		other := testutil.CreateTestUser(t, f.db)
		result, err := f.svc.GetUserExpenses(other.ID, pagination.PageRequest{}, ExpenseFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no expenses, got %d", result.TotalItems)
		}
	})
}
