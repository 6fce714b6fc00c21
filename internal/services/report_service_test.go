package services

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestGetMonthlyReport(t *testing.T) {
	ctx := context.Background()

	t.Run("merges_and_sorts_transactions", func(t *testing.T) {
		f := setupExpenseFixture(t)
		svc := NewReportService(f.db)
		salary := testutil.CreateTestDefaultCategory(t, f.db, "Salary", models.CategoryTypeIncome)

		testutil.CreateTestExpense(t, f.db, f.user.ID, f.account.ID, f.category.ID, testutil.Money("40"), testutil.Date(2025, 3, 20))
		testutil.CreateTestEarning(t, f.db, f.user.ID, f.account.ID, salary.ID, testutil.Money("500"), testutil.Date(2025, 3, 5))
		testutil.CreateTestExpense(t, f.db, f.user.ID, f.account.ID, f.category.ID, testutil.Money("99"), testutil.Date(2025, 4, 1))

		report, err := svc.GetMonthlyReport(ctx, f.user.ID, 3, 2025)
		testutil.AssertNoError(t, err)

		if len(report.Transactions) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(report.Transactions))
		}
		if report.Transactions[0].Type != ReportTypeEarning || report.Transactions[1].Type != ReportTypeExpense {
			t.Errorf("expected earning before expense, got %s then %s", report.Transactions[0].Type, report.Transactions[1].Type)
		}
		if report.Transactions[1].IsPaid == nil || *report.Transactions[1].IsPaid {
			t.Error("expected expense line to carry is_paid=false")
		}
		if report.Transactions[0].IsPaid != nil {
			t.Error("expected earning line to have no is_paid")
		}
		if src := report.Transactions[1].Source; src == nil || src.Kind != SourceAccount || src.ID != f.account.ID {
			t.Errorf("expected account source, got %+v", src)
		}
		testutil.AssertMoney(t, "total earnings", report.TotalEarnings, "500")
		testutil.AssertMoney(t, "total expenses", report.TotalExpenses, "40")
		testutil.AssertMoney(t, "balance", report.Balance, "460")
	})

	t.Run("second_of_three_installments", func(t *testing.T) {
		f := setupExpenseFixture(t)
		svc := NewReportService(f.db)

		in := f.accountInput("300", testutil.Date(2025, 1, 10))
		in.Type = models.ExpenseTypeInstallments
		in.Installments = intPtr(3)
		_, err := f.svc.CreateExpense(f.user.ID, in)
		testutil.AssertNoError(t, err)

		report, err := svc.GetMonthlyReport(ctx, f.user.ID, 2, 2025)
		testutil.AssertNoError(t, err)

		if len(report.Transactions) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(report.Transactions))
		}
		line := report.Transactions[0]
		testutil.AssertMoney(t, "amount", line.Amount, "100")
		if line.InstallmentInfo != "2/3" {
			t.Errorf("expected installment info 2/3, got %q", line.InstallmentInfo)
		}
	})

	t.Run("virtual_installment_series", func(t *testing.T) {
		f := setupExpenseFixture(t)
		svc := NewReportService(f.db)

		row := testutil.CreateTestExpense(t, f.db, f.user.ID, f.account.ID, f.category.ID, testutil.Money("50"), testutil.Date(2025, 1, 31))
		total := 4
		row.Type = models.ExpenseTypeInstallments
		row.InstallmentTotal = &total
		testutil.AssertNoError(t, f.db.Save(row).Error)

		report, err := svc.GetMonthlyReport(ctx, f.user.ID, 2, 2025)
		testutil.AssertNoError(t, err)
		if len(report.Transactions) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(report.Transactions))
		}
		if got := report.Transactions[0]; got.InstallmentInfo != "2/4" || !got.Date.Equal(testutil.Date(2025, 2, 28)) {
			t.Errorf("unexpected occurrence %+v", got)
		}

		report, err = svc.GetMonthlyReport(ctx, f.user.ID, 5, 2025)
		testutil.AssertNoError(t, err)
		if len(report.Transactions) != 0 {
			t.Errorf("expected series to have ended, got %d transactions", len(report.Transactions))
		}
	})

	t.Run("other_users_data_is_hidden", func(t *testing.T) {
		f := setupExpenseFixture(t)
		svc := NewReportService(f.db)
		other := testutil.CreateTestUser(t, f.db)

		testutil.CreateTestExpense(t, f.db, f.user.ID, f.account.ID, f.category.ID, testutil.Money("40"), testutil.Date(2025, 3, 20))

		report, err := svc.GetMonthlyReport(ctx, other.ID, 3, 2025)
		testutil.AssertNoError(t, err)
		if len(report.Transactions) != 0 {
			t.Errorf("expected empty report, got %d transactions", len(report.Transactions))
		}
		testutil.AssertMoney(t, "balance", report.Balance, "0")
	})

	t.Run("invalid_month", func(t *testing.T) {
		f := setupExpenseFixture(t)
		svc := NewReportService(f.db)

		_, err := svc.GetMonthlyReport(ctx, f.user.ID, 13, 2025)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.GetMonthlyReport(ctx, f.user.ID, 0, 2025)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestExpenseReportRoundTrip(t *testing.T) {
	f := setupExpenseFixture(t)
	reports := NewReportService(f.db)

	rows, err := f.svc.CreateExpense(f.user.ID, f.accountInput("200", testutil.Date(2025, 3, 1)))
	testutil.AssertNoError(t, err)
	if got := f.balance(t); got != "800" {
		t.Fatalf("expected balance 800 after create, got %s", got)
	}

	report, err := reports.GetMonthlyReport(context.Background(), f.user.ID, 3, 2025)
	testutil.AssertNoError(t, err)
	if len(report.Transactions) != 1 || report.Transactions[0].ID != rows[0].ID {
		t.Fatalf("expected March report to contain the expense, got %+v", report.Transactions)
	}

	testutil.AssertNoError(t, f.svc.RemoveExpense(f.user.ID, rows[0].ID))
	if got := f.balance(t); got != "1000" {
		t.Errorf("expected balance 1000 after remove, got %s", got)
	}
}

func TestGetReportRange(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("empty_data", func(t *testing.T) {
		f := setupExpenseFixture(t)
		svc := &reportService{db: f.db, now: func() time.Time { return now }}

		r, err := svc.GetReportRange(ctx, f.user.ID)
		testutil.AssertNoError(t, err)
		if !r.Start.Equal(testutil.Date(2025, 6, 1)) {
			t.Errorf("expected start 2025-06-01, got %v", r.Start)
		}
		if want := testutil.Date(2025, 8, 1).Add(-time.Nanosecond); !r.End.Equal(want) {
			t.Errorf("expected end %v, got %v", want, r.End)
		}
	})

	t.Run("extends_to_data", func(t *testing.T) {
		f := setupExpenseFixture(t)
		svc := &reportService{db: f.db, now: func() time.Time { return now }}
		salary := testutil.CreateTestDefaultCategory(t, f.db, "Salary", models.CategoryTypeIncome)

		testutil.CreateTestEarning(t, f.db, f.user.ID, f.account.ID, salary.ID, testutil.Money("1"), testutil.Date(2024, 11, 20))
		testutil.CreateTestExpense(t, f.db, f.user.ID, f.account.ID, f.category.ID, testutil.Money("1"), testutil.Date(2026, 2, 3))

		r, err := svc.GetReportRange(ctx, f.user.ID)
		testutil.AssertNoError(t, err)
		if !r.Start.Equal(testutil.Date(2024, 11, 1)) {
			t.Errorf("expected start 2024-11-01, got %v", r.Start)
		}
		if want := testutil.Date(2026, 3, 1).Add(-time.Nanosecond); !r.End.Equal(want) {
			t.Errorf("expected end %v, got %v", want, r.End)
		}
	})
}

func TestGetCardMonthlyExpenses(t *testing.T) {
	ctx := context.Background()
	f := setupExpenseFixture(t)
	svc := NewReportService(f.db)

	in := f.cardInput("1200", testutil.Date(2025, 1, 15))
	in.Type = models.ExpenseTypeInstallments
	in.Installments = intPtr(3)
	_, err := f.svc.CreateExpense(f.user.ID, in)
	testutil.AssertNoError(t, err)
	_, err = f.svc.CreateExpense(f.user.ID, f.accountInput("10", testutil.Date(2025, 2, 2)))
	testutil.AssertNoError(t, err)

	statement, err := svc.GetCardMonthlyExpenses(ctx, f.user.ID, f.card.ID, 2, 2025)
	testutil.AssertNoError(t, err)
	if len(statement.Expenses) != 1 {
		t.Fatalf("expected 1 card expense, got %d", len(statement.Expenses))
	}
	testutil.AssertMoney(t, "total", statement.Total, "400")

	statement, err = svc.GetCardMonthlyExpenses(ctx, f.user.ID, "0190a000-0000-7000-8000-000000000000", 2, 2025)
	testutil.AssertNoError(t, err)
	if len(statement.Expenses) != 0 {
		t.Errorf("expected empty statement for unknown card, got %d", len(statement.Expenses))
	}
	testutil.AssertMoney(t, "total", statement.Total, "0")
}
