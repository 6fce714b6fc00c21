package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateEarning(t *testing.T) {
	t.Run("credits_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEarningService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, testutil.Money("100"))
		category := testutil.CreateTestDefaultCategory(t, db, "Salary", models.CategoryTypeIncome)

		earning, err := svc.CreateEarning(user.ID, EarningInput{
			AccountID:   account.ID,
			CategoryID:  category.ID,
			Amount:      testutil.Money("2500"),
			Description: "March salary",
			Date:        testutil.Date(2025, 3, 5),
		})
		testutil.AssertNoError(t, err)

		if earning.ID == "" {
			t.Fatal("expected earning ID")
		}
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, db, account.ID).Balance, "2600")
	})

	t.Run("defaults_date_to_now", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEarningService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		category := testutil.CreateTestDefaultCategory(t, db, "Salary", models.CategoryTypeIncome)

		earning, err := svc.CreateEarning(user.ID, EarningInput{AccountID: account.ID, CategoryID: category.ID, Amount: testutil.Money("1")})
		testutil.AssertNoError(t, err)
		if earning.Date.IsZero() {
			t.Error("expected date to default to now")
		}
	})

	t.Run("invalid_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEarningService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		category := testutil.CreateTestDefaultCategory(t, db, "Salary", models.CategoryTypeIncome)

		_, err := svc.CreateEarning(user.ID, EarningInput{AccountID: account.ID, CategoryID: category.ID, Amount: testutil.Money("0")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("foreign_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEarningService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, owner.ID)
		category := testutil.CreateTestDefaultCategory(t, db, "Salary", models.CategoryTypeIncome)

		_, err := svc.CreateEarning(intruder.ID, EarningInput{AccountID: account.ID, CategoryID: category.ID, Amount: testutil.Money("10")})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("foreign_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEarningService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db, other.ID, models.CategoryTypeIncome)

		_, err := svc.CreateEarning(user.ID, EarningInput{AccountID: account.ID, CategoryID: category.ID, Amount: testutil.Money("10")})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, db, account.ID).Balance, "0")
	})
}

func TestUpdateEarning(t *testing.T) {
	t.Run("amount_change_on_same_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEarningService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		category := testutil.CreateTestDefaultCategory(t, db, "Salary", models.CategoryTypeIncome)

		earning, err := svc.CreateEarning(user.ID, EarningInput{AccountID: account.ID, CategoryID: category.ID, Amount: testutil.Money("100"), Date: testutil.Date(2025, 1, 1)})
		testutil.AssertNoError(t, err)

		amount := testutil.Money("130")
		_, err = svc.UpdateEarning(user.ID, earning.ID, EarningPatch{Amount: &amount})
		testutil.AssertNoError(t, err)
		testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, db, account.ID).Balance, "130")
	})

	t.Run("move_between_accounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEarningService(db)
		user := testutil.CreateTestUser(t, db)
		from := testutil.CreateTestAccount(t, db, user.ID)
		to := testutil.CreateTestAccountWithBalance(t, db, user.ID, testutil.Money("5"))
		category := testutil.CreateTestDefaultCategory(t, db, "Salary", models.CategoryTypeIncome)

		earning, err := svc.CreateEarning(user.ID, EarningInput{AccountID: from.ID, CategoryID: category.ID, Amount: testutil.Money("100"), Date: testutil.Date(2025, 1, 1)})
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateEarning(user.ID, earning.ID, EarningPatch{AccountID: &to.ID})
		testutil.AssertNoError(t, err)

		if updated.AccountID != to.ID {
			t.Errorf("expected earning on %s, got %s", to.ID, updated.AccountID)
		}
		testutil.AssertMoney(t, "old account", testutil.ReloadAccount(t, db, from.ID).Balance, "0")
		testutil.AssertMoney(t, "new account", testutil.ReloadAccount(t, db, to.ID).Balance, "105")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEarningService(db)
		user := testutil.CreateTestUser(t, db)

		desc := "x"
		_, err := svc.UpdateEarning(user.ID, "0190a000-0000-7000-8000-000000000000", EarningPatch{Description: &desc})
		testutil.AssertAppError(t, err, "EARNING_NOT_FOUND")
	})
}

func TestDeleteEarning(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewEarningService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, testutil.Money("50"))
	category := testutil.CreateTestDefaultCategory(t, db, "Salary", models.CategoryTypeIncome)

	earning, err := svc.CreateEarning(user.ID, EarningInput{AccountID: account.ID, CategoryID: category.ID, Amount: testutil.Money("100"), Date: testutil.Date(2025, 1, 1)})
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.DeleteEarning(user.ID, earning.ID))
	testutil.AssertMoney(t, "balance", testutil.ReloadAccount(t, db, account.ID).Balance, "50")

	err = svc.DeleteEarning(user.ID, earning.ID)
	testutil.AssertAppError(t, err, "EARNING_NOT_FOUND")
}

func TestGetUserEarnings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewEarningService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID)
	category := testutil.CreateTestDefaultCategory(t, db, "Salary", models.CategoryTypeIncome)

	testutil.CreateTestEarning(t, db, user.ID, account.ID, category.ID, testutil.Money("10"), testutil.Date(2025, 1, 10))
	latest := testutil.CreateTestEarning(t, db, user.ID, account.ID, category.ID, testutil.Money("20"), testutil.Date(2025, 2, 10))

	result, err := svc.GetUserEarnings(user.ID, pagination.PageRequest{}, EarningFilter{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 2 || result.Data[0].ID != latest.ID {
		t.Errorf("expected 2 earnings newest first, got %+v", result.Data)
	}

	from := testutil.Date(2025, 2, 1)
	result, err = svc.GetUserEarnings(user.ID, pagination.PageRequest{}, EarningFilter{FromDate: &from})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 1 {
		t.Errorf("expected 1 earning since February, got %d", result.TotalItems)
	}

	got, err := svc.GetEarningByID(user.ID, latest.ID)
	testutil.AssertNoError(t, err)
	if got.Category == nil || got.Account == nil {
		t.Error("expected relations to be preloaded")
	}
}
