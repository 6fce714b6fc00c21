package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Money parses a decimal literal, failing loudly on typos in test code.
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
// The password is always "password123".
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     "Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates a non-default account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, decimal.Zero)
}

// CreateTestAccountWithBalance creates a non-default account with the given balance.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID string, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:  userID,
		Name:    fmt.Sprintf("Test Account %d", nextID()),
		Balance: balance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestDefaultAccount creates the user's default account.
func CreateTestDefaultAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:    userID,
		Name:      models.DefaultAccountName,
		IsDefault: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test default account: %v", err)
	}
	return account
}

// CreateTestCard creates a card whose current limit equals its limit.
func CreateTestCard(t *testing.T, db *gorm.DB, userID string, limit decimal.Decimal) *models.Card {
	t.Helper()

	card := &models.Card{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Card %d", nextID()),
		Limit:        limit,
		CurrentLimit: limit,
		ClosingDay:   5,
		DueDay:       15,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}
	return card
}

// CreateTestCategory creates a category of the given type owned by the user.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	owner := userID
	category := &models.Category{
		UserID: &owner,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestDefaultCategory creates a shared default category.
func CreateTestDefaultCategory(t *testing.T, db *gorm.DB, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:      name,
		Type:      categoryType,
		IsDefault: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test default category: %v", err)
	}
	return category
}

// CreateTestExpense stores a single unpaid expense row against an account
// without touching the account balance.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, accountID, categoryID string, amount decimal.Decimal, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		AccountID:   &accountID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Date:        date,
		Type:        models.ExpenseTypeFixed,
		Recurrence:  models.RecurrenceOneTime,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestEarning stores an earning without touching the account balance.
func CreateTestEarning(t *testing.T, db *gorm.DB, userID, accountID, categoryID string, amount decimal.Decimal, date time.Time) *models.Earning {
	t.Helper()

	earning := &models.Earning{
		UserID:      userID,
		AccountID:   accountID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: fmt.Sprintf("Test Earning %d", nextID()),
		Date:        date,
	}
	if err := db.Create(earning).Error; err != nil {
		t.Fatalf("failed to create test earning: %v", err)
	}
	return earning
}

// ReloadAccount reads the account back from the database.
func ReloadAccount(t *testing.T, db *gorm.DB, id string) *models.Account {
	t.Helper()

	var account models.Account
	if err := db.First(&account, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload account %s: %v", id, err)
	}
	return &account
}

// ReloadCard reads the card back from the database.
func ReloadCard(t *testing.T, db *gorm.DB, id string) *models.Card {
	t.Helper()

	var card models.Card
	if err := db.First(&card, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload card %s: %v", id, err)
	}
	return &card
}
