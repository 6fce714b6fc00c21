package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	DateOfBirth *time.Time
	Gender      models.Gender
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(input RegisterInput) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, name string, initialBalance decimal.Decimal) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID, name string) (*models.Account, error)
	EditBalance(userID, accountID string, balance decimal.Decimal) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
}

// CardInput holds the fields of a new card.
type CardInput struct {
	Name       string
	Limit      decimal.Decimal
	ClosingDay int
	DueDay     int
}

// CardPatch holds the optional fields of a card update.
type CardPatch struct {
	Name       *string
	Limit      *decimal.Decimal
	ClosingDay *int
	DueDay     *int
}

// CardServicer defines the contract for credit card business logic.
type CardServicer interface {
	CreateCard(userID string, input CardInput) (*models.Card, error)
	GetUserCards(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Card], error)
	GetCardByID(userID, cardID string) (*models.Card, error)
	UpdateCard(userID, cardID string, patch CardPatch) (*models.Card, error)
	DeleteCard(userID, cardID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType) (*models.Category, error)
	GetUserCategories(userID string, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// CreateExpenseInput is an expense creation request before its account or
// card has been resolved. Exactly one of AccountID and CardID must be set.
type CreateExpenseInput struct {
	AccountID         *string
	CardID            *string
	CategoryID        string
	Amount            decimal.Decimal
	Description       string
	Date              time.Time
	Type              models.ExpenseType
	Installments      *int
	Recurrence        models.Recurrence
	RecurrenceEndDate *time.Time
}

// ExpensePatch holds the optional fields of an expense update.
type ExpensePatch struct {
	Description       *string
	Amount            *decimal.Decimal
	Date              *time.Time
	CategoryID        *string
	AccountID         *string
	CardID            *string
	RecurrenceEndDate *time.Time
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *string
	AccountID  *string
	CardID     *string
	IsPaid     *bool
}

// ExpenseServicer defines the contract for the expense lifecycle.
type ExpenseServicer interface {
	CreateExpense(userID string, input CreateExpenseInput) ([]models.Expense, error)
	UpdateExpense(userID, expenseID string, patch ExpensePatch) (*models.Expense, error)
	RemoveExpense(userID, expenseID string) error
	MarkAsPaid(userID string, expenseIDs []string) ([]models.Expense, error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
}

// EarningInput holds the fields of a new earning.
type EarningInput struct {
	AccountID   string
	CategoryID  string
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// EarningPatch holds the optional fields of an earning update.
type EarningPatch struct {
	AccountID   *string
	CategoryID  *string
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// EarningFilter holds optional filter parameters for listing earnings.
type EarningFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *string
	AccountID  *string
}

// EarningServicer defines the contract for earning-related business logic.
type EarningServicer interface {
	CreateEarning(userID string, input EarningInput) (*models.Earning, error)
	GetUserEarnings(userID string, page pagination.PageRequest, filter EarningFilter) (*pagination.PageResponse[models.Earning], error)
	GetEarningByID(userID, earningID string) (*models.Earning, error)
	UpdateEarning(userID, earningID string, patch EarningPatch) (*models.Earning, error)
	DeleteEarning(userID, earningID string) error
}

// ReportServicer defines the contract for read-only monthly reporting.
type ReportServicer interface {
	GetMonthlyReport(ctx context.Context, userID string, month, year int) (*MonthlyReport, error)
	GetReportRange(ctx context.Context, userID string) (*ReportRange, error)
	GetCardMonthlyExpenses(ctx context.Context, userID, cardID string, month, year int) (*CardMonthlyExpenses, error)
}

// DataServicer defines the contract for bulk user data operations.
type DataServicer interface {
	ResetUserData(userID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
