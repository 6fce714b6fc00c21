package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new non-default account for a user.
func (s *accountService) CreateAccount(userID, name string, initialBalance decimal.Decimal) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	account := &models.Account{
		UserID:  userID,
		Name:    name,
		Balance: initialBalance.Round(2),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count >= models.MaxAccountsPerUser {
			return apperrors.ErrAccountLimit
		}
		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user.
// The default account is listed first.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Order("is_default DESC, created_at ASC").Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	return findAccount(s.db, userID, accountID)
}

// UpdateAccount renames an account.
func (s *accountService) UpdateAccount(userID, accountID, name string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	account, err := findAccount(s.db, userID, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(account).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	account.Name = name
	return account, nil
}

// EditBalance overwrites the balance of an account. It is the only way to move
// a balance without an expense or earning.
func (s *accountService) EditBalance(userID, accountID string, balance decimal.Decimal) (*models.Account, error) {
	account, err := findAccount(s.db, userID, accountID)
	if err != nil {
		return nil, err
	}

	previous := account.Balance
	account.Balance = balance.Round(2)
	if err := saveAccountBalance(s.db, account); err != nil {
		return nil, err
	}

	logger.Get().Debugw("account balance edited",
		"account_id", account.ID,
		"from", previous.String(),
		"to", account.Balance.String(),
	)
	return account, nil
}

// DeleteAccount soft-deletes a non-default account.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := findAccount(s.db, userID, accountID)
	if err != nil {
		return err
	}
	if account.IsDefault {
		return apperrors.ErrDefaultAccount
	}

	if err := s.db.Delete(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// findAccount loads an account owned by the user. Accounts of other users are
// reported as not found.
func findAccount(db *gorm.DB, userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// saveAccountBalance persists only the balance column of the account.
func saveAccountBalance(tx *gorm.DB, account *models.Account) error {
	if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
