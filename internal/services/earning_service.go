package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// earningService handles earnings and the account balance they feed.
type earningService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEarningService creates a new EarningServicer.
func NewEarningService(db *gorm.DB) EarningServicer {
	return &earningService{db: db, now: time.Now}
}

// CreateEarning records an earning and credits its account.
func (s *earningService) CreateEarning(userID string, input EarningInput) (*models.Earning, error) {
	amount := input.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	earning := &models.Earning{
		UserID:      userID,
		Amount:      amount,
		Description: input.Description,
		Date:        date.UTC(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := findAccount(tx, userID, input.AccountID)
		if err != nil {
			return err
		}
		category, err := findVisibleCategory(tx, userID, input.CategoryID)
		if err != nil {
			return err
		}

		earning.AccountID = account.ID
		earning.CategoryID = category.ID
		if err := tx.Create(earning).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		ledger.ApplyEarningDelta(account, amount)
		return saveAccountBalance(tx, account)
	})
	if err != nil {
		return nil, err
	}

	return earning, nil
}

// GetUserEarnings lists the user's earnings, newest first.
func (s *earningService) GetUserEarnings(userID string, page pagination.PageRequest, filter EarningFilter) (*pagination.PageResponse[models.Earning], error) {
	page.Defaults()

	base := s.db.Model(&models.Earning{}).Where("user_id = ?", userID)
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

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var earnings []models.Earning
	if err := base.Preload("Category").Preload("Account").
		Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&earnings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(earnings, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetEarningByID retrieves an earning with its account and category.
func (s *earningService) GetEarningByID(userID, earningID string) (*models.Earning, error) {
	var earning models.Earning
	err := s.db.Preload("Category").Preload("Account").
		Where("id = ? AND user_id = ?", earningID, userID).
		First(&earning).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEarningNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &earning, nil
}

// UpdateEarning applies a sparse patch. An amount change credits the
// difference; moving the earning debits the old account and credits the new one.
func (s *earningService) UpdateEarning(userID, earningID string, patch EarningPatch) (*models.Earning, error) {
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	var earning *models.Earning
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		earning, err = findEarning(tx, userID, earningID)
		if err != nil {
			return err
		}

		oldAmount := earning.Amount
		oldAccount, err := findAccount(tx, userID, earning.AccountID)
		if err != nil && !errors.Is(err, apperrors.ErrAccountNotFound) {
			return err
		}

		newAccount := oldAccount
		if patch.AccountID != nil && *patch.AccountID != "" && *patch.AccountID != earning.AccountID {
			newAccount, err = findAccount(tx, userID, *patch.AccountID)
			if err != nil {
				return err
			}
			earning.AccountID = newAccount.ID
		}
		if patch.CategoryID != nil {
			category, err := findVisibleCategory(tx, userID, *patch.CategoryID)
			if err != nil {
				return err
			}
			earning.CategoryID = category.ID
		}
		if patch.Amount != nil {
			earning.Amount = patch.Amount.Round(2)
		}
		if patch.Description != nil {
			earning.Description = *patch.Description
		}
		if patch.Date != nil {
			earning.Date = patch.Date.UTC()
		}
		earning.Account = nil
		earning.Category = nil

		if oldAccount != nil {
			ledger.ApplyEarningDelta(oldAccount, oldAmount.Neg())
		}
		if newAccount != nil {
			ledger.ApplyEarningDelta(newAccount, earning.Amount)
		}
		if oldAccount != nil {
			if err := saveAccountBalance(tx, oldAccount); err != nil {
				return err
			}
		}
		if newAccount != nil && newAccount != oldAccount {
			if err := saveAccountBalance(tx, newAccount); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Save(earning).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return earning, nil
}

// DeleteEarning removes an earning and debits its account.
func (s *earningService) DeleteEarning(userID, earningID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		earning, err := findEarning(tx, userID, earningID)
		if err != nil {
			return err
		}

		account, err := findAccount(tx, userID, earning.AccountID)
		switch {
		case errors.Is(err, apperrors.ErrAccountNotFound):
		case err != nil:
			return err
		default:
			ledger.ApplyEarningDelta(account, earning.Amount.Neg())
			if err := saveAccountBalance(tx, account); err != nil {
				return err
			}
		}

		if err := tx.Delete(earning).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func findEarning(tx *gorm.DB, userID, earningID string) (*models.Earning, error) {
	var earning models.Earning
	if err := tx.Where("id = ? AND user_id = ?", earningID, userID).First(&earning).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEarningNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &earning, nil
}
