package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// dataService handles bulk operations over a user's financial data.
type dataService struct {
	db *gorm.DB
}

// NewDataService creates a new DataServicer.
func NewDataService(db *gorm.DB) DataServicer {
	return &dataService{db: db}
}

// ResetUserData permanently removes the user's expenses, earnings, cards and
// accounts, then gives the user a fresh empty default account. The user and
// their own categories are kept.
func (s *dataService) ResetUserData(userID string) error {
	var removed [4]int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i, model := range []interface{}{&models.Expense{}, &models.Earning{}, &models.Card{}, &models.Account{}} {
			result := tx.Unscoped().Where("user_id = ?", userID).Delete(model)
			if result.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
			}
			removed[i] = result.RowsAffected
		}

		account := &models.Account{
			UserID:    userID,
			Name:      models.DefaultAccountName,
			Balance:   decimal.Zero,
			IsDefault: true,
		}
		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Infow("user data reset",
		"user_id", userID,
		"expenses", removed[0],
		"earnings", removed[1],
		"cards", removed[2],
		"accounts", removed[3],
	)
	return nil
}
