package database

import (
	"fmt"

	"fintrack/internal/logger"
	"fintrack/internal/models"

	"gorm.io/gorm"
)

type defaultCategory struct {
	name string
	typ  models.CategoryType
}

var defaultCategories = []defaultCategory{
	{"Food", models.CategoryTypeExpense},
	{"Subscriptions & Services", models.CategoryTypeExpense},
	{"Bars & Restaurants", models.CategoryTypeExpense},
	{"Home", models.CategoryTypeExpense},
	{"Shopping", models.CategoryTypeExpense},
	{"Personal Care", models.CategoryTypeExpense},
	{"Debts & Loans", models.CategoryTypeExpense},
	{"Education", models.CategoryTypeExpense},
	{"Family & Children", models.CategoryTypeExpense},
	{"Taxes & Fees", models.CategoryTypeExpense},
	{"Investments", models.CategoryTypeExpense},
	{"Leisure & Hobbies", models.CategoryTypeExpense},
	{"Supermarket", models.CategoryTypeExpense},
	{"Others", models.CategoryTypeExpense},
	{"Pets", models.CategoryTypeExpense},
	{"Gifts & Donations", models.CategoryTypeExpense},
	{"Clothing", models.CategoryTypeExpense},
	{"Health", models.CategoryTypeExpense},
	{"Work", models.CategoryTypeExpense},
	{"Transport", models.CategoryTypeExpense},
	{"Travel", models.CategoryTypeExpense},
	{"Loans", models.CategoryTypeIncome},
	{"Investments", models.CategoryTypeIncome},
	{"Other Income", models.CategoryTypeIncome},
	{"Salary", models.CategoryTypeIncome},
}

// SeedDefaultCategories inserts the shared default categories that are not
// present yet. Running it again is a no-op.
func SeedDefaultCategories(db *gorm.DB) (int, error) {
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, dc := range defaultCategories {
			var count int64
			if err := tx.Model(&models.Category{}).
				Where("user_id IS NULL AND is_default = ? AND name = ? AND type = ?", true, dc.name, dc.typ).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			category := &models.Category{Name: dc.name, Type: dc.typ, IsDefault: true}
			if err := tx.Create(category).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed default categories: %w", err)
	}

	if created > 0 {
		logger.Get().Infow("Seeded default categories", "created", created)
	}
	return created, nil
}
