// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom tags on an arbitrary validator instance.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("expense_type", validateExpenseType)
	_ = v.RegisterValidation("recurrence", validateRecurrence)
	_ = v.RegisterValidation("category_type", validateCategoryType)
	_ = v.RegisterValidation("gender", validateGender)
}

func validateExpenseType(fl validator.FieldLevel) bool {
	switch models.ExpenseType(fl.Field().String()) {
	case models.ExpenseTypeFixed, models.ExpenseTypeInstallments:
		return true
	}
	return false
}

func validateRecurrence(fl validator.FieldLevel) bool {
	switch models.Recurrence(fl.Field().String()) {
	case models.RecurrenceOneTime, models.RecurrenceMonthly:
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch models.CategoryType(fl.Field().String()) {
	case models.CategoryTypeIncome, models.CategoryTypeExpense:
		return true
	}
	return false
}

func validateGender(fl validator.FieldLevel) bool {
	switch models.Gender(fl.Field().String()) {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return true
	}
	return false
}
