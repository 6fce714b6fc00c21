package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category groups expenses or earnings. Default categories are shared by
// every user, have no owner and are read-only.
type Category struct {
	Base
	UserID    *string      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name      string       `gorm:"not null" json:"name"`
	Type      CategoryType `gorm:"not null" json:"type"`
	IsDefault bool         `gorm:"not null;default:false" json:"is_default"`
}
