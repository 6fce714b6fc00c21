package models

import "github.com/shopspring/decimal"

// Card represents a credit card. CurrentLimit is the remaining spendable
// credit: expenses decrease it, payments and removals give it back.
type Card struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string          `gorm:"not null" json:"name"`
	Limit        decimal.Decimal `gorm:"column:credit_limit;type:decimal(14,2);not null;default:0" json:"limit"`
	CurrentLimit decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"current_limit"`
	ClosingDay   int             `gorm:"not null" json:"closing_day"`
	DueDay       int             `gorm:"not null" json:"due_day"`
}
