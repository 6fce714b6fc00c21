package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType distinguishes single expenses from installment purchases.
type ExpenseType string

const (
	ExpenseTypeFixed        ExpenseType = "fixed"
	ExpenseTypeInstallments ExpenseType = "installments"
)

// Recurrence describes how often a fixed expense repeats.
type Recurrence string

const (
	RecurrenceOneTime Recurrence = "one-time"
	RecurrenceMonthly Recurrence = "monthly"
)

// Expense is a single stored expense row. Installment and recurrence series
// are stored as one row per occurrence linked by a shared group id.
// Exactly one of AccountID and CardID is set.
type Expense struct {
	Base
	UserID             string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID          *string         `gorm:"type:uuid;index" json:"account_id,omitempty"`
	CardID             *string         `gorm:"type:uuid;index" json:"card_id,omitempty"`
	CategoryID         string          `gorm:"type:uuid;not null" json:"category_id"`
	Amount             decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Description        string          `json:"description"`
	Date               time.Time       `gorm:"not null;index" json:"date"`
	Type               ExpenseType     `gorm:"not null;default:'fixed'" json:"type"`
	Recurrence         Recurrence      `gorm:"not null;default:'one-time'" json:"recurrence"`
	RecurrenceGroupID  *string         `gorm:"type:uuid;index" json:"recurrence_group_id,omitempty"`
	RecurrenceEndDate  *time.Time      `json:"recurrence_end_date,omitempty"`
	InstallmentNumber  *int            `json:"installment_number,omitempty"`
	InstallmentTotal   *int            `json:"installment_total,omitempty"`
	InstallmentGroupID *string         `gorm:"type:uuid;index" json:"installment_group_id,omitempty"`
	IsPaid             bool            `gorm:"not null;default:false" json:"is_paid"`

	// Relationships
	Account  *Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Card     *Card     `gorm:"foreignKey:CardID" json:"card,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
