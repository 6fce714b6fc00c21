package models

import "github.com/shopspring/decimal"

// MaxAccountsPerUser caps how many accounts a single user may hold.
const MaxAccountsPerUser = 10

// DefaultAccountName is the name given to the account created at registration.
const DefaultAccountName = "Main Account"

// Account represents a money-holding account owned by a user.
// Balance is signed and only changes through expense and earning mutations
// or an explicit balance edit.
type Account struct {
	Base
	UserID    string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string          `gorm:"not null" json:"name"`
	Balance   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"balance"`
	IsDefault bool            `gorm:"not null;default:false" json:"is_default"`
}
