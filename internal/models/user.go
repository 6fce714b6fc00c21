package models

import "time"

// Gender is the self-declared gender of a user.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// User represents the user model in the database
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Name                string     `json:"name"`
	DateOfBirth         *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender              Gender     `json:"gender,omitempty"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	Accounts            []Account  `gorm:"foreignKey:UserID" json:"accounts,omitempty"`
	Cards               []Card     `gorm:"foreignKey:UserID" json:"cards,omitempty"`
	Categories          []Category `gorm:"foreignKey:UserID" json:"categories,omitempty"`
}
