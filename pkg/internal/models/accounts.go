package models

import (
	"time"

	"gorm.io/gorm"
)

// Account is the authentication identity. It is keyed by a string UUID so
// the profile and every denormalized snapshot can reference it without an
// extra lookup.
type Account struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"uniqueIndex"`
	Password  string         `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
