package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile shares its primary key with the owning account. The feed only
// ever reads it and embeds snapshots into posts and comments at fetch time;
// staleness until the next fetch is accepted.
type Profile struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name"`
	Location  string         `json:"location"`
	Bio       string         `json:"bio"`
	PhotoURL  *string        `json:"photo_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
