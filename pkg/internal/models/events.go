package models

import "gorm.io/datatypes"

// Event is an append-only audit record emitted alongside mutations
// (posts.new, posts.delete, posts.react and friends).
type Event struct {
	BaseModel

	Type    string            `json:"type" gorm:"index"`
	ActorID string            `json:"actor_id" gorm:"index"`
	Payload datatypes.JSONMap `json:"payload"`
}
