package services

import (
	"github.com/rs/zerolog/log"
	"github.com/skilllink/skilllink/pkg/internal/database"
	"github.com/skilllink/skilllink/pkg/internal/models"
	"gorm.io/datatypes"
)

// AddEvent appends an audit record for a mutation. Failures are logged and
// swallowed; auditing never blocks the operation itself.
func AddEvent(actorID, event string, payload map[string]any) {
	record := models.Event{
		Type:    event,
		ActorID: actorID,
		Payload: datatypes.JSONMap(payload),
	}
	if err := database.C.Create(&record).Error; err != nil {
		log.Warn().Err(err).Str("event", event).Msg("An error occurred when recording event...")
	}
}
