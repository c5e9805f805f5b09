package services

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/skilllink/skilllink/pkg/internal/database"
	"github.com/skilllink/skilllink/pkg/internal/models"
)

// DoAutoDatabaseCleanup permanently drops rows that have been soft-deleted
// for more than thirty days, plus likes and comments left orphaned by a
// purged post.
func DoAutoDatabaseCleanup() {
	deadline := time.Now().Add(-30 * 24 * time.Hour)
	log.Debug().Time("before", deadline).Msg("Now cleaning up entire database...")

	var count int64
	for _, model := range database.AutoMaintainRange {
		tx := database.C.Unscoped().
			Where("deleted_at IS NOT NULL").
			Where("deleted_at <= ?", deadline).
			Delete(model)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running auto database cleanup...")
			continue
		}
		count += tx.RowsAffected
	}

	if err := database.C.
		Where("post_id NOT IN (?)", database.C.Model(&models.Post{}).Select("id")).
		Delete(&models.Like{}).Error; err != nil {
		log.Error().Err(err).Msg("An error occurred when cleaning up orphan likes...")
	}

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
