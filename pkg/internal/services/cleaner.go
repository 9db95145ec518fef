package services

import (
	"time"

	"git.solsynth.dev/hypernet/conference/pkg/internal/database"
	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

func DoAutoDatabaseCleanup() {
	deadline := time.Now().Add(-60 * time.Minute)
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	// Deal soft-deletion
	var count int64
	for _, model := range database.AutoMaintainRange {
		tx := database.C.Unscoped().Delete(model, "deleted_at IS NOT NULL AND deleted_at <= ?", deadline)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running database cleanup...")
		}
		count += tx.RowsAffected
	}

	// Purge notes flagged deleted by their owner a month ago
	noteDeadline := time.Now().AddDate(0, -1, 0)
	tx := database.C.Unscoped().
		Delete(&models.Note{}, "is_deleted = ? AND updated_at <= ?", true, noteDeadline)
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("An error occurred when purging deleted notes...")
	}
	count += tx.RowsAffected

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
