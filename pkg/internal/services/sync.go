package services

import (
	"context"
	"fmt"

	"git.solsynth.dev/hypernet/conference/pkg/internal/database"
	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Syncer owns the durable-store side of reconciliation. Every operation
// binds the owning user via database.ActAs for exactly its own duration.
type Syncer struct {
	db *gorm.DB
}

func NewSyncer(db *gorm.DB) *Syncer {
	return &Syncer{db: db}
}

// UpsertCall creates or refreshes a call row, keyed on its external id.
func (s *Syncer) UpsertCall(ctx context.Context, call models.Call) (models.Call, error) {
	err := database.ActAs(s.db, ctx, call.AccountID, func(tx *gorm.DB) error {
		return upsertCallTx(tx, &call)
	})
	return call, err
}

// SyncRecording upserts one recording, making sure the parent call row
// exists in the same scoped transaction first. Referential integrity never
// depends on deferred foreign key checks.
func (s *Syncer) SyncRecording(ctx context.Context, recording models.Recording) (models.Recording, error) {
	err := database.ActAs(s.db, ctx, recording.AccountID, func(tx *gorm.DB) error {
		parent := models.Call{
			ExternalID: recording.CallExternalID,
			StartsAt:   &recording.StartTime,
			AccountID:  recording.AccountID,
			Status:     models.CallStatusEnded,
		}
		if err := upsertCallTx(tx, &parent); err != nil {
			return fmt.Errorf("unable to upsert parent call: %w", err)
		}
		return upsertRecordingTx(tx, &recording)
	})
	return recording, err
}

// SyncBatch processes recordings sequentially. One bad row is counted and
// skipped, the rest of the batch still lands. An empty batch is a no-op.
func (s *Syncer) SyncBatch(ctx context.Context, recordings []models.Recording) ([]models.Recording, int, error) {
	if len(recordings) == 0 {
		return nil, 0, nil
	}

	var synced []models.Recording
	var failed int
	for _, recording := range recordings {
		out, err := s.SyncRecording(ctx, recording)
		if err != nil {
			failed++
			log.Warn().Err(err).
				Str("recording", recording.ExternalID).
				Msg("Unable to sync recording, continuing with the rest...")
			continue
		}
		synced = append(synced, out)
	}

	if len(synced) > 0 {
		FlushUserRecordings(recordings[0].AccountID)
	}

	log.Debug().Int("synced", len(synced)).Int("failed", failed).Msg("Recording sync batch accomplished.")
	return synced, failed, nil
}

func upsertCallTx(tx *gorm.DB, call *models.Call) error {
	if len(call.Title) == 0 {
		call.Title = fmt.Sprintf("Call %s", call.ExternalID)
	}
	if len(call.Type) == 0 {
		call.Type = "default"
	}
	if len(call.Status) == 0 {
		call.Status = models.CallStatusEnded
	}
	if call.CustomData == nil {
		call.CustomData = datatypes.JSONMap{}
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		UpdateAll: true,
	}).Create(call).Error
}

func upsertRecordingTx(tx *gorm.DB, recording *models.Recording) error {
	if len(recording.Status) == 0 {
		recording.Status = models.RecordingStatusReady
	}
	if len(recording.Type) == 0 {
		recording.Type = models.RecordingTypeVideo
	}

	// Conflicts key on the recording external id alone; rows are replaced
	// whole, never merged field by field.
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		UpdateAll: true,
	}).Create(recording).Error
}
