package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/conference/pkg/internal/database"
	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(db))

	return db
}

func testRecording(id string, user string) models.Recording {
	return models.Recording{
		ExternalID:     id,
		CallExternalID: "call-" + id,
		URL:            "https://cdn.example.com/" + id,
		Filename:       id,
		Duration:       60,
		StartTime:      time.Now().Add(-time.Hour),
		AccountID:      user,
	}
}

func TestSyncRecordingCreatesParentCall(t *testing.T) {
	syncer := NewSyncer(newTestDB(t))
	ctx := context.Background()

	_, err := syncer.SyncRecording(ctx, testRecording("rec-1.mp4", "user-1"))
	require.NoError(t, err)

	var call models.Call
	require.NoError(t, syncer.db.Where("external_id = ?", "call-rec-1.mp4").First(&call).Error)
	assert.Equal(t, "user-1", call.AccountID)
	assert.Equal(t, models.CallStatusEnded, call.Status)

	var recording models.Recording
	require.NoError(t, syncer.db.Where("external_id = ?", "rec-1.mp4").First(&recording).Error)
	assert.Equal(t, call.ExternalID, recording.CallExternalID)
}

func TestSyncBatchIdempotence(t *testing.T) {
	syncer := NewSyncer(newTestDB(t))
	ctx := context.Background()

	batch := []models.Recording{
		testRecording("rec-1.mp4", "user-1"),
		testRecording("rec-1.mp4", "user-1"),
	}
	synced, failed, err := syncer.SyncBatch(ctx, batch)
	require.NoError(t, err)
	assert.Len(t, synced, 2)
	assert.Zero(t, failed)

	var count int64
	require.NoError(t, syncer.db.Model(&models.Recording{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "resyncing the same descriptor keeps exactly one row")
}

func TestSyncBatchPartialFailure(t *testing.T) {
	syncer := NewSyncer(newTestDB(t))
	ctx := context.Background()

	batch := []models.Recording{
		testRecording("rec-1.mp4", "user-1"),
		testRecording("rec-2.mp4", ""), // unscopable, must not sink the batch
		testRecording("rec-3.mp4", "user-1"),
	}
	synced, failed, err := syncer.SyncBatch(ctx, batch)
	require.NoError(t, err)
	assert.Len(t, synced, 2)
	assert.Equal(t, 1, failed)
}

func TestSyncBatchEmpty(t *testing.T) {
	syncer := NewSyncer(newTestDB(t))

	synced, failed, err := syncer.SyncBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, synced)
	assert.Zero(t, failed)
}

func TestSyncRecordingReplacesWholeRow(t *testing.T) {
	syncer := NewSyncer(newTestDB(t))
	ctx := context.Background()

	first := testRecording("rec-1.mp4", "user-1")
	first.Resolution = "720p"
	_, err := syncer.SyncRecording(ctx, first)
	require.NoError(t, err)

	second := testRecording("rec-1.mp4", "user-1")
	second.URL = "https://cdn.example.com/rec-1-v2.mp4"
	second.Resolution = "1080p"
	_, err = syncer.SyncRecording(ctx, second)
	require.NoError(t, err)

	var count int64
	require.NoError(t, syncer.db.Model(&models.Recording{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var row models.Recording
	require.NoError(t, syncer.db.Where("external_id = ?", "rec-1.mp4").First(&row).Error)
	assert.Equal(t, "https://cdn.example.com/rec-1-v2.mp4", row.URL)
	assert.Equal(t, "1080p", row.Resolution)
}

func TestListUserRecordingsScopedToOwner(t *testing.T) {
	syncer := NewSyncer(newTestDB(t))
	ctx := context.Background()

	_, _, err := syncer.SyncBatch(ctx, []models.Recording{
		testRecording("mine.mp4", "user-1"),
		testRecording("theirs.mp4", "user-2"),
	})
	require.NoError(t, err)

	out, err := syncer.ListUserRecordings(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "mine.mp4", out[0].ExternalID)

	out, err = syncer.ListUserRecordings(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, out)
}
