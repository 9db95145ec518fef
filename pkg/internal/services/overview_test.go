package services

import (
	"context"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"git.solsynth.dev/hypernet/conference/pkg/internal/video"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionCalls(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	calls := []video.Call{
		{ID: "started", StartsAt: &past},
		{ID: "upcoming", StartsAt: &future},
		{ID: "finished", StartsAt: &future, EndedAt: lo.ToPtr(now)},
		{ID: "undated"},
	}

	ended, upcoming := PartitionCalls(calls, now)

	assert.Equal(t, []string{"started", "finished", "undated"}, lo.Map(ended, func(c video.Call, _ int) string {
		return c.ID
	}))
	assert.Equal(t, []string{"upcoming"}, lo.Map(upcoming, func(c video.Call, _ int) string {
		return c.ID
	}))
	assert.Len(t, ended, len(calls)-len(upcoming), "every call lands in exactly one bucket")
}

func TestPartitionCallsEmpty(t *testing.T) {
	ended, upcoming := PartitionCalls(nil, time.Now())
	assert.Empty(t, ended)
	assert.Empty(t, upcoming)
}

func TestLoadOverviewPrefersStoredRecordings(t *testing.T) {
	syncer := NewSyncer(newTestDB(t))
	ctx := context.Background()

	_, err := syncer.SyncRecording(ctx, testRecording("stored.mp4", "user-1"))
	require.NoError(t, err)

	client := &fakeVideo{
		calls: []video.Call{{ID: "call-1"}},
		recordings: map[string][]video.Recording{
			"call-1": {
				{Filename: "stored.mp4", URL: "https://cdn.example.com/stored.mp4"},
				{Filename: "fresh.mp4", URL: "https://cdn.example.com/fresh.mp4"},
			},
		},
	}
	overview, err := NewReconciler(client, syncer).LoadOverview(ctx, "user-1")
	require.NoError(t, err)

	assert.True(t, overview.FromStore)
	require.Len(t, overview.Recordings, 1)
	assert.Equal(t, "stored.mp4", overview.Recordings[0].ExternalID)
	assert.Zero(t, overview.SyncFailed)

	// The fresh rows were still synced in the background of the request.
	var count int64
	require.NoError(t, syncer.db.Model(&models.Recording{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestLoadOverviewFallsBackToFresh(t *testing.T) {
	syncer := NewSyncer(newTestDB(t))

	client := &fakeVideo{
		calls: []video.Call{{ID: "call-1"}},
		recordings: map[string][]video.Recording{
			"call-1": {{Filename: "fresh.mp4", URL: "https://cdn.example.com/fresh.mp4"}},
		},
	}
	overview, err := NewReconciler(client, syncer).LoadOverview(context.Background(), "user-1")
	require.NoError(t, err)

	assert.False(t, overview.FromStore)
	require.Len(t, overview.Recordings, 1)
	assert.Equal(t, "fresh.mp4", overview.Recordings[0].ExternalID)

	var count int64
	require.NoError(t, syncer.db.Model(&models.Recording{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLoadOverviewUnauthenticated(t *testing.T) {
	overview, err := NewReconciler(&fakeVideo{}, nil).LoadOverview(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, overview.Recordings)
	assert.Empty(t, overview.EndedCalls)
	assert.Empty(t, overview.UpcomingCalls)
}

func TestDeleteRecordingTwoStep(t *testing.T) {
	syncer := NewSyncer(newTestDB(t))
	ctx := context.Background()

	recording, err := syncer.SyncRecording(ctx, testRecording("doomed.mp4", "user-1"))
	require.NoError(t, err)

	client := &fakeVideo{}
	reconciler := NewReconciler(client, syncer)
	require.NoError(t, reconciler.DeleteRecording(ctx, "user-1", recording.ID))
	assert.Equal(t, [][2]string{{"call-doomed.mp4", "doomed.mp4"}}, client.deleted)

	var count int64
	require.NoError(t, syncer.db.Model(&models.Recording{}).Count(&count).Error)
	assert.Zero(t, count)

	// Deleting a recording the user does not own fails before touching storage.
	recording, err = syncer.SyncRecording(ctx, testRecording("other.mp4", "user-2"))
	require.NoError(t, err)
	err = reconciler.DeleteRecording(ctx, "user-1", recording.ID)
	require.Error(t, err)
	assert.Len(t, client.deleted, 1)
}
