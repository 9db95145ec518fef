package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/conference/pkg/internal/video"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVideo struct {
	calls      []video.Call
	recordings map[string][]video.Recording
	failFor    map[string]bool

	deleted   [][2]string
	deleteErr error
}

func (f *fakeVideo) QueryCalls(_ context.Context, userID string) ([]video.Call, error) {
	if len(userID) == 0 {
		return nil, nil
	}
	return f.calls, nil
}

func (f *fakeVideo) QueryRecordings(_ context.Context, callID string) ([]video.Recording, error) {
	if f.failFor[callID] {
		return nil, fmt.Errorf("platform hiccup for %s", callID)
	}
	return f.recordings[callID], nil
}

func (f *fakeVideo) DeleteRecording(_ context.Context, callID, filename string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, [2]string{callID, filename})
	return nil
}

func TestFetchUserRecordingsDedup(t *testing.T) {
	client := &fakeVideo{
		calls: []video.Call{{ID: "call-1"}, {ID: "call-2"}},
		recordings: map[string][]video.Recording{
			"call-1": {{Filename: "rec.mp4", URL: "https://cdn.example.com/rec.mp4", Duration: 10}},
			"call-2": {{Filename: "rec.mp4", URL: "https://cdn.example.com/other.mp4", Duration: 20}},
		},
	}
	reconciler := NewReconciler(client, nil)

	_, recordings, err := reconciler.FetchUserRecordings(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, recordings, 1)

	// First occurrence wins, the later duplicate is discarded silently.
	assert.Equal(t, "call-1", recordings[0].CallExternalID)
	assert.Equal(t, 10, recordings[0].Duration)
}

func TestFetchUserRecordingsSkipsMissingURL(t *testing.T) {
	client := &fakeVideo{
		calls: []video.Call{{ID: "call-1"}},
		recordings: map[string][]video.Recording{
			"call-1": {
				{Filename: "pending.mp4"},
				{Filename: "ready.mp4", URL: "https://cdn.example.com/ready.mp4"},
			},
		},
	}
	reconciler := NewReconciler(client, nil)

	_, recordings, err := reconciler.FetchUserRecordings(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, recordings, 1)
	assert.Equal(t, "ready.mp4", recordings[0].ExternalID)
}

func TestFetchUserRecordingsOneCallFailing(t *testing.T) {
	client := &fakeVideo{
		calls: []video.Call{{ID: "broken"}, {ID: "healthy"}},
		recordings: map[string][]video.Recording{
			"healthy": {{Filename: "ok.mp4", URL: "https://cdn.example.com/ok.mp4"}},
		},
		failFor: map[string]bool{"broken": true},
	}
	reconciler := NewReconciler(client, nil)

	calls, recordings, err := reconciler.FetchUserRecordings(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, calls, 2)
	require.Len(t, recordings, 1)
	assert.Equal(t, "healthy", recordings[0].CallExternalID)
}

func TestFetchUserRecordingsUnauthenticated(t *testing.T) {
	reconciler := NewReconciler(&fakeVideo{calls: []video.Call{{ID: "call-1"}}}, nil)

	calls, recordings, err := reconciler.FetchUserRecordings(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, calls)
	assert.Empty(t, recordings)

	reconciler = NewReconciler(nil, nil)
	calls, recordings, err = reconciler.FetchUserRecordings(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, calls)
	assert.Empty(t, recordings)
}

func TestNormalizeRecordingDefaults(t *testing.T) {
	now := time.Now()
	call := video.Call{ID: "call-1", Description: "Weekly sync"}

	row, ok := NormalizeRecording(call, video.Recording{
		Filename: "rec.mp4",
		URL:      "https://cdn.example.com/rec.mp4",
		Duration: 12.9,
	}, "user-1", now)
	require.True(t, ok)

	assert.Equal(t, "rec.mp4", row.ExternalID)
	assert.Equal(t, 12, row.Duration, "duration floors to whole seconds")
	assert.Equal(t, now, row.StartTime, "missing start falls back to processing time")
	assert.Nil(t, row.EndTime, "missing end stays unset")
	assert.Equal(t, "Weekly sync", row.Title)
	assert.Equal(t, "user-1", row.AccountID)

	started := now.Add(-time.Hour)
	ended := now.Add(-30 * time.Minute)
	row, ok = NormalizeRecording(call, video.Recording{
		Filename:  "rec.mp4",
		URL:       "https://cdn.example.com/rec.mp4",
		StartedAt: &started,
		EndedAt:   &ended,
	}, "user-1", now)
	require.True(t, ok)
	assert.Equal(t, started, row.StartTime)
	assert.Equal(t, lo.ToPtr(ended), row.EndTime)
}

func TestNormalizeRecordingRequiresURL(t *testing.T) {
	_, ok := NormalizeRecording(video.Call{ID: "call-1"}, video.Recording{
		Filename: "rec.mp4",
	}, "user-1", time.Now())
	assert.False(t, ok)
}
