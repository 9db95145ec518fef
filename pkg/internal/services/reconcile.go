package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"git.solsynth.dev/hypernet/conference/pkg/internal/video"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Reconciler merges the video platform's view of calls and recordings with
// the durable store. The platform is the source of truth for existence, the
// store is the source of truth for what the user sees.
type Reconciler struct {
	Video  video.Client
	Syncer *Syncer
}

func NewReconciler(client video.Client, syncer *Syncer) *Reconciler {
	return &Reconciler{
		Video:  client,
		Syncer: syncer,
	}
}

// FetchUserRecordings pulls the user's calls from the video platform, then
// each call's recordings, and normalizes them into persistence-ready rows.
// No client or no user is not an error, just an empty result: the caller is
// likely not signed in yet. A failure on one call's recordings costs that
// call its recordings and nothing else.
func (r *Reconciler) FetchUserRecordings(ctx context.Context, userID string) ([]video.Call, []models.Recording, error) {
	if r.Video == nil || len(userID) == 0 {
		return nil, nil, nil
	}

	calls, err := r.Video.QueryCalls(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to query calls: %v", err)
	}

	var out []models.Recording
	seen := make(map[string]bool)
	for _, call := range calls {
		recordings, err := r.Video.QueryRecordings(ctx, call.ID)
		if err != nil {
			log.Warn().Err(err).Str("call", call.ID).Msg("Unable to query recordings of call, skipping it...")
			continue
		}

		for _, item := range recordings {
			row, ok := NormalizeRecording(call, item, userID, time.Now())
			if !ok {
				continue
			}
			if seen[row.ExternalID] {
				continue
			}
			seen[row.ExternalID] = true
			out = append(out, row)
		}
	}

	return calls, out, nil
}

// NormalizeRecording shapes one platform recording for persistence. Returns
// false when the recording has no playback URL yet: nothing retrievable,
// nothing worth displaying. Missing start time falls back to now so every
// row stays sortable; missing end time stays unset.
func NormalizeRecording(call video.Call, in video.Recording, userID string, now time.Time) (models.Recording, bool) {
	if len(in.URL) == 0 {
		return models.Recording{}, false
	}

	start := now
	if in.StartedAt != nil {
		start = *in.StartedAt
	}

	title := call.Description
	if len(title) == 0 {
		title = fmt.Sprintf("Recording for %s", call.ID)
	}

	resolution := in.Resolution
	if len(resolution) == 0 {
		resolution = viper.GetString("calling.default_resolution")
	}
	if len(resolution) == 0 {
		resolution = "720p"
	}

	return models.Recording{
		ExternalID:     in.Filename,
		CallExternalID: call.ID,
		Title:          title,
		URL:            in.URL,
		DownloadURL:    in.DownloadURL,
		Filename:       in.Filename,
		Duration:       int(math.Floor(in.Duration)),
		StartTime:      start,
		EndTime:        in.EndedAt,
		Status:         models.RecordingStatusReady,
		Resolution:     resolution,
		Type:           models.RecordingTypeVideo,
		AccountID:      userID,
	}, true
}
