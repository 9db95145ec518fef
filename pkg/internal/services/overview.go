package services

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"git.solsynth.dev/hypernet/conference/pkg/internal/video"
	"github.com/rs/zerolog/log"
)

// Overview is what the presentation layer renders: the user's calls split
// into ended and upcoming, plus the unified recording list.
type Overview struct {
	EndedCalls    []video.Call       `json:"ended_calls"`
	UpcomingCalls []video.Call       `json:"upcoming_calls"`
	Recordings    []models.Recording `json:"recordings"`

	SyncFailed int  `json:"sync_failed"`
	FromStore  bool `json:"from_store"`
}

// LoadOverview reads the durable store first (fast, survives platform
// outages), then pulls fresh platform data and syncs it in. Stored rows win
// for display whenever at least one exists; freshly fetched data is only
// shown when the store has nothing for this user. Staleness is the price of
// availability here, a manual sync closes the gap.
func (r *Reconciler) LoadOverview(ctx context.Context, userID string) (Overview, error) {
	var overview Overview
	if len(userID) == 0 {
		return overview, nil
	}

	stored, err := r.Syncer.ListUserRecordings(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("Unable to read recordings from durable store...")
	}

	calls, fresh, err := r.FetchUserRecordings(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("Unable to fetch fresh data from video platform...")
	} else if len(fresh) > 0 {
		_, failed, _ := r.Syncer.SyncBatch(ctx, fresh)
		overview.SyncFailed = failed
	}

	if len(stored) > 0 {
		overview.Recordings = stored
		overview.FromStore = true
	} else {
		overview.Recordings = fresh
	}

	overview.EndedCalls, overview.UpcomingCalls = PartitionCalls(calls, time.Now())
	return overview, nil
}

// PartitionCalls splits calls into ended and upcoming. A call is ended when
// it has an explicit end time or started strictly before now. A call with
// no start time at all counts as started at the epoch and therefore always
// lands in ended; that is the inherited policy, not an accident.
func PartitionCalls(calls []video.Call, now time.Time) (ended, upcoming []video.Call) {
	for _, call := range calls {
		starts := time.Unix(0, 0)
		if call.StartsAt != nil {
			starts = *call.StartsAt
		}
		if call.EndedAt != nil || starts.Before(now) {
			ended = append(ended, call)
		} else {
			upcoming = append(upcoming, call)
		}
	}
	return ended, upcoming
}
