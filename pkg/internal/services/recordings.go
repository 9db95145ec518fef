package services

import (
	"context"
	"errors"
	"fmt"

	localCache "git.solsynth.dev/hypernet/conference/pkg/internal/cache"
	"git.solsynth.dev/hypernet/conference/pkg/internal/database"
	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrPartialDeletion marks the state where the platform-side file is gone
// but the durable store still lists the recording. The caller should prompt
// a manual refresh instead of pretending the delete fully succeeded.
var ErrPartialDeletion = errors.New("recording removed from storage but still listed in the durable store")

func GetUserRecordingsCacheKey(user string) string {
	return fmt.Sprintf("user-recordings#%s", user)
}

func CacheUserRecordings(user string, recordings []models.Recording) {
	if localCache.S == nil {
		return
	}

	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	contx := context.Background()

	_ = marshal.Set(
		contx,
		GetUserRecordingsCacheKey(user),
		recordings,
		store.WithTags([]string{"user-recordings", fmt.Sprintf("user#%s", user)}),
	)
}

func GetCachedUserRecordings(user string) ([]models.Recording, bool) {
	if localCache.S == nil {
		return nil, false
	}

	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	contx := context.Background()

	val, err := marshal.Get(contx, GetUserRecordingsCacheKey(user), new([]models.Recording))
	if err != nil {
		return nil, false
	}
	return *val.(*[]models.Recording), true
}

func FlushUserRecordings(user string) {
	if localCache.S == nil {
		return
	}

	cacheManager := cache.New[any](localCache.S)
	_ = cacheManager.Delete(context.Background(), GetUserRecordingsCacheKey(user))
}

// ListUserRecordings reads the user's recordings back from the durable
// store, newest first, parent call attached.
func (s *Syncer) ListUserRecordings(ctx context.Context, userID string) ([]models.Recording, error) {
	if len(userID) == 0 {
		return nil, nil
	}

	if cached, ok := GetCachedUserRecordings(userID); ok {
		return cached, nil
	}

	var out []models.Recording
	err := database.ActAs(s.db, ctx, userID, func(tx *gorm.DB) error {
		return tx.
			Where("account_id = ?", userID).
			Preload("Call").
			Order("start_time DESC").
			Find(&out).Error
	})
	if err != nil {
		return nil, err
	}

	CacheUserRecordings(userID, out)
	return out, nil
}

// GetRecording loads one recording owned by the user.
func (s *Syncer) GetRecording(ctx context.Context, userID string, id uint) (models.Recording, error) {
	var recording models.Recording
	err := database.ActAs(s.db, ctx, userID, func(tx *gorm.DB) error {
		return tx.
			Where("account_id = ?", userID).
			First(&recording, id).Error
	})
	return recording, err
}

// DeleteRecording removes a recording in two steps: first the file on the
// platform/storage side, keyed by (call, filename), then the store row.
// When step one succeeds and step two fails the two systems disagree; that
// state is surfaced as ErrPartialDeletion, never swallowed.
func (r *Reconciler) DeleteRecording(ctx context.Context, userID string, id uint) error {
	recording, err := r.Syncer.GetRecording(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("unable to find recording: %v", err)
	}

	if err := r.Video.DeleteRecording(ctx, recording.CallExternalID, recording.Filename); err != nil {
		return fmt.Errorf("unable to delete recording at platform side: %v", err)
	}

	err = database.ActAs(r.Syncer.db, ctx, userID, func(tx *gorm.DB) error {
		return tx.Delete(&models.Recording{}, recording.ID).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("recording", recording.ID).
			Msg("Recording was deleted at platform side but the row removal failed!")
		return fmt.Errorf("%w: %v", ErrPartialDeletion, err)
	}

	FlushUserRecordings(userID)
	return nil
}
