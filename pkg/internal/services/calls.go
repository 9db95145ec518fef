package services

import (
	"context"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/conference/pkg/internal/database"
	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"git.solsynth.dev/hypernet/conference/pkg/internal/video"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Meetings drives call lifecycle against the video platform and mirrors it
// into the durable store.
type Meetings struct {
	lk     *video.LiveKit
	syncer *Syncer
}

func NewMeetings(lk *video.LiveKit, syncer *Syncer) *Meetings {
	return &Meetings{lk: lk, syncer: syncer}
}

// Start opens a platform room and records the call as ongoing.
func (m *Meetings) Start(ctx context.Context, user models.Account, title string, startsAt *time.Time, members []string) (models.Call, error) {
	id := uuid.NewString()
	now := time.Now()
	if startsAt == nil {
		startsAt = &now
	}

	call := models.Call{
		ExternalID: id,
		Title:      title,
		StartsAt:   startsAt,
		AccountID:  user.ID,
		Status:     models.CallStatusOngoing,
	}
	if startsAt.After(now) {
		call.Status = models.CallStatusScheduled
	}

	if err := m.lk.CreateCall(ctx, id, user.ID, title, members); err != nil {
		return call, err
	}

	return m.syncer.UpsertCall(ctx, call)
}

// End tears the room down and stamps the call ended. A platform-side
// failure is logged but does not keep the store from recording the end.
func (m *Meetings) End(ctx context.Context, user models.Account, callID string) (models.Call, error) {
	call, err := m.GetCall(ctx, user.ID, callID)
	if err != nil {
		return call, fmt.Errorf("unable to find call: %v", err)
	}

	if err := m.lk.EndCall(ctx, callID); err != nil {
		log.Error().Err(err).Str("call", callID).Msg("Unable to delete room at platform side")
	}

	call.EndedAt = lo.ToPtr(time.Now())
	call.Status = models.CallStatusEnded
	if call.StartsAt != nil {
		call.Duration = int(call.EndedAt.Sub(*call.StartsAt).Seconds())
	}

	return m.syncer.UpsertCall(ctx, call)
}

func (m *Meetings) GetCall(ctx context.Context, userID string, callID string) (models.Call, error) {
	var call models.Call
	err := database.ActAs(m.syncer.db, ctx, userID, func(tx *gorm.DB) error {
		return tx.
			Where(models.Call{ExternalID: callID}).
			First(&call).Error
	})
	return call, err
}

// ExchangeToken issues a join token; the call owner joins as room admin.
func (m *Meetings) ExchangeToken(ctx context.Context, user models.Account, callID string) (string, error) {
	call, err := m.GetCall(ctx, user.ID, callID)
	if err != nil {
		return "", fmt.Errorf("unable to find call: %v", err)
	}

	isAdmin := call.AccountID == user.ID
	return m.lk.EncodeCallToken(call.ExternalID, user.Name, user.Nick, isAdmin)
}
