package api

import (
	"errors"

	"git.solsynth.dev/hypernet/conference/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/conference/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listRecordings(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetAccount(c)

	recordings, err := srv.Syncer.ListUserRecordings(c.UserContext(), user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(recordings)
}

// syncRecordings is the manual "pull fresh data now" action. It reports how
// many rows landed and how many failed instead of failing the whole call.
func syncRecordings(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetAccount(c)

	_, fresh, err := srv.Reconciler.FetchUserRecordings(c.UserContext(), user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	synced, failed, err := srv.Syncer.SyncBatch(c.UserContext(), fresh)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"synced": len(synced),
		"failed": failed,
	})
}

func deleteRecording(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetAccount(c)
	recordingId, _ := c.ParamsInt("recordingId", 0)

	err := srv.Reconciler.DeleteRecording(c.UserContext(), user.ID, uint(recordingId))
	if errors.Is(err, services.ErrPartialDeletion) {
		// The file is gone but the row survived; tell the client the two
		// sides disagree so it can prompt a refresh.
		return fiber.NewError(fiber.StatusConflict, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func shareRecording(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetAccount(c)
	recordingId, _ := c.ParamsInt("recordingId", 0)

	recording, err := srv.Syncer.GetRecording(c.UserContext(), user.ID, uint(recordingId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	tk, err := services.CreatePlaybackToken(recording.ID, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"token": tk,
	})
}

func resolveSharedRecording(c *fiber.Ctx) error {
	claims, err := services.ParsePlaybackToken(c.Params("token"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	recording, err := srv.Syncer.GetRecording(c.UserContext(), claims.UserID, claims.RecordingID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(recording)
}
