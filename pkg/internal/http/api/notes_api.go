package api

import (
	"git.solsynth.dev/hypernet/conference/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func transcribeRecording(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetAccount(c)
	recordingId, _ := c.ParamsInt("recordingId", 0)

	recording, err := srv.Syncer.GetRecording(c.UserContext(), user.ID, uint(recordingId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	transcription, err := srv.Notes.Transcribe(c.UserContext(), user.ID, recording)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(transcription)
}

func composeNote(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetAccount(c)
	recordingId, _ := c.ParamsInt("recordingId", 0)

	recording, err := srv.Syncer.GetRecording(c.UserContext(), user.ID, uint(recordingId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	note, err := srv.Notes.ComposeNote(c.UserContext(), user.ID, recording)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(note)
}

func listNotes(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetAccount(c)

	notes, err := srv.Notes.ListNotes(c.UserContext(), user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(notes)
}

func deleteNote(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetAccount(c)
	noteId, _ := c.ParamsInt("noteId", 0)

	if err := srv.Notes.DeleteNote(c.UserContext(), user.ID, uint(noteId)); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
