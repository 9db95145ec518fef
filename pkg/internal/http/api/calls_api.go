package api

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/conference/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/conference/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

// getOverview serves the reconciled view. A missing session is not an
// error here: the caller simply gets empty buckets until they sign in.
func getOverview(c *fiber.Ctx) error {
	user, ok := exts.GetAccount(c)
	if !ok {
		return c.JSON(services.Overview{})
	}

	// Reconciliation goes out to the video platform; don't let a stuck
	// upstream hold this request forever.
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Minute)
	defer cancel()

	overview, err := srv.Reconciler.LoadOverview(ctx, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(overview)
}

func startMeeting(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetAccount(c)

	var data struct {
		Title    string     `json:"title" validate:"required,max=256"`
		StartsAt *time.Time `json:"starts_at"`
		Members  []string   `json:"members"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	call, err := srv.Meetings.Start(c.UserContext(), user, data.Title, data.StartsAt, data.Members)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(call)
}

func endMeeting(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetAccount(c)
	callId := c.Params("callId")

	call, err := srv.Meetings.End(c.UserContext(), user, callId)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(call)
}

func exchangeCallToken(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetAccount(c)
	callId := c.Params("callId")

	tk, err := srv.Meetings.ExchangeToken(c.UserContext(), user, callId)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(fiber.Map{
		"token": tk,
	})
}
