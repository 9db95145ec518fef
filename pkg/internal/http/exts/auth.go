package exts

import (
	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
)

func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := c.Locals("user").(models.Account); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "you are not authenticated")
	}
	return nil
}

// GetAccount returns the signed-in principal, if any. Operations that treat
// a missing session as an empty result rather than an error use the ok flag.
func GetAccount(c *fiber.Ctx) (models.Account, bool) {
	user, ok := c.Locals("user").(models.Account)
	return user, ok
}
