package http

import (
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

type sessionClaims struct {
	Name string `json:"name"`
	Nick string `json:"nick"`
	jwt.RegisteredClaims
}

// authMiddleware decodes the auth provider's session token when one is
// present and parks the principal in locals. It never rejects by itself;
// handlers that require a session check via exts.EnsureAuthenticated.
func authMiddleware(c *fiber.Ctx) error {
	tk := c.Query("tk")
	if authorization := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(authorization, "Bearer ") {
		tk = strings.TrimPrefix(authorization, "Bearer ")
	}
	if len(tk) == 0 {
		return c.Next()
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tk, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return []byte(viper.GetString("security.session_secret")), nil
	})
	if err != nil || !token.Valid || len(claims.Subject) == 0 {
		return c.Next()
	}

	c.Locals("user", models.Account{
		ID:   claims.Subject,
		Name: claims.Name,
		Nick: claims.Nick,
	})

	return c.Next()
}
