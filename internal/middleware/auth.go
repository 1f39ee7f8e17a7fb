package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/mrioja/geotodo-backend/internal/config"
	"github.com/mrioja/geotodo-backend/internal/dto"
)

// JWTProtected rejects requests without a valid bearer token. A missing or
// malformed Authorization header gets its own message; every other
// verification failure is reported uniformly.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			message := "Invalid or expired token"
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				message = "Missing or invalid authorization header"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(message))
		},
	})
}
