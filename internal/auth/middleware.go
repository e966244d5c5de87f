package auth

import (
	"fmt"
	"strings"

	"estoque-backend/internal/config"
	"estoque-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const ctxIdentityKey = "identity"

// Identity is the authenticated user of a request.
type Identity struct {
	UserID   uint
	Username string
	Level    models.UserLevel
}

// CurrentIdentity returns the identity set by JWTMiddleware. ok is false on
// routes that run without authentication.
func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(ctxIdentityKey).(Identity)
	return id, ok
}

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Cabeçalho Authorization ausente")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization deve ser 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de assinatura inválido")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido ou expirado")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token ilegível")
		}

		c.Locals(ctxIdentityKey, Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
			Level:    claims.Level,
		})
		return c.Next()
	}
}

func RequireLevel(allowed ...models.UserLevel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Nível de acesso desconhecido")
		}
		for _, l := range allowed {
			if l == id.Level {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Você não tem permissão para esta operação")
	}
}
