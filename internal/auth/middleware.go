package auth

import (
	"fmt"
	"strings"

	"creditos-backend/internal/config"
	"creditos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claves bajo las que queda la identidad del usuario en el contexto del
// request. Nada de estado ambiente: cada handler lee de acá.
const (
	CtxUsuarioIDKey = "usuario_id"
	CtxUsernameKey  = "username"
	CtxRolKey       = "rol"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Falta el header Authorization")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "El formato debe ser 'Bearer <token>'")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inválido")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o vencido")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "No se pudo leer el token")
		}

		c.Locals(CtxUsuarioIDKey, claims.UsuarioID)
		c.Locals(CtxUsernameKey, claims.Username)
		c.Locals(CtxRolKey, claims.Rol)

		return c.Next()
	}
}

func RequireRol(permitidos ...models.Rol) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rolVal := c.Locals(CtxRolKey)
		rol, ok := rolVal.(models.Rol)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "No se pudo leer el rol")
		}

		for _, r := range permitidos {
			if r == rol {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "No tenés permiso para esta operación")
	}
}

// UsuarioActual devuelve id y username del usuario logueado, tomados del
// contexto del request
func UsuarioActual(c *fiber.Ctx) (uint, string, error) {
	id, ok := c.Locals(CtxUsuarioIDKey).(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "No se pudo leer el usuario")
	}
	username, _ := c.Locals(CtxUsernameKey).(string)
	return id, username, nil
}
