package auth

import (
	"strings"

	"creditos-backend/internal/config"
	"creditos-backend/internal/models"
	"creditos-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegistrarAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/registrar-admin
// Solo permite crear el primer admin, después la ruta queda bloqueada.
func RegistrarAdminHandler(cfg *config.Config, st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegistrarAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		if body.Username == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Usuario y contraseña son obligatorios")
		}

		var count int64
		st.DB().Model(&models.Usuario{}).
			Where("rol = ?", models.RolAdmin).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Ya existe un administrador")
		}

		// Las contraseñas se guardan siempre hasheadas con sal, nunca en claro
		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo hashear la contraseña")
		}

		usuario := models.Usuario{
			Username:     body.Username,
			PasswordHash: string(hash),
			Rol:          models.RolAdmin,
		}

		if err := st.DB().Create(&usuario).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el usuario")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":       usuario.ID,
			"username": usuario.Username,
			"rol":      usuario.Rol,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		var usuario models.Usuario
		if err := st.DB().Where("username = ?", body.Username).First(&usuario).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuario o contraseña incorrectos")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuario o contraseña incorrectos")
		}

		token, err := GenerateToken(cfg.JWTSecret, &usuario)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"usuario": fiber.Map{
				"id":       usuario.ID,
				"username": usuario.Username,
				"rol":      usuario.Rol,
			},
		})
	}
}

// GET /api/auth/yo
func YoHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		usuarioID, _, err := UsuarioActual(c)
		if err != nil {
			return err
		}

		var usuario models.Usuario
		if err := st.DB().First(&usuario, "id = ?", usuarioID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
		}

		return c.JSON(fiber.Map{
			"id":       usuario.ID,
			"username": usuario.Username,
			"rol":      usuario.Rol,
		})
	}
}
