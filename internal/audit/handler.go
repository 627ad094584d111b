package audit

import (
	"time"

	"creditos-backend/internal/models"
	"creditos-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type BajaResponse struct {
	ID          uint   `json:"id"`
	Fecha       string `json:"fecha"`
	Usuario     string `json:"usuario"`
	Entidad     string `json:"entidad"`
	EntityID    uint   `json:"entity_id"`
	Descripcion string `json:"descripcion"`
	Datos       string `json:"datos"`
}

// GET /api/bajas?entidad=venta
func ListBajasHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := st.DB().Model(&models.RegistroBaja{})

		if entidad := c.Query("entidad"); entidad != "" {
			q = q.Where("entidad = ?", entidad)
		}

		var bajas []models.RegistroBaja
		if err := q.Order("id desc").Limit(200).Find(&bajas).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las bajas")
		}

		resp := make([]BajaResponse, 0, len(bajas))
		for _, b := range bajas {
			resp = append(resp, BajaResponse{
				ID:          b.ID,
				Fecha:       b.CreatedAt.Format(time.RFC3339),
				Usuario:     b.Usuario,
				Entidad:     b.Entidad,
				EntityID:    b.EntityID,
				Descripcion: b.Descripcion,
				Datos:       b.Datos,
			})
		}

		return c.JSON(resp)
	}
}
