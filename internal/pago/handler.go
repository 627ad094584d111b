package pago

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"creditos-backend/internal/audit"
	"creditos-backend/internal/auth"
	"creditos-backend/internal/ledger"
	"creditos-backend/internal/models"
	"creditos-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type CreatePagoRequest struct {
	ClienteID  uint   `json:"cliente_id"`
	Monto      string `json:"monto"`       // obligatorio y mayor a 0
	MetodoPago string `json:"metodo_pago"` // texto libre, opcional
}

type PagoResponse struct {
	ID         uint    `json:"id"`
	ClienteID  uint    `json:"cliente_id"`
	Fecha      string  `json:"fecha"`
	Monto      float64 `json:"monto"`
	MetodoPago string  `json:"metodo_pago"`
}

func pagoResponse(p *models.PagoCliente, loc *time.Location) PagoResponse {
	return PagoResponse{
		ID:         p.ID,
		ClienteID:  p.ClienteID,
		Fecha:      p.Fecha.In(loc).Format(time.RFC3339),
		Monto:      p.Monto,
		MetodoPago: p.MetodoPago,
	}
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	return id, nil
}

// POST /api/pagos
func CreatePagoHandler(st *store.Store, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePagoRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.ClienteID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "cliente_id es obligatorio")
		}

		// El monto ilegible cuenta como 0 y 0 no es un pago válido
		monto, _ := strconv.ParseFloat(strings.TrimSpace(body.Monto), 64)
		if monto <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El monto debe ser mayor a 0")
		}

		if _, err := st.GetCliente(body.ClienteID); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		p := models.PagoCliente{
			ClienteID:  body.ClienteID,
			Fecha:      time.Now().In(loc),
			Monto:      monto,
			MetodoPago: strings.TrimSpace(body.MetodoPago),
		}

		if err := st.CreatePago(&p); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo grabar el pago")
		}

		return c.Status(fiber.StatusCreated).JSON(pagoResponse(&p, loc))
	}
}

// GET /api/pagos?cliente_id=&desde=&hasta=
func ListPagosHandler(st *store.Store, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var clienteID *uint
		if s := c.Query("cliente_id"); s != "" {
			var id uint
			if _, err := fmt.Sscan(s, &id); err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "cliente_id inválido")
			}
			clienteID = &id
		}

		var desde, hasta *time.Time
		if s := c.Query("desde"); s != "" {
			d, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "desde debe ser YYYY-MM-DD")
			}
			desde = &d
		}
		if s := c.Query("hasta"); s != "" {
			h, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "hasta debe ser YYYY-MM-DD")
			}
			hasta = &h
		}

		pagos, err := st.ListPagos(clienteID, desde, hasta)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los pagos")
		}

		resp := make([]PagoResponse, 0, len(pagos))
		for i := range pagos {
			resp = append(resp, pagoResponse(&pagos[i], loc))
		}
		return c.JSON(resp)
	}
}

type ComprobantePagoResponse struct {
	Pago          PagoResponse `json:"pago"`
	ClienteID     uint         `json:"cliente_id"`
	ClienteNombre string       `json:"cliente_nombre"`
	SaldoAntes    float64      `json:"saldo_antes"`
	SaldoActual   float64      `json:"saldo_actual"`
}

// GET /api/pagos/:id/comprobante
// El saldo de antes se reconstruye sumando el pago al saldo actual
func ComprobantePagoHandler(st *store.Store, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		p, err := st.GetPago(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pago no encontrado")
		}

		cl, err := st.GetCliente(p.ClienteID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		saldoActual := ledger.SaldoDeudor(cl.Ventas, cl.Pagos)

		return c.JSON(ComprobantePagoResponse{
			Pago:          pagoResponse(p, loc),
			ClienteID:     cl.ID,
			ClienteNombre: cl.Nombre,
			SaldoAntes:    ledger.Redondear(saldoActual + p.Monto),
			SaldoActual:   saldoActual,
		})
	}
}

// DELETE /api/pagos/:id
func DeletePagoHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		p, err := st.GetPago(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pago no encontrado")
		}

		if err := st.DeletePago(id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el pago")
		}

		if usuarioID, username, err := auth.UsuarioActual(c); err == nil {
			if logErr := audit.RegistrarBaja(st.DB(), audit.BajaOptions{
				UsuarioID:   usuarioID,
				Usuario:     username,
				Entidad:     "pago",
				EntityID:    p.ID,
				Descripcion: fmt.Sprintf("Pago eliminado: $%.2f", p.Monto),
				Datos:       pagoResponse(p, time.UTC),
			}); logErr != nil {
				fmt.Printf("No se pudo registrar la baja: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
