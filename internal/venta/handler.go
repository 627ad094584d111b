package venta

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

// -------------------------
// Request/Response
// -------------------------

type ItemRequest struct {
	Cantidad       int     `json:"cantidad"`
	Descripcion    string  `json:"descripcion"`
	PrecioUnitario float64 `json:"precio_unitario"`
	Total          float64 `json:"total"`
}

type CreateVentaRequest struct {
	ClienteID   uint          `json:"cliente_id"`
	PagoACuenta string        `json:"pago_a_cuenta"` // opcional, ilegible cuenta como no informado
	Descripcion string        `json:"descripcion"`
	MetodoPago  string        `json:"metodo_pago"` // texto libre, opcional
	Items       []ItemRequest `json:"items"`
}

type ItemResponse struct {
	ID             uint    `json:"id"`
	Cantidad       int     `json:"cantidad"`
	Descripcion    string  `json:"descripcion"`
	PrecioUnitario float64 `json:"precio_unitario"`
	Total          float64 `json:"total"`
}

type VentaResponse struct {
	ID              uint           `json:"id"`
	ClienteID       uint           `json:"cliente_id"`
	Fecha           string         `json:"fecha"`
	Total           float64        `json:"total"`
	PagoACuenta     *float64       `json:"pago_a_cuenta"`
	SaldoResultante float64        `json:"saldo_resultante"`
	Descripcion     string         `json:"descripcion"`
	MetodoPago      string         `json:"metodo_pago"`
	Items           []ItemResponse `json:"items"`
}

func ventaResponse(v *models.Venta, loc *time.Location) VentaResponse {
	items := make([]ItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, ItemResponse{
			ID:             it.ID,
			Cantidad:       it.Cantidad,
			Descripcion:    it.Descripcion,
			PrecioUnitario: it.PrecioUnitario,
			Total:          it.Total,
		})
	}
	return VentaResponse{
		ID:              v.ID,
		ClienteID:       v.ClienteID,
		Fecha:           v.Fecha.In(loc).Format(time.RFC3339),
		Total:           v.Total,
		PagoACuenta:     v.PagoACuenta,
		SaldoResultante: v.SaldoResultante,
		Descripcion:     v.Descripcion,
		MetodoPago:      v.MetodoPago,
		Items:           items,
	}
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	return id, nil
}

// -------------------------
// Handlers
// -------------------------

// POST /api/ventas
// La venta y todos sus items se graban de forma atómica: si falla algún
// insert no queda nada. El total sale de cantidad x precio unitario de cada
// item; el total del item se guarda tal cual vino.
func CreateVentaHandler(st *store.Store, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateVentaRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.ClienteID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "cliente_id es obligatorio")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "La venta necesita al menos un item")
		}
		for i, it := range body.Items {
			if it.Cantidad < 0 {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Cantidad inválida en el item %d", i+1))
			}
			if it.PrecioUnitario < 0 {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Precio inválido en el item %d", i+1))
			}
		}

		if _, err := st.GetCliente(body.ClienteID); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		// Entrega a cuenta opcional, con parseo tolerante
		var pagoACuenta *float64
		if s := strings.TrimSpace(body.PagoACuenta); s != "" {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				pagoACuenta = &v
			}
		}

		var total float64
		items := make([]models.VentaItem, 0, len(body.Items))
		for _, it := range body.Items {
			total += float64(it.Cantidad) * it.PrecioUnitario
			items = append(items, models.VentaItem{
				Cantidad:       it.Cantidad,
				Descripcion:    it.Descripcion,
				PrecioUnitario: it.PrecioUnitario,
				Total:          it.Total,
			})
		}

		entrega := 0.0
		if pagoACuenta != nil {
			entrega = *pagoACuenta
		}

		v := models.Venta{
			ClienteID:       body.ClienteID,
			Fecha:           time.Now().In(loc),
			Total:           total,
			PagoACuenta:     pagoACuenta,
			SaldoResultante: total - entrega,
			Descripcion:     body.Descripcion,
			MetodoPago:      strings.TrimSpace(body.MetodoPago),
		}

		if err := st.CreateVentaConItems(&v, items); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo grabar la venta")
		}

		return c.Status(fiber.StatusCreated).JSON(ventaResponse(&v, loc))
	}
}

// GET /api/ventas?cliente_id=&desde=&hasta=
func ListVentasHandler(st *store.Store, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var clienteID *uint
		if s := c.Query("cliente_id"); s != "" {
			var id uint
			if _, err := fmt.Sscan(s, &id); err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "cliente_id inválido")
			}
			clienteID = &id
		}

		desde, hasta, err := parseRango(c)
		if err != nil {
			return err
		}

		ventas, err := st.ListVentas(clienteID, desde, hasta)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las ventas")
		}

		resp := make([]VentaResponse, 0, len(ventas))
		for i := range ventas {
			resp = append(resp, ventaResponse(&ventas[i], loc))
		}
		return c.JSON(resp)
	}
}

// parseRango lee desde/hasta como YYYY-MM-DD. Ambos extremos inclusive, a
// medianoche: lo que tenga hora dentro del día "hasta" queda afuera (límite
// heredado del sistema original).
func parseRango(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var desde, hasta *time.Time
	if s := c.Query("desde"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "desde debe ser YYYY-MM-DD")
		}
		desde = &d
	}
	if s := c.Query("hasta"); s != "" {
		h, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "hasta debe ser YYYY-MM-DD")
		}
		hasta = &h
	}
	return desde, hasta, nil
}

type ComprobanteResponse struct {
	Venta          VentaResponse `json:"venta"`
	ClienteID      uint          `json:"cliente_id"`
	ClienteNombre  string        `json:"cliente_nombre"`
	SaldoAnterior  float64       `json:"saldo_anterior"`
	SaldoPosterior float64       `json:"saldo_posterior"`
}

// GET /api/ventas/:id/comprobante
// Datos para imprimir el comprobante: la venta con sus items y cuánto debía
// el cliente antes y después de la operación.
func ComprobanteHandler(st *store.Store, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		v, err := st.GetVenta(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Venta no encontrada")
		}

		cl, err := st.GetCliente(v.ClienteID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		return c.JSON(ComprobanteResponse{
			Venta:          ventaResponse(v, loc),
			ClienteID:      cl.ID,
			ClienteNombre:  cl.Nombre,
			SaldoAnterior:  ledger.SaldoPrevioVenta(*v, cl.Ventas, cl.Pagos),
			SaldoPosterior: ledger.SaldoPosteriorVenta(*v, cl.Ventas, cl.Pagos),
		})
	}
}

// DELETE /api/ventas/:id
// Baja directa, items incluidos. No hay deshacer, queda el registro de baja.
func DeleteVentaHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		v, err := st.GetVenta(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Venta no encontrada")
		}

		if err := st.DeleteVenta(id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar la venta")
		}

		if usuarioID, username, err := auth.UsuarioActual(c); err == nil {
			if logErr := audit.RegistrarBaja(st.DB(), audit.BajaOptions{
				UsuarioID:   usuarioID,
				Usuario:     username,
				Entidad:     "venta",
				EntityID:    v.ID,
				Descripcion: fmt.Sprintf("Venta eliminada: $%.2f (%d items)", v.Total, len(v.Items)),
				Datos:       ventaResponse(v, time.UTC),
			}); logErr != nil {
				fmt.Printf("No se pudo registrar la baja: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
