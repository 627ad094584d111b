package cliente

import (
	"fmt"
	"sort"
	"time"

	"creditos-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type MovimientoItem struct {
	Cantidad       int     `json:"cantidad"`
	Descripcion    string  `json:"descripcion"`
	PrecioUnitario float64 `json:"precio_unitario"`
	Total          float64 `json:"total"`
}

// Movimiento - una venta o un pago en el historial unificado del cliente
type Movimiento struct {
	ID              string           `json:"id"` // "12" para ventas, "pago-7" para pagos
	Fecha           string           `json:"fecha"`
	Total           float64          `json:"total"`
	PagoACuenta     *float64         `json:"pago_a_cuenta"`
	SaldoResultante *float64         `json:"saldo_resultante"`
	Tipo            string           `json:"tipo"` // "venta" | "pago"
	Descripcion     string           `json:"descripcion"`
	Items           []MovimientoItem `json:"items"`
}

// GET /api/clientes/:id/movimientos
// Historial de ventas y pagos del cliente mezclado, del más reciente al más
// viejo. Las fechas se muestran en la zona horaria local del negocio.
func MovimientosHandler(st *store.Store, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		cl, err := st.GetCliente(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		type ordenable struct {
			mov   Movimiento
			fecha time.Time
		}
		movs := make([]ordenable, 0, len(cl.Ventas)+len(cl.Pagos))

		for _, v := range cl.Ventas {
			items := make([]MovimientoItem, 0, len(v.Items))
			for _, it := range v.Items {
				items = append(items, MovimientoItem{
					Cantidad:       it.Cantidad,
					Descripcion:    it.Descripcion,
					PrecioUnitario: it.PrecioUnitario,
					Total:          it.Total,
				})
			}
			saldo := v.SaldoResultante
			movs = append(movs, ordenable{
				mov: Movimiento{
					ID:              fmt.Sprintf("%d", v.ID),
					Fecha:           v.Fecha.In(loc).Format(time.RFC3339),
					Total:           v.Total,
					PagoACuenta:     v.PagoACuenta,
					SaldoResultante: &saldo,
					Tipo:            "venta",
					Descripcion:     v.Descripcion,
					Items:           items,
				},
				fecha: v.Fecha,
			})
		}

		for _, p := range cl.Pagos {
			monto := p.Monto
			movs = append(movs, ordenable{
				mov: Movimiento{
					ID:          fmt.Sprintf("pago-%d", p.ID),
					Fecha:       p.Fecha.In(loc).Format(time.RFC3339),
					PagoACuenta: &monto,
					Tipo:        "pago",
					Descripcion: "Pago suelto",
					Items:       []MovimientoItem{},
				},
				fecha: p.Fecha,
			})
		}

		// Más reciente primero
		sort.Slice(movs, func(i, j int) bool {
			return movs[i].fecha.After(movs[j].fecha)
		})

		resp := make([]Movimiento, 0, len(movs))
		for _, m := range movs {
			resp = append(resp, m.mov)
		}
		return c.JSON(resp)
	}
}
