package caja

import (
	"time"

	"creditos-backend/internal/ledger"
	"creditos-backend/internal/models"
	"creditos-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type ResumenResponse struct {
	Desde        string             `json:"desde,omitempty"`
	Hasta        string             `json:"hasta,omitempty"`
	TotalVentas  float64            `json:"total_ventas"`
	TotalCobrado float64            `json:"total_cobrado"`
	PorMetodo    map[string]float64 `json:"por_metodo"`
}

// parseRango lee desde/hasta (YYYY-MM-DD), los dos opcionales. Los extremos
// son inclusive a medianoche: los movimientos con hora dentro del día "hasta"
// quedan afuera, igual que en el sistema original.
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

func cargarMovimientos(st *store.Store, desde, hasta *time.Time) ([]models.Venta, []models.PagoCliente, error) {
	ventas, err := st.ListVentas(nil, desde, hasta)
	if err != nil {
		return nil, nil, err
	}
	pagos, err := st.ListPagos(nil, desde, hasta)
	if err != nil {
		return nil, nil, err
	}
	return ventas, pagos, nil
}

// GET /api/caja/resumen?desde=&hasta=
// Cierre de caja: total vendido, total cobrado (entregas a cuenta + pagos
// sueltos) y lo cobrado por cada método de pago.
func ResumenHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		desde, hasta, err := parseRango(c)
		if err != nil {
			return err
		}

		ventas, pagos, err := cargarMovimientos(st, desde, hasta)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo armar el resumen de caja")
		}

		res := ledger.Caja(ventas, pagos)

		resp := ResumenResponse{
			TotalVentas:  res.TotalVentas,
			TotalCobrado: res.TotalCobrado,
			PorMetodo:    res.PorMetodo,
		}
		if desde != nil {
			resp.Desde = desde.Format("2006-01-02")
		}
		if hasta != nil {
			resp.Hasta = hasta.Format("2006-01-02")
		}
		return c.JSON(resp)
	}
}

type PuntoDiario struct {
	Fecha     string             `json:"fecha"`
	PorMetodo map[string]float64 `json:"por_metodo"`
	Total     float64            `json:"total"`
}

type DiarioResponse struct {
	Desde  string        `json:"desde"`
	Hasta  string        `json:"hasta"`
	Puntos []PuntoDiario `json:"puntos"`
}

// GET /api/caja/diario?desde=&hasta=
// Cobrado día por día, abierto por método, para el gráfico del tablero
func DiarioHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		desde, hasta, err := parseRango(c)
		if err != nil {
			return err
		}
		if desde == nil || hasta == nil {
			return fiber.NewError(fiber.StatusBadRequest, "desde y hasta son obligatorios (YYYY-MM-DD)")
		}
		if hasta.Before(*desde) {
			return fiber.NewError(fiber.StatusBadRequest, "hasta no puede ser anterior a desde")
		}

		ventas, pagos, err := cargarMovimientos(st, desde, hasta)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo armar el detalle diario")
		}

		// Un punto por día, aunque no haya movimientos
		porDia := make(map[string]*PuntoDiario)
		orden := make([]string, 0)
		for actual := *desde; !actual.After(*hasta); actual = actual.AddDate(0, 0, 1) {
			clave := actual.Format("2006-01-02")
			porDia[clave] = &PuntoDiario{Fecha: clave, PorMetodo: map[string]float64{}}
			orden = append(orden, clave)
		}

		sumar := func(fecha time.Time, metodo string, monto float64) {
			punto, ok := porDia[fecha.Format("2006-01-02")]
			if !ok {
				return
			}
			punto.Total += monto
			if metodo != "" {
				punto.PorMetodo[metodo] += monto
			}
		}

		for _, v := range ventas {
			if v.PagoACuenta != nil {
				sumar(v.Fecha, v.MetodoPago, *v.PagoACuenta)
			}
		}
		for _, p := range pagos {
			sumar(p.Fecha, p.MetodoPago, p.Monto)
		}

		puntos := make([]PuntoDiario, 0, len(orden))
		for _, clave := range orden {
			punto := porDia[clave]
			punto.Total = ledger.Redondear(punto.Total)
			for m, monto := range punto.PorMetodo {
				punto.PorMetodo[m] = ledger.Redondear(monto)
			}
			puntos = append(puntos, *punto)
		}

		return c.JSON(DiarioResponse{
			Desde:  desde.Format("2006-01-02"),
			Hasta:  hasta.Format("2006-01-02"),
			Puntos: puntos,
		})
	}
}
