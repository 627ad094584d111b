// Package ledger calcula los importes derivados del conjunto de ventas y
// pagos: saldo deudor por cliente, saldo previo/posterior de una venta para
// el comprobante, y el resumen de caja por método de pago. Todas las
// funciones son puras: reciben los registros ya levantados y no tocan la base.
package ledger

import (
	"math"

	"creditos-backend/internal/models"
)

// Redondear a 2 decimales. Se aplica al devolver resultados, nunca al guardar.
func Redondear(v float64) float64 {
	return math.Round(v*100) / 100
}

// pagoACuenta nulo cuenta como 0
func pagoACuenta(v models.Venta) float64 {
	if v.PagoACuenta == nil {
		return 0
	}
	return *v.PagoACuenta
}

// SaldoDeudor - deuda neta del cliente:
// suma de (total - pago a cuenta) de sus ventas, menos la suma de sus pagos.
// Puede dar negativo (el cliente pagó de más).
func SaldoDeudor(ventas []models.Venta, pagos []models.PagoCliente) float64 {
	var deuda, cobrado float64
	for _, v := range ventas {
		deuda += v.Total - pagoACuenta(v)
	}
	for _, p := range pagos {
		cobrado += p.Monto
	}
	return Redondear(deuda - cobrado)
}

// SaldoPrevioVenta - reconstruye cuánto debía el cliente justo antes de esta
// venta, para imprimirlo en el comprobante. Las ventas anteriores se toman
// por ID menor y los pagos por fecha estrictamente anterior a la fecha de la
// venta. La asimetría (orden de alta vs orden cronológico) viene del sistema
// original y se conserva tal cual.
func SaldoPrevioVenta(venta models.Venta, ventas []models.Venta, pagos []models.PagoCliente) float64 {
	var deuda, cobrado float64
	for _, v := range ventas {
		if v.ID < venta.ID {
			deuda += v.Total - pagoACuenta(v)
		}
	}
	for _, p := range pagos {
		if p.Fecha.Before(venta.Fecha) {
			cobrado += p.Monto
		}
	}
	return Redondear(deuda - cobrado)
}

// SaldoPosteriorVenta - saldo previo más el saldo resultante de la venta
func SaldoPosteriorVenta(venta models.Venta, ventas []models.Venta, pagos []models.PagoCliente) float64 {
	return Redondear(SaldoPrevioVenta(venta, ventas, pagos) + venta.SaldoResultante)
}

// ResumenCaja - totales de un cierre de caja sobre una ventana de fechas
type ResumenCaja struct {
	TotalVentas  float64            // suma de los totales de venta
	TotalCobrado float64            // entregas a cuenta + pagos sueltos
	PorMetodo    map[string]float64 // cobrado por método de pago
}

// Caja - arma el resumen sobre las ventas y pagos ya filtrados por fecha.
// En PorMetodo entran las entregas a cuenta (solo ventas que la tienen) y los
// pagos, cada uno bajo su propio método; los registros sin método quedan
// afuera del mapa pero sí suman en TotalCobrado. Los métodos son texto libre,
// no hay lista cerrada.
func Caja(ventas []models.Venta, pagos []models.PagoCliente) ResumenCaja {
	res := ResumenCaja{PorMetodo: map[string]float64{}}

	for _, v := range ventas {
		res.TotalVentas += v.Total
		if v.PagoACuenta != nil {
			res.TotalCobrado += *v.PagoACuenta
			if v.MetodoPago != "" {
				res.PorMetodo[v.MetodoPago] += *v.PagoACuenta
			}
		}
	}
	for _, p := range pagos {
		res.TotalCobrado += p.Monto
		if p.MetodoPago != "" {
			res.PorMetodo[p.MetodoPago] += p.Monto
		}
	}

	res.TotalVentas = Redondear(res.TotalVentas)
	res.TotalCobrado = Redondear(res.TotalCobrado)
	for m, monto := range res.PorMetodo {
		res.PorMetodo[m] = Redondear(monto)
	}
	return res
}

// Moroso - cliente con saldo deudor positivo
type Moroso struct {
	Cliente models.Cliente
	Saldo   float64
}

// Morosos - filtra los clientes con saldo estrictamente mayor a 0 y devuelve
// también la deuda total. Los clientes deben venir con sus ventas y pagos
// cargados.
func Morosos(clientes []models.Cliente) ([]Moroso, float64) {
	morosos := make([]Moroso, 0)
	var total float64
	for _, c := range clientes {
		saldo := SaldoDeudor(c.Ventas, c.Pagos)
		if saldo > 0 {
			morosos = append(morosos, Moroso{Cliente: c, Saldo: saldo})
			total += saldo
		}
	}
	return morosos, Redondear(total)
}
