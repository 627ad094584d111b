package caja

import (
	"fmt"
	"sort"

	"creditos-backend/internal/ledger"
	"creditos-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/caja/export?desde=&hasta=
// Baja el resumen de caja como planilla de Excel
func ExportHandler(st *store.Store) fiber.Handler {
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

		f := excelize.NewFile()
		defer f.Close()

		const hoja = "Caja"
		f.SetSheetName("Sheet1", hoja)

		f.SetCellValue(hoja, "A1", "Resumen de caja")
		if desde != nil {
			f.SetCellValue(hoja, "A2", "Desde")
			f.SetCellValue(hoja, "B2", desde.Format("2006-01-02"))
		}
		if hasta != nil {
			f.SetCellValue(hoja, "A3", "Hasta")
			f.SetCellValue(hoja, "B3", hasta.Format("2006-01-02"))
		}

		f.SetCellValue(hoja, "A5", "Total ventas")
		f.SetCellValue(hoja, "B5", res.TotalVentas)
		f.SetCellValue(hoja, "A6", "Total cobrado")
		f.SetCellValue(hoja, "B6", res.TotalCobrado)

		f.SetCellValue(hoja, "A8", "Método")
		f.SetCellValue(hoja, "B8", "Cobrado")

		// Métodos en orden alfabético para que la planilla sea estable
		metodos := make([]string, 0, len(res.PorMetodo))
		for m := range res.PorMetodo {
			metodos = append(metodos, m)
		}
		sort.Strings(metodos)

		fila := 9
		for _, m := range metodos {
			f.SetCellValue(hoja, fmt.Sprintf("A%d", fila), m)
			f.SetCellValue(hoja, fmt.Sprintf("B%d", fila), res.PorMetodo[m])
			fila++
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar la planilla")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="caja.xlsx"`)
		return c.Send(buf.Bytes())
	}
}
