package venta

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"creditos-backend/internal/auth"
	"creditos-backend/internal/database"
	"creditos-backend/internal/models"
	"creditos-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *store.Store) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	st := store.New(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	// Identidad simulada, como la deja el middleware de JWT
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUsuarioIDKey, uint(1))
		c.Locals(auth.CtxUsernameKey, "tester")
		c.Locals(auth.CtxRolKey, models.RolAdmin)
		return c.Next()
	})

	app.Post("/api/ventas", CreateVentaHandler(st, time.UTC))
	app.Get("/api/ventas", ListVentasHandler(st, time.UTC))
	app.Get("/api/ventas/:id/comprobante", ComprobanteHandler(st, time.UTC))
	app.Delete("/api/ventas/:id", DeleteVentaHandler(st))
	return app, st
}

func crearCliente(t *testing.T, st *store.Store, nombre string) *models.Cliente {
	cl := &models.Cliente{Nombre: nombre}
	require.NoError(t, st.CreateCliente(cl, nil))
	return cl
}

func postJSON(t *testing.T, app *fiber.App, url string, body any) (int, []byte) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out.Bytes()
}

func TestCreateVenta(t *testing.T) {
	app, st := newTestApp(t)
	cl := crearCliente(t, st, "Cliente")

	code, body := postJSON(t, app, "/api/ventas", CreateVentaRequest{
		ClienteID:   cl.ID,
		PagoACuenta: "300",
		MetodoPago:  "efectivo",
		Items: []ItemRequest{
			{Cantidad: 2, Descripcion: "Zapatillas", PrecioUnitario: 400, Total: 800},
			{Cantidad: 1, Descripcion: "Remera", PrecioUnitario: 200, Total: 200},
		},
	})
	require.Equal(t, fiber.StatusCreated, code)

	var out VentaResponse
	require.NoError(t, json.Unmarshal(body, &out))
	// El total sale de cantidad x precio unitario
	assert.Equal(t, 1000.0, out.Total)
	require.NotNil(t, out.PagoACuenta)
	assert.Equal(t, 300.0, *out.PagoACuenta)
	assert.Equal(t, 700.0, out.SaldoResultante)
	assert.Len(t, out.Items, 2)
}

func TestCreateVentaPagoACuentaIlegible(t *testing.T) {
	// La entrega a cuenta ilegible cuenta como no informada, la venta sale igual
	app, st := newTestApp(t)
	cl := crearCliente(t, st, "Cliente")

	code, body := postJSON(t, app, "/api/ventas", CreateVentaRequest{
		ClienteID:   cl.ID,
		PagoACuenta: "abc",
		Items:       []ItemRequest{{Cantidad: 1, PrecioUnitario: 100, Total: 100}},
	})
	require.Equal(t, fiber.StatusCreated, code)

	var out VentaResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Nil(t, out.PagoACuenta)
	assert.Equal(t, 100.0, out.SaldoResultante)
}

func TestCreateVentaSinItems(t *testing.T) {
	app, st := newTestApp(t)
	cl := crearCliente(t, st, "Cliente")

	code, _ := postJSON(t, app, "/api/ventas", CreateVentaRequest{ClienteID: cl.ID})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestCreateVentaClienteInexistente(t *testing.T) {
	app, _ := newTestApp(t)

	code, _ := postJSON(t, app, "/api/ventas", CreateVentaRequest{
		ClienteID: 999,
		Items:     []ItemRequest{{Cantidad: 1, PrecioUnitario: 100, Total: 100}},
	})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestComprobante(t *testing.T) {
	app, st := newTestApp(t)
	cl := crearCliente(t, st, "Cliente")

	dia := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	v1 := &models.Venta{ClienteID: cl.ID, Fecha: dia("2025-03-01"), Total: 100, SaldoResultante: 100}
	require.NoError(t, st.CreateVentaConItems(v1, []models.VentaItem{{Cantidad: 1, PrecioUnitario: 100, Total: 100}}))

	// Pago entre las dos ventas
	require.NoError(t, st.CreatePago(&models.PagoCliente{ClienteID: cl.ID, Fecha: dia("2025-03-05"), Monto: 50}))

	v2 := &models.Venta{ClienteID: cl.ID, Fecha: dia("2025-03-10"), Total: 200, SaldoResultante: 200}
	require.NoError(t, st.CreateVentaConItems(v2, []models.VentaItem{{Cantidad: 1, PrecioUnitario: 200, Total: 200}}))

	req := httptest.NewRequest("GET", "/api/ventas/2/comprobante", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out ComprobanteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	// La venta 1 entra completa por id menor y el pago por fecha anterior
	assert.Equal(t, 50.0, out.SaldoAnterior)
	assert.Equal(t, 250.0, out.SaldoPosterior)
	assert.Equal(t, "Cliente", out.ClienteNombre)
}

func TestDeleteVenta(t *testing.T) {
	app, st := newTestApp(t)
	cl := crearCliente(t, st, "Cliente")

	v := &models.Venta{ClienteID: cl.ID, Fecha: time.Now(), Total: 100, SaldoResultante: 100}
	require.NoError(t, st.CreateVentaConItems(v, []models.VentaItem{{Cantidad: 1, PrecioUnitario: 100, Total: 100}}))

	req := httptest.NewRequest("DELETE", "/api/ventas/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	_, err = st.GetVenta(v.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Queda el registro de la baja
	var bajas int64
	st.DB().Model(&models.RegistroBaja{}).Where("entidad = ?", "venta").Count(&bajas)
	assert.Equal(t, int64(1), bajas)
}

func TestDeleteVentaInexistente(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("DELETE", "/api/ventas/999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
