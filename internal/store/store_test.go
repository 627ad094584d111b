package store

import (
	"testing"
	"time"

	"creditos-backend/internal/database"
	"creditos-backend/internal/ledger"
	"creditos-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return New(db)
}

func ptr(v float64) *float64 { return &v }

func crearCliente(t *testing.T, st *Store, nombre string) *models.Cliente {
	cl := &models.Cliente{Nombre: nombre}
	require.NoError(t, st.CreateCliente(cl, nil))
	return cl
}

func TestCreateClienteConGarante(t *testing.T) {
	st := newTestStore(t)

	cl := &models.Cliente{Nombre: "Juan Pérez", MontoAutorizado: ptr(50000)}
	garante := &models.Garante{Nombre: "María Gómez"}
	require.NoError(t, st.CreateCliente(cl, garante))

	leido, err := st.GetCliente(cl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", leido.Nombre)
	require.NotNil(t, leido.Garante)
	assert.Equal(t, "María Gómez", leido.Garante.Nombre)
	assert.Equal(t, cl.ID, leido.Garante.ClienteID)
}

func TestCreateClienteSinGarante(t *testing.T) {
	st := newTestStore(t)

	cl := crearCliente(t, st, "Sola")
	leido, err := st.GetCliente(cl.ID)
	require.NoError(t, err)
	assert.Nil(t, leido.Garante)
}

func TestGetClienteInexistente(t *testing.T) {
	st := newTestStore(t)
	_, err := st.GetCliente(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateVentaConItems(t *testing.T) {
	st := newTestStore(t)
	cl := crearCliente(t, st, "Cliente")

	v := &models.Venta{
		ClienteID:       cl.ID,
		Fecha:           time.Now(),
		Total:           300,
		PagoACuenta:     ptr(100),
		SaldoResultante: 200,
	}
	items := []models.VentaItem{
		{Cantidad: 2, Descripcion: "Zapatillas", PrecioUnitario: 100, Total: 200},
		{Cantidad: 1, Descripcion: "Remera", PrecioUnitario: 100, Total: 100},
	}
	require.NoError(t, st.CreateVentaConItems(v, items))

	leida, err := st.GetVenta(v.ID)
	require.NoError(t, err)
	require.Len(t, leida.Items, 2)
	// El orden de alta es el orden de lectura
	assert.Equal(t, "Zapatillas", leida.Items[0].Descripcion)
	assert.Equal(t, "Remera", leida.Items[1].Descripcion)
}

func TestCreateVentaConItemsEsAtomica(t *testing.T) {
	st := newTestStore(t)
	cl := crearCliente(t, st, "Cliente")

	// El segundo item choca con la clave del primero: tiene que fallar todo
	// y no quedar ni la venta ni el primer item
	v := &models.Venta{ClienteID: cl.ID, Fecha: time.Now(), Total: 100, SaldoResultante: 100}
	items := []models.VentaItem{
		{ID: 7, Cantidad: 1, PrecioUnitario: 50, Total: 50},
		{ID: 7, Cantidad: 1, PrecioUnitario: 50, Total: 50},
	}
	err := st.CreateVentaConItems(v, items)
	require.Error(t, err)

	var ventas int64
	st.DB().Model(&models.Venta{}).Count(&ventas)
	assert.Equal(t, int64(0), ventas)

	var restantes int64
	st.DB().Model(&models.VentaItem{}).Count(&restantes)
	assert.Equal(t, int64(0), restantes)
}

func TestDeleteVentaBorraItems(t *testing.T) {
	st := newTestStore(t)
	cl := crearCliente(t, st, "Cliente")

	v := &models.Venta{ClienteID: cl.ID, Fecha: time.Now(), Total: 100, SaldoResultante: 100}
	require.NoError(t, st.CreateVentaConItems(v, []models.VentaItem{
		{Cantidad: 1, PrecioUnitario: 100, Total: 100},
	}))

	require.NoError(t, st.DeleteVenta(v.ID))

	_, err := st.GetVenta(v.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var items int64
	st.DB().Model(&models.VentaItem{}).Count(&items)
	assert.Equal(t, int64(0), items)
}

func TestDeleteClienteEnCascada(t *testing.T) {
	st := newTestStore(t)

	cl := &models.Cliente{Nombre: "Con todo"}
	require.NoError(t, st.CreateCliente(cl, &models.Garante{Nombre: "Garante"}))

	v := &models.Venta{ClienteID: cl.ID, Fecha: time.Now(), Total: 100, SaldoResultante: 100}
	require.NoError(t, st.CreateVentaConItems(v, []models.VentaItem{
		{Cantidad: 1, PrecioUnitario: 100, Total: 100},
	}))
	require.NoError(t, st.CreatePago(&models.PagoCliente{ClienteID: cl.ID, Fecha: time.Now(), Monto: 30}))

	// Otro cliente que no se tiene que ver afectado
	otro := crearCliente(t, st, "Otro")
	require.NoError(t, st.CreatePago(&models.PagoCliente{ClienteID: otro.ID, Fecha: time.Now(), Monto: 99}))

	require.NoError(t, st.DeleteCliente(cl.ID))

	_, err := st.GetCliente(cl.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var ventas, items, pagos, garantes int64
	st.DB().Model(&models.Venta{}).Count(&ventas)
	st.DB().Model(&models.VentaItem{}).Count(&items)
	st.DB().Model(&models.PagoCliente{}).Count(&pagos)
	st.DB().Model(&models.Garante{}).Count(&garantes)
	assert.Equal(t, int64(0), ventas)
	assert.Equal(t, int64(0), items)
	assert.Equal(t, int64(1), pagos) // queda el del otro cliente
	assert.Equal(t, int64(0), garantes)
}

func TestListVentasPorRango(t *testing.T) {
	st := newTestStore(t)
	cl := crearCliente(t, st, "Cliente")

	dia := func(s string) time.Time {
		d, err := time.Parse("2006-01-02 15:04", s)
		require.NoError(t, err)
		return d
	}

	for _, f := range []time.Time{
		dia("2025-03-01 09:00"),
		dia("2025-03-05 00:00"), // justo a medianoche del límite
		dia("2025-03-05 10:00"), // con hora dentro del día límite
		dia("2025-03-09 09:00"),
	} {
		v := &models.Venta{ClienteID: cl.ID, Fecha: f, Total: 10, SaldoResultante: 10}
		require.NoError(t, st.CreateVentaConItems(v, []models.VentaItem{
			{Cantidad: 1, PrecioUnitario: 10, Total: 10},
		}))
	}

	desde := dia("2025-03-01 00:00")
	hasta := dia("2025-03-05 00:00")

	ventas, err := st.ListVentas(nil, &desde, &hasta)
	require.NoError(t, err)
	// Los extremos son inclusive a medianoche: la venta de las 10:00 del día
	// límite queda afuera
	assert.Len(t, ventas, 2)
}

func TestListVentasPorCliente(t *testing.T) {
	st := newTestStore(t)
	cl1 := crearCliente(t, st, "Uno")
	cl2 := crearCliente(t, st, "Dos")

	for _, id := range []uint{cl1.ID, cl1.ID, cl2.ID} {
		v := &models.Venta{ClienteID: id, Fecha: time.Now(), Total: 10, SaldoResultante: 10}
		require.NoError(t, st.CreateVentaConItems(v, []models.VentaItem{
			{Cantidad: 1, PrecioUnitario: 10, Total: 10},
		}))
	}

	ventas, err := st.ListVentas(&cl1.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, ventas, 2)
}

func TestListPagosPorRango(t *testing.T) {
	st := newTestStore(t)
	cl := crearCliente(t, st, "Cliente")

	dia := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	require.NoError(t, st.CreatePago(&models.PagoCliente{ClienteID: cl.ID, Fecha: dia("2025-02-01"), Monto: 1}))
	require.NoError(t, st.CreatePago(&models.PagoCliente{ClienteID: cl.ID, Fecha: dia("2025-03-01"), Monto: 2}))
	require.NoError(t, st.CreatePago(&models.PagoCliente{ClienteID: cl.ID, Fecha: dia("2025-04-01"), Monto: 3}))

	desde := dia("2025-02-15")
	hasta := dia("2025-03-15")
	pagos, err := st.ListPagos(nil, &desde, &hasta)
	require.NoError(t, err)
	require.Len(t, pagos, 1)
	assert.Equal(t, 2.0, pagos[0].Monto)
}

func TestSaldoSeRecalculaTrasCadaMutacion(t *testing.T) {
	// El saldo no se cachea: se recalcula sobre lo que haya en la base
	st := newTestStore(t)
	cl := crearCliente(t, st, "Cliente")

	v := &models.Venta{ClienteID: cl.ID, Fecha: time.Now(), Total: 1000, PagoACuenta: ptr(300), SaldoResultante: 700}
	require.NoError(t, st.CreateVentaConItems(v, []models.VentaItem{
		{Cantidad: 1, PrecioUnitario: 1000, Total: 1000},
	}))

	leido, err := st.GetCliente(cl.ID)
	require.NoError(t, err)
	assert.Equal(t, 700.0, ledger.SaldoDeudor(leido.Ventas, leido.Pagos))

	pago := &models.PagoCliente{ClienteID: cl.ID, Fecha: time.Now(), Monto: 200}
	require.NoError(t, st.CreatePago(pago))

	leido, err = st.GetCliente(cl.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, ledger.SaldoDeudor(leido.Ventas, leido.Pagos))

	require.NoError(t, st.DeletePago(pago.ID))

	leido, err = st.GetCliente(cl.ID)
	require.NoError(t, err)
	assert.Equal(t, 700.0, ledger.SaldoDeudor(leido.Ventas, leido.Pagos))

	require.NoError(t, st.DeleteVenta(v.ID))

	leido, err = st.GetCliente(cl.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ledger.SaldoDeudor(leido.Ventas, leido.Pagos))
}
