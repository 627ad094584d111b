package cliente

import (
	"fmt"
	"strconv"
	"strings"

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

// Los campos numéricos opcionales (ingresos, monto autorizado) llegan como
// texto y se parsean con tolerancia: si no se puede leer, quedan vacíos.
type GaranteRequest struct {
	Nombre       string `json:"nombre"`
	Domicilio    string `json:"domicilio"`
	Localidad    string `json:"localidad"`
	Documento    string `json:"documento"`
	Telefono     string `json:"telefono"`
	Ingresos     string `json:"ingresos"`
	LugarTrabajo string `json:"lugar_trabajo"`
}

type ClienteRequest struct {
	Nombre          string          `json:"nombre"`
	Domicilio       string          `json:"domicilio"`
	Localidad       string          `json:"localidad"`
	Documento       string          `json:"documento"`
	Telefono        string          `json:"telefono"`
	Ingresos        string          `json:"ingresos"`
	LugarTrabajo    string          `json:"lugar_trabajo"`
	MontoAutorizado string          `json:"monto_autorizado"`
	Garante         *GaranteRequest `json:"garante"` // puede faltar
}

type GaranteResponse struct {
	ID           uint     `json:"id"`
	Nombre       string   `json:"nombre"`
	Domicilio    string   `json:"domicilio"`
	Localidad    string   `json:"localidad"`
	Documento    string   `json:"documento"`
	Telefono     string   `json:"telefono"`
	Ingresos     *float64 `json:"ingresos"`
	LugarTrabajo string   `json:"lugar_trabajo"`
}

type ClienteResponse struct {
	ID              uint             `json:"id"`
	Nombre          string           `json:"nombre"`
	Domicilio       string           `json:"domicilio"`
	Localidad       string           `json:"localidad"`
	Documento       string           `json:"documento"`
	Telefono        string           `json:"telefono"`
	Ingresos        *float64         `json:"ingresos"`
	LugarTrabajo    string           `json:"lugar_trabajo"`
	MontoAutorizado float64          `json:"monto_autorizado"`
	Saldo           float64          `json:"saldo"`
	Garante         *GaranteResponse `json:"garante,omitempty"`
}

// safeFloat - tolerante como el formulario original: vacío o ilegible da nil
func safeFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	idStr := c.Params("id")
	var id uint
	if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	return id, nil
}

func clienteResponse(cl *models.Cliente) ClienteResponse {
	resp := ClienteResponse{
		ID:           cl.ID,
		Nombre:       cl.Nombre,
		Domicilio:    cl.Domicilio,
		Localidad:    cl.Localidad,
		Documento:    cl.Documento,
		Telefono:     cl.Telefono,
		Ingresos:     cl.Ingresos,
		LugarTrabajo: cl.LugarTrabajo,
		Saldo:        ledger.SaldoDeudor(cl.Ventas, cl.Pagos),
	}
	if cl.MontoAutorizado != nil {
		resp.MontoAutorizado = ledger.Redondear(*cl.MontoAutorizado)
	}
	if cl.Garante != nil {
		resp.Garante = &GaranteResponse{
			ID:           cl.Garante.ID,
			Nombre:       cl.Garante.Nombre,
			Domicilio:    cl.Garante.Domicilio,
			Localidad:    cl.Garante.Localidad,
			Documento:    cl.Garante.Documento,
			Telefono:     cl.Garante.Telefono,
			Ingresos:     cl.Garante.Ingresos,
			LugarTrabajo: cl.Garante.LugarTrabajo,
		}
	}
	return resp
}

// -------------------------
// CRUD Clientes
// -------------------------

// POST /api/clientes
// Cliente y garante se dan de alta juntos en una sola operación.
func CreateClienteHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ClienteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if strings.TrimSpace(body.Nombre) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre del cliente es obligatorio")
		}

		cl := models.Cliente{
			Nombre:          strings.TrimSpace(body.Nombre),
			Domicilio:       body.Domicilio,
			Localidad:       body.Localidad,
			Documento:       body.Documento,
			Telefono:        body.Telefono,
			Ingresos:        safeFloat(body.Ingresos),
			LugarTrabajo:    body.LugarTrabajo,
			MontoAutorizado: safeFloat(body.MontoAutorizado),
		}

		var garante *models.Garante
		if body.Garante != nil && strings.TrimSpace(body.Garante.Nombre) != "" {
			garante = &models.Garante{
				Nombre:       strings.TrimSpace(body.Garante.Nombre),
				Domicilio:    body.Garante.Domicilio,
				Localidad:    body.Garante.Localidad,
				Documento:    body.Garante.Documento,
				Telefono:     body.Garante.Telefono,
				Ingresos:     safeFloat(body.Garante.Ingresos),
				LugarTrabajo: body.Garante.LugarTrabajo,
			}
		}

		if err := st.CreateCliente(&cl, garante); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el cliente")
		}

		cl.Garante = garante
		return c.Status(fiber.StatusCreated).JSON(clienteResponse(&cl))
	}
}

// GET /api/clientes
func ListClientesHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientes, err := st.ListClientes()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los clientes")
		}

		resp := make([]ClienteResponse, 0, len(clientes))
		for i := range clientes {
			resp = append(resp, clienteResponse(&clientes[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/clientes/:id
func GetClienteHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		cl, err := st.GetCliente(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		return c.JSON(clienteResponse(cl))
	}
}

// PUT /api/clientes/:id
// Edita cliente y garante juntos, como el alta
func UpdateClienteHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		cl, err := st.GetCliente(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		var body ClienteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if strings.TrimSpace(body.Nombre) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre del cliente es obligatorio")
		}

		cl.Nombre = strings.TrimSpace(body.Nombre)
		cl.Domicilio = body.Domicilio
		cl.Localidad = body.Localidad
		cl.Documento = body.Documento
		cl.Telefono = body.Telefono
		cl.Ingresos = safeFloat(body.Ingresos)
		cl.LugarTrabajo = body.LugarTrabajo
		cl.MontoAutorizado = safeFloat(body.MontoAutorizado)

		if err := st.UpdateCliente(cl); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el cliente")
		}

		if cl.Garante != nil && body.Garante != nil {
			g := cl.Garante
			g.Nombre = strings.TrimSpace(body.Garante.Nombre)
			g.Domicilio = body.Garante.Domicilio
			g.Localidad = body.Garante.Localidad
			g.Documento = body.Garante.Documento
			g.Telefono = body.Garante.Telefono
			g.Ingresos = safeFloat(body.Garante.Ingresos)
			g.LugarTrabajo = body.Garante.LugarTrabajo
			if err := st.UpdateGarante(g); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el garante")
			}
		}

		return c.JSON(clienteResponse(cl))
	}
}

// DELETE /api/clientes/:id
// Baja directa y en cascada: garante, ventas con items y pagos.
func DeleteClienteHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		cl, err := st.GetCliente(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		if err := st.DeleteCliente(id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el cliente")
		}

		if usuarioID, username, err := auth.UsuarioActual(c); err == nil {
			if logErr := audit.RegistrarBaja(st.DB(), audit.BajaOptions{
				UsuarioID:   usuarioID,
				Usuario:     username,
				Entidad:     "cliente",
				EntityID:    cl.ID,
				Descripcion: fmt.Sprintf("Cliente eliminado: %s (%d ventas, %d pagos)", cl.Nombre, len(cl.Ventas), len(cl.Pagos)),
				Datos:       clienteResponse(cl),
			}); logErr != nil {
				fmt.Printf("No se pudo registrar la baja: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Morosos
// -------------------------

type MorososResponse struct {
	Clientes   []ClienteResponse `json:"clientes"`
	TotalDeuda float64           `json:"total_deuda"`
}

// GET /api/clientes/morosos
// Clientes con saldo deudor mayor a 0 y la deuda total entre todos
func MorososHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientes, err := st.ListClientes()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los clientes")
		}

		morosos, total := ledger.Morosos(clientes)

		resp := MorososResponse{Clientes: make([]ClienteResponse, 0, len(morosos)), TotalDeuda: total}
		for i := range morosos {
			resp.Clientes = append(resp.Clientes, clienteResponse(&morosos[i].Cliente))
		}
		return c.JSON(resp)
	}
}
