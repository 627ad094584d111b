package main

import (
	"log"
	"strings"
	"time"

	"creditos-backend/internal/audit"
	"creditos-backend/internal/auth"
	"creditos-backend/internal/caja"
	"creditos-backend/internal/cliente"
	"creditos-backend/internal/config"
	"creditos-backend/internal/database"
	"creditos-backend/internal/models"
	"creditos-backend/internal/pago"
	"creditos-backend/internal/store"
	"creditos-backend/internal/venta"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	st := store.New(db)

	// Zona horaria del negocio, para las fechas de ventas y pagos
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Fatalf("Zona horaria inválida %q: %v", cfg.TimeZone, err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Error inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error inesperado del servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Auth pública
	api.Post("/auth/registrar-admin", auth.RegistrarAdminHandler(cfg, st))
	api.Post("/auth/login", auth.LoginHandler(cfg, st))

	// Todo lo demás con sesión
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/yo", auth.YoHandler(st))

	// Clientes (morosos va antes de :id)
	protected.Get("/clientes/morosos", cliente.MorososHandler(st))
	protected.Post("/clientes", cliente.CreateClienteHandler(st))
	protected.Get("/clientes", cliente.ListClientesHandler(st))
	protected.Get("/clientes/:id", cliente.GetClienteHandler(st))
	protected.Put("/clientes/:id", cliente.UpdateClienteHandler(st))
	protected.Delete("/clientes/:id", cliente.DeleteClienteHandler(st))
	protected.Get("/clientes/:id/movimientos", cliente.MovimientosHandler(st, loc))

	// Ventas
	protected.Post("/ventas", venta.CreateVentaHandler(st, loc))
	protected.Get("/ventas", venta.ListVentasHandler(st, loc))
	protected.Get("/ventas/:id/comprobante", venta.ComprobanteHandler(st, loc))
	protected.Delete("/ventas/:id", venta.DeleteVentaHandler(st))

	// Pagos
	protected.Post("/pagos", pago.CreatePagoHandler(st, loc))
	protected.Get("/pagos", pago.ListPagosHandler(st, loc))
	protected.Get("/pagos/:id/comprobante", pago.ComprobantePagoHandler(st, loc))
	protected.Delete("/pagos/:id", pago.DeletePagoHandler(st))

	// Caja
	protected.Get("/caja/resumen", caja.ResumenHandler(st))
	protected.Get("/caja/diario", caja.DiarioHandler(st))
	protected.Get("/caja/export", caja.ExportHandler(st))

	// Registro de bajas (solo admin)
	protected.Get("/bajas", auth.RequireRol(models.RolAdmin), audit.ListBajasHandler(st))

	log.Println("Servidor escuchando en el puerto", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
