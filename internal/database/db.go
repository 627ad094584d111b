package database

import (
	"fmt"

	"creditos-backend/internal/config"
	"creditos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open conecta a Postgres y corre las migraciones. Devuelve el handle para
// que se inyecte donde haga falta, no hay variable global.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("no se pudo conectar a la base: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate crea/actualiza las tablas. Separado de Open para poder usarlo
// también con la base en memoria de los tests.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Usuario{},
		&models.Cliente{},
		&models.Garante{},
		&models.Venta{},
		&models.VentaItem{},
		&models.PagoCliente{},
		&models.RegistroBaja{},
	)
	if err != nil {
		return fmt.Errorf("error en AutoMigrate: %w", err)
	}
	return nil
}
