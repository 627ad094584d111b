// Package audit deja constancia de las bajas. No hay soft-delete ni undo:
// el registro es solo para saber qué se borró, cuándo y quién.
package audit

import (
	"encoding/json"
	"fmt"

	"creditos-backend/internal/models"

	"gorm.io/gorm"
)

type BajaOptions struct {
	UsuarioID   uint
	Usuario     string
	Entidad     string // "cliente", "venta", "pago"
	EntityID    uint
	Descripcion string
	Datos       any // snapshot de lo borrado
}

func RegistrarBaja(db *gorm.DB, opts BajaOptions) error {
	// jsonb no acepta string vacío, usamos el literal null
	datosStr := "null"
	if opts.Datos != nil {
		if b, err := json.Marshal(opts.Datos); err == nil {
			datosStr = string(b)
		}
	}

	baja := models.RegistroBaja{
		UsuarioID:   opts.UsuarioID,
		Usuario:     opts.Usuario,
		Entidad:     opts.Entidad,
		EntityID:    opts.EntityID,
		Descripcion: opts.Descripcion,
		Datos:       datosStr,
	}

	if err := db.Create(&baja).Error; err != nil {
		return fmt.Errorf("no se pudo registrar la baja: %w", err)
	}

	return nil
}
