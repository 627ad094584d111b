package models

import "time"

// RegistroBaja - Registro de eliminaciones. Las bajas son directas y sin
// deshacer, acá solo queda constancia de qué se borró y quién lo borró.
type RegistroBaja struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UsuarioID uint   `json:"usuario_id"`
	Usuario   string `gorm:"size:64" json:"usuario"` // username (denormalizado)

	// Qué entidad se borró ("cliente", "venta", "pago")
	Entidad  string `gorm:"size:50;index" json:"entidad"`
	EntityID uint   `gorm:"index" json:"entity_id"`

	// Resumen corto de lo borrado
	Descripcion string `gorm:"size:255" json:"descripcion"`

	// Estado del registro al momento de la baja (JSON)
	Datos string `gorm:"type:jsonb" json:"datos"`
}
