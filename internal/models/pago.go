package models

import "time"

// PagoCliente - Pago suelto que baja el saldo del cliente, no atado a una venta
type PagoCliente struct {
	ID         uint      `gorm:"primaryKey"`
	ClienteID  uint      `gorm:"index;not null"`
	Fecha      time.Time `gorm:"index;not null"`
	Monto      float64   `gorm:"not null"`
	MetodoPago string    `gorm:"size:50"` // texto libre, puede faltar

	CreatedAt time.Time
	UpdatedAt time.Time
}
