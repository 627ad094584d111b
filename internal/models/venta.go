package models

import "time"

// Venta - Venta a crédito con items. SaldoResultante queda fijado al crear
// (Total - PagoACuenta) y no se recalcula después.
type Venta struct {
	ID        uint      `gorm:"primaryKey"`
	ClienteID uint      `gorm:"index;not null"`
	Fecha     time.Time `gorm:"index;not null"`

	Total           float64  `gorm:"not null"` // suma de los items al momento de crear
	PagoACuenta     *float64 // entrega parcial al momento de la venta, opcional
	SaldoResultante float64  `gorm:"not null"` // Total - PagoACuenta
	Descripcion     string   `gorm:"type:text"`
	MetodoPago      string   `gorm:"size:50"` // efectivo, debito, etc. Texto libre, puede faltar

	Items []VentaItem `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VentaItem - Renglón de una venta. El total se guarda tal cual vino y se
// toma como autoritativo, no se recalcula de cantidad x precio.
type VentaItem struct {
	ID             uint    `gorm:"primaryKey"`
	VentaID        uint    `gorm:"index;not null"`
	Cantidad       int     `gorm:"not null"`
	Descripcion    string  `gorm:"type:text"`
	PrecioUnitario float64 `gorm:"not null"`
	Total          float64 `gorm:"not null"`
}
