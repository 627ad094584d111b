package models

import "time"

// Cliente - Cliente con cuenta corriente. Al eliminarlo se eliminan en
// cascada su garante, sus ventas (con items) y sus pagos.
type Cliente struct {
	ID              uint     `gorm:"primaryKey"`
	Nombre          string   `gorm:"size:120"`
	Domicilio       string   `gorm:"size:120"`
	Localidad       string   `gorm:"size:100"`
	Documento       string   `gorm:"size:20"`
	Telefono        string   `gorm:"size:20"`
	Ingresos        *float64 // opcional
	LugarTrabajo    string   `gorm:"size:120"`
	MontoAutorizado *float64 // límite de crédito, opcional

	Garante *Garante      `gorm:"foreignKey:ClienteID;constraint:OnDelete:CASCADE"`
	Ventas  []Venta       `gorm:"foreignKey:ClienteID;constraint:OnDelete:CASCADE"`
	Pagos   []PagoCliente `gorm:"foreignKey:ClienteID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Garante - Garante asociado a exactamente un cliente (relación 1 a 1)
type Garante struct {
	ID           uint     `gorm:"primaryKey"`
	ClienteID    uint     `gorm:"index;not null"`
	Nombre       string   `gorm:"size:120"`
	Domicilio    string   `gorm:"size:120"`
	Localidad    string   `gorm:"size:100"`
	Documento    string   `gorm:"size:20"`
	Telefono     string   `gorm:"size:20"`
	Ingresos     *float64 // opcional
	LugarTrabajo string   `gorm:"size:120"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
