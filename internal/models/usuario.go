package models

import "time"

type Rol string

const (
	RolAdmin    Rol = "admin"
	RolVendedor Rol = "vendedor"
)

type Usuario struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Rol          Rol    `gorm:"size:50;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
