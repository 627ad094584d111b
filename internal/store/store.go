// Package store envuelve el acceso a la base. Recibe el *gorm.DB por
// inyección, nada de estado global: cada handler usa el handle que le pasen.
package store

import (
	"fmt"
	"time"

	"creditos-backend/internal/models"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB expone el handle crudo para casos puntuales (login, registro de bajas)
func (s *Store) DB() *gorm.DB {
	return s.db
}

// -------------------------
// Clientes
// -------------------------

// GetCliente trae el cliente con garante, ventas (con items) y pagos
func (s *Store) GetCliente(id uint) (*models.Cliente, error) {
	var cliente models.Cliente
	if err := s.db.
		Preload("Garante").
		Preload("Ventas", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Ventas.Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Pagos", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&cliente, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cliente, nil
}

// ListClientes trae todos los clientes con sus ventas y pagos cargados
// (hace falta para calcular saldos)
func (s *Store) ListClientes() ([]models.Cliente, error) {
	var clientes []models.Cliente
	if err := s.db.
		Preload("Garante").
		Preload("Ventas").
		Preload("Pagos").
		Order("id").
		Find(&clientes).Error; err != nil {
		return nil, err
	}
	return clientes, nil
}

// CreateCliente da de alta cliente y garante en una sola operación.
// El garante puede no venir.
func (s *Store) CreateCliente(cliente *models.Cliente, garante *models.Garante) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cliente).Error; err != nil {
			return fmt.Errorf("no se pudo crear el cliente: %w", err)
		}
		if garante != nil {
			garante.ClienteID = cliente.ID
			if err := tx.Create(garante).Error; err != nil {
				return fmt.Errorf("no se pudo crear el garante: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) UpdateCliente(cliente *models.Cliente) error {
	return s.db.Save(cliente).Error
}

func (s *Store) UpdateGarante(garante *models.Garante) error {
	return s.db.Save(garante).Error
}

// DeleteCliente borra el cliente y en cascada su garante, sus ventas con
// items y sus pagos. Todo dentro de una transacción, los pasos son explícitos.
func (s *Store) DeleteCliente(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var cliente models.Cliente
		if err := tx.First(&cliente, "id = ?", id).Error; err != nil {
			return err
		}

		var ventaIDs []uint
		if err := tx.Model(&models.Venta{}).Where("cliente_id = ?", id).
			Pluck("id", &ventaIDs).Error; err != nil {
			return err
		}
		if len(ventaIDs) > 0 {
			if err := tx.Where("venta_id IN ?", ventaIDs).Delete(&models.VentaItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("cliente_id = ?", id).Delete(&models.Venta{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cliente_id = ?", id).Delete(&models.PagoCliente{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cliente_id = ?", id).Delete(&models.Garante{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cliente).Error
	})
}

// -------------------------
// Ventas
// -------------------------

// GetVenta trae la venta con sus items en orden de alta
func (s *Store) GetVenta(id uint) (*models.Venta, error) {
	var venta models.Venta
	if err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&venta, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &venta, nil
}

// ListVentas filtra por cliente y/o ventana de fechas (ambos extremos
// inclusive, a medianoche). Items cargados, orden por id.
func (s *Store) ListVentas(clienteID *uint, desde, hasta *time.Time) ([]models.Venta, error) {
	q := s.db.Model(&models.Venta{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	if clienteID != nil {
		q = q.Where("cliente_id = ?", *clienteID)
	}
	if desde != nil {
		q = q.Where("fecha >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("fecha <= ?", *hasta)
	}

	var ventas []models.Venta
	if err := q.Order("id").Find(&ventas).Error; err != nil {
		return nil, err
	}
	return ventas, nil
}

// CreateVentaConItems da de alta la venta y todos sus items de forma atómica:
// si falla cualquier insert no queda nada grabado.
func (s *Store) CreateVentaConItems(venta *models.Venta, items []models.VentaItem) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(venta).Error; err != nil {
			return fmt.Errorf("no se pudo grabar la venta: %w", err)
		}
		for i := range items {
			items[i].VentaID = venta.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("no se pudo grabar el item %d: %w", i+1, err)
			}
		}
		venta.Items = items
		return nil
	})
}

// DeleteVenta borra la venta y sus items
func (s *Store) DeleteVenta(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var venta models.Venta
		if err := tx.First(&venta, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("venta_id = ?", id).Delete(&models.VentaItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&venta).Error
	})
}

// -------------------------
// Pagos
// -------------------------

func (s *Store) GetPago(id uint) (*models.PagoCliente, error) {
	var pago models.PagoCliente
	if err := s.db.First(&pago, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pago, nil
}

// ListPagos filtra por cliente y/o ventana de fechas, igual que ListVentas
func (s *Store) ListPagos(clienteID *uint, desde, hasta *time.Time) ([]models.PagoCliente, error) {
	q := s.db.Model(&models.PagoCliente{})
	if clienteID != nil {
		q = q.Where("cliente_id = ?", *clienteID)
	}
	if desde != nil {
		q = q.Where("fecha >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("fecha <= ?", *hasta)
	}

	var pagos []models.PagoCliente
	if err := q.Order("id").Find(&pagos).Error; err != nil {
		return nil, err
	}
	return pagos, nil
}

func (s *Store) CreatePago(pago *models.PagoCliente) error {
	return s.db.Create(pago).Error
}

func (s *Store) DeletePago(id uint) error {
	return s.db.Delete(&models.PagoCliente{}, "id = ?", id).Error
}
