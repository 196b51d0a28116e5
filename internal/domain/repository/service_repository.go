package repository

import "github.com/jhoicas/cuentas-api/internal/domain/entity"

// ServiceRepository define el puerto de persistencia para Service (catálogo).
type ServiceRepository interface {
	Create(service *entity.Service) error
	GetByID(id int64) (*entity.Service, error)
	List(limit, offset int) ([]*entity.Service, error)
	ListActive() ([]*entity.Service, error)
	Update(service *entity.Service) error
}
