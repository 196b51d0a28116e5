package repository

import "github.com/jhoicas/cuentas-api/internal/domain/entity"

// AccountFilter filtros para listados de cuentas.
type AccountFilter struct {
	ServiceID *int64
	Active    *bool
}

// AccountRepository define el puerto de persistencia para Account.
// GetByEmailAndService espera el email ya normalizado (trim + minúsculas);
// la normalización vive en la capa de sincronización.
type AccountRepository interface {
	Create(account *entity.Account) error
	GetByID(id string) (*entity.Account, error)
	GetByEmailAndService(email string, serviceID int64) (*entity.Account, error)
	List(filter AccountFilter, limit, offset int) ([]*entity.Account, error)
	ListActiveBySupplier(supplierID string) ([]*entity.Account, error)
	Update(account *entity.Account) error
}
