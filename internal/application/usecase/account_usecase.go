package usecase

import (
	"time"

	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

// AccountUseCase consultas y administración de cuentas del inventario.
// Los campos espejados de la hoja (clave, estado externo, perfil) los muta
// solo el motor de sincronización; aquí se administra asignación de cliente,
// vencimiento y bandera de actividad.
type AccountUseCase struct {
	accounts  repository.AccountRepository
	customers repository.CustomerRepository
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(accounts repository.AccountRepository, customers repository.CustomerRepository) *AccountUseCase {
	return &AccountUseCase{accounts: accounts, customers: customers}
}

// List lista cuentas con filtros opcionales.
func (uc *AccountUseCase) List(filter repository.AccountFilter, page dto.PageRequest) ([]*dto.AccountResponse, error) {
	page.DefaultPage()
	list, err := uc.accounts.List(filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.FromAccount(a))
	}
	return out, nil
}

// GetByID obtiene una cuenta.
func (uc *AccountUseCase) GetByID(id string) (*dto.AccountResponse, error) {
	account, err := uc.accounts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return dto.FromAccount(account), nil
}

// Update aplica cambios administrativos: asignar/desasignar cliente,
// vencimiento, activación.
func (uc *AccountUseCase) Update(id string, in dto.UpdateAccountRequest) (*dto.AccountResponse, error) {
	account, err := uc.accounts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}

	if in.CustomerID != nil {
		if *in.CustomerID == "" {
			account.CustomerID = nil
		} else {
			customer, err := uc.customers.GetByID(*in.CustomerID)
			if err != nil {
				return nil, err
			}
			if customer == nil {
				return nil, domain.ErrInvalidInput
			}
			account.CustomerID = in.CustomerID
		}
	}
	if in.ExpiresAt != nil {
		account.ExpiresAt = *in.ExpiresAt
	}
	if in.Active != nil {
		account.Active = *in.Active
	}
	account.UpdatedAt = time.Now()

	if err := uc.accounts.Update(account); err != nil {
		return nil, err
	}
	return dto.FromAccount(account), nil
}
