package usecase

import (
	"time"

	"github.com/jhoicas/cuentas-api/internal/application/dto"
	"github.com/jhoicas/cuentas-api/internal/domain"
	"github.com/jhoicas/cuentas-api/internal/domain/entity"
	"github.com/jhoicas/cuentas-api/internal/domain/repository"
)

// ServiceUseCase administración del catálogo de servicios.
type ServiceUseCase struct {
	repo repository.ServiceRepository
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(repo repository.ServiceRepository) *ServiceUseCase {
	return &ServiceUseCase{repo: repo}
}

// Create alta de un servicio. El ID es estable y lo asigna el operador
// (coincide con los ids que puede traer la hoja).
func (uc *ServiceUseCase) Create(in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if in.ID <= 0 || in.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByID(in.ID)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	service := &entity.Service{
		ID:          in.ID,
		Description: in.Description,
		Price:       in.Price,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(service); err != nil {
		return nil, err
	}
	return dto.FromService(service), nil
}

// List lista el catálogo.
func (uc *ServiceUseCase) List(page dto.PageRequest) ([]*dto.ServiceResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromService(s))
	}
	return out, nil
}

// Update cambia descripción, precio o estado.
func (uc *ServiceUseCase) Update(id int64, in dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	service, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, domain.ErrNotFound
	}
	if in.Description != nil {
		service.Description = *in.Description
	}
	if in.Price != nil {
		service.Price = *in.Price
	}
	if in.Active != nil {
		service.Active = *in.Active
	}
	service.UpdatedAt = time.Now()
	if err := uc.repo.Update(service); err != nil {
		return nil, err
	}
	return dto.FromService(service), nil
}
