package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cuentas-api/internal/domain/entity"
)

// CreateServiceRequest alta en el catálogo de servicios.
type CreateServiceRequest struct {
	ID          int64           `json:"id" validate:"required"`
	Description string          `json:"description" validate:"required,min=1,max=200"`
	Price       decimal.Decimal `json:"price"`
}

// UpdateServiceRequest cambios de precio/estado de un servicio.
type UpdateServiceRequest struct {
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Active      *bool            `json:"active"`
}

// ServiceResponse salida de un servicio del catálogo.
type ServiceResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
}

// FromService convierte la entidad a su forma wire.
func FromService(s *entity.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:          s.ID,
		Description: s.Description,
		Price:       s.Price,
		Active:      s.Active,
	}
}
