package dto

import "github.com/jhoicas/cuentas-api/internal/domain/entity"

// CreateCustomerRequest alta de un cliente final.
type CreateCustomerRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	CountryCode string `json:"country_code" validate:"omitempty,max=4"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// FromCustomer convierte la entidad a su forma wire.
func FromCustomer(c *entity.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		CountryCode: c.CountryCode,
		Phone:       c.Phone,
	}
}
