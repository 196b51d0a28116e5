package dto

import (
	"time"

	"github.com/jhoicas/cuentas-api/internal/domain/entity"
)

// AccountResponse salida de una cuenta.
type AccountResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Clave          string    `json:"clave"`
	ServiceID      int64     `json:"service_id"`
	ExternalStatus string    `json:"external_status"`
	Profile        int       `json:"profile"`
	Active         bool      `json:"active"`
	CustomerID     *string   `json:"customer_id,omitempty"`
	SupplierID     string    `json:"supplier_id"`
	ExpiresAt      time.Time `json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FromAccount convierte la entidad a su forma wire.
func FromAccount(a *entity.Account) *AccountResponse {
	if a == nil {
		return nil
	}
	return &AccountResponse{
		ID:             a.ID,
		Email:          a.Email,
		Clave:          a.Clave,
		ServiceID:      a.ServiceID,
		ExternalStatus: a.ExternalStatus,
		Profile:        a.Profile,
		Active:         a.Active,
		CustomerID:     a.CustomerID,
		SupplierID:     a.SupplierID,
		ExpiresAt:      a.ExpiresAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// UpdateAccountRequest campos administrables de una cuenta: asignación de
// cliente y vencimiento. Los campos espejados de la hoja los muta solo la
// sincronización.
type UpdateAccountRequest struct {
	CustomerID *string    `json:"customer_id"`
	ExpiresAt  *time.Time `json:"expires_at"`
	Active     *bool      `json:"active"`
}
