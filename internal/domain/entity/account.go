package entity

import "time"

// Estados externos con significado propio para la sincronización.
// El resto de valores de la hoja se espejan tal cual.
const (
	StatusDisponible = "Disponible"
	StatusDeleted    = "deleted"
)

// DefaultExpirationDays vencimiento por defecto de una cuenta recién creada por
// la sincronización (placeholder hasta que se venda).
const DefaultExpirationDays = 30

// Account representa una cuenta compartida de un servicio de streaming.
// La identifica el par (email, service_id); varios perfiles comparten ese par.
// Solo la sincronización muta Clave, ExternalStatus y Profile para cuentas
// provenientes de la hoja.
type Account struct {
	ID             string
	Email          string
	Clave          string // credencial de acceso espejada de la hoja
	ServiceID      int64
	ExternalStatus string // estado libre espejado de la hoja
	Profile        int    // número de perfil/pantalla
	Active         bool
	CustomerID     *string // cliente asignado; nil = sin vender
	SupplierID     string  // proveedor dueño de la cuenta
	ExpiresAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Assigned indica si la cuenta tiene un cliente asignado.
func (a *Account) Assigned() bool {
	return a.CustomerID != nil && *a.CustomerID != ""
}
