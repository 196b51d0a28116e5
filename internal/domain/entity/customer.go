package entity

import "time"

// Customer cliente final que compra acceso a una cuenta.
// CountryCode + Phone forman el destino de WhatsApp; Email es opcional.
type Customer struct {
	ID          string
	Name        string
	Email       string
	CountryCode string // ej. "57"
	Phone       string // número local, sin código de país
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reachable indica si el cliente tiene teléfono para WhatsApp.
func (c *Customer) Reachable() bool {
	return c.Phone != "" && c.CountryCode != ""
}
