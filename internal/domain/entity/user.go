package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleSoporte = "soporte"
)

// User representa un usuario del panel de administración.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, soporte
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
