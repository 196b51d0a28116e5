package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service catálogo de servicios revendibles (Netflix, Disney+, HBO Max...).
// Description es el texto contra el que se resuelven los nombres de la hoja.
type Service struct {
	ID          int64
	Description string
	Price       decimal.Decimal // precio mensual de venta
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
