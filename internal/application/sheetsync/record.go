package sheetsync

import "strings"

// ExternalRecord una fila del spreadsheet del proveedor. Vive solo durante
// una pasada de sincronización; nunca se persiste tal cual.
type ExternalRecord struct {
	Group     string // nombre de la pestaña/grupo
	Email     string
	Clave     string
	Service   string // nombre del servicio tal como viene en la fila
	Status    string // estado libre de la hoja
	Profile   int
	ServiceID int64 // columna opcional de id explícito; 0 = ausente
}

// Grupos cuyos datos pertenecen a otro pipeline: se descartan antes de
// cualquier procesamiento.
var deniedGroups = map[string]struct{}{
	"Vencidos":        {},
	"Account name":    {},
	"Spotify Premium": {},
	"YouTube Premium": {},
}

// Denylisted indica si el grupo está excluido de esta sincronización.
func Denylisted(group string) bool {
	_, ok := deniedGroups[group]
	return ok
}

// Valid indica si la fila tiene lo mínimo para procesarse: email, clave y
// servicio no vacíos tras recortar espacios. Las filas inválidas son ruido
// esperado, no errores.
func (r ExternalRecord) Valid() bool {
	return strings.TrimSpace(r.Email) != "" &&
		r.Clave != "" &&
		strings.TrimSpace(r.Service) != ""
}

// GroupRecords particiona las filas por grupo, descartando los grupos de la
// denylist. El resultado se recalcula completo en cada pasada.
func GroupRecords(records []ExternalRecord) map[string][]ExternalRecord {
	grouped := make(map[string][]ExternalRecord)
	for _, r := range records {
		if Denylisted(r.Group) {
			continue
		}
		grouped[r.Group] = append(grouped[r.Group], r)
	}
	return grouped
}

// MapStatus traduce el estado externo al vocabulario interno. Solo el
// literal exacto "ACTIVA" se traduce; cualquier otro valor (incluidas
// variantes de mayúsculas) pasa sin cambios. La estrictez es intencional.
func MapStatus(s string) string {
	if s == "ACTIVA" {
		return "Disponible"
	}
	return s
}

// NormalizeEmail política única de normalización para comparar y buscar
// cuentas: recorte de espacios y minúsculas.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
