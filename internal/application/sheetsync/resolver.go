package sheetsync

import "strings"

// ServiceRef referencia mínima al catálogo para resolver nombres.
type ServiceRef struct {
	ID          int64
	Description string
}

// ResolveService resuelve el id de servicio a partir del nombre de la fila,
// con el nombre del grupo como respaldo. Heurística: se toma el primer token
// del nombre, se le quitan los dígitos finales ("NETFLIX2" -> "NETFLIX") y se
// busca como substring, sin distinguir mayúsculas, dentro de las
// descripciones del catálogo. Función pura para que sus casos borde sean
// testeables sin base de datos.
func ResolveService(serviceName, groupName string, services []ServiceRef) (int64, bool) {
	if id, ok := matchToken(serviceName, services); ok {
		return id, true
	}
	return matchToken(groupName, services)
}

func matchToken(name string, services []ServiceRef) (int64, bool) {
	token := firstToken(name)
	if token == "" {
		return 0, false
	}
	token = strings.ToLower(stripTrailingDigits(token))
	for _, s := range services {
		if strings.Contains(strings.ToLower(s.Description), token) {
			return s.ID, true
		}
	}
	return 0, false
}

func firstToken(s string) string {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func stripTrailingDigits(s string) string {
	end := len(s)
	for end > 0 && s[end-1] >= '0' && s[end-1] <= '9' {
		end--
	}
	return s[:end]
}
