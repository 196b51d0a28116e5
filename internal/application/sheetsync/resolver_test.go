package sheetsync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/cuentas-api/internal/application/sheetsync"
)

func TestResolveService(t *testing.T) {
	catalog := []sheetsync.ServiceRef{
		{ID: 5, Description: "Netflix Premium 4K"},
		{ID: 7, Description: "Disney+ Estándar"},
		{ID: 9, Description: "HBO Max"},
	}

	tests := []struct {
		name        string
		serviceName string
		groupName   string
		wantID      int64
		wantOK      bool
	}{
		{"coincidencia directa", "NETFLIX", "otro", 5, true},
		{"minúsculas", "netflix", "otro", 5, true},
		{"sufijo numérico", "NETFLIX2", "otro", 5, true},
		{"solo primer token", "DISNEY plus familiar", "otro", 7, true},
		{"respaldo por grupo", "???", "HBO Cuentas", 9, true},
		{"fila manda sobre grupo", "NETFLIX", "HBO Cuentas", 5, true},
		{"sin coincidencia", "AMAZON", "Prime Video", 0, false},
		{"nombres vacíos", "", "", 0, false},
		{"solo espacios", "   ", "  ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := sheetsync.ResolveService(tt.serviceName, tt.groupName, catalog)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestResolveService_CatalogoVacio(t *testing.T) {
	id, ok := sheetsync.ResolveService("NETFLIX", "Netflix", nil)
	assert.False(t, ok)
	assert.Zero(t, id)
}
