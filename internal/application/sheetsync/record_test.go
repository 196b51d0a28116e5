package sheetsync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cuentas-api/internal/application/sheetsync"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ACTIVA", "Disponible"},
		{"activa", "activa"}, // solo el literal exacto se traduce
		{"Activa", "Activa"},
		{"ACTIVA ", "ACTIVA "},
		{"VENCIDA", "VENCIDA"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sheetsync.MapStatus(tt.in), "entrada %q", tt.in)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@ejemplo.com", sheetsync.NormalizeEmail("  ANA@Ejemplo.com "))
	assert.Equal(t, "", sheetsync.NormalizeEmail("   "))
}

func TestExternalRecord_Valid(t *testing.T) {
	base := sheetsync.ExternalRecord{Email: "a@b.com", Clave: "x", Service: "NETFLIX"}
	assert.True(t, base.Valid())

	sinEmail := base
	sinEmail.Email = "   "
	assert.False(t, sinEmail.Valid())

	sinClave := base
	sinClave.Clave = ""
	assert.False(t, sinClave.Valid())

	sinServicio := base
	sinServicio.Service = " "
	assert.False(t, sinServicio.Valid())
}

func TestDenylisted(t *testing.T) {
	for _, g := range []string{"Vencidos", "Account name", "Spotify Premium", "YouTube Premium"} {
		assert.True(t, sheetsync.Denylisted(g), g)
	}
	assert.False(t, sheetsync.Denylisted("Netflix"))
	assert.False(t, sheetsync.Denylisted("vencidos"), "la denylist distingue mayúsculas")
}

func TestGroupRecords(t *testing.T) {
	records := []sheetsync.ExternalRecord{
		{Group: "Netflix", Email: "a@b.com"},
		{Group: "Vencidos", Email: "viejo@b.com"},
		{Group: "Netflix", Email: "c@d.com"},
		{Group: "Disney", Email: "e@f.com"},
	}

	grouped := sheetsync.GroupRecords(records)
	require.Len(t, grouped, 2)
	assert.Len(t, grouped["Netflix"], 2)
	assert.Len(t, grouped["Disney"], 1)
	_, ok := grouped["Vencidos"]
	assert.False(t, ok, "los grupos excluidos no aparecen en la partición")
}
