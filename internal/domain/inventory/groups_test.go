package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
)

func TestGroupName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"código numérico", "3", "MANTENIMIENTO"},
		{"código uno", "1", "MATERIA PRIMA"},
		{"nombre canónico pasa sin cambio", "MANTENIMIENTO", "MANTENIMIENTO"},
		{"valor desconocido pasa verbatim", "HERRAMIENTAS MENORES", "HERRAMIENTAS MENORES"},
		{"vacío mapea al sentinel", "", inventory.GroupUncategorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.GroupName(tc.in))
		})
	}
}

// El mapeo debe ser idempotente: aplicarlo dos veces no cambia nada.
func TestGroupName_Idempotente(t *testing.T) {
	for _, in := range []string{"1", "2", "3", "4", "5", "", "OTRA COSA"} {
		once := inventory.GroupName(in)
		assert.Equal(t, once, inventory.GroupName(once), "entrada %q", in)
	}
}

func TestGroupShortName(t *testing.T) {
	assert.Equal(t, "MANTTO", inventory.GroupShortName("MANTENIMIENTO"))
	assert.Equal(t, "S/C", inventory.GroupShortName(inventory.GroupUncategorized))
	// Nombres desconocidos pasan sin abreviar.
	assert.Equal(t, "HERRAMIENTAS", inventory.GroupShortName("HERRAMIENTAS"))
}

func TestCanonicalGroups(t *testing.T) {
	groups := inventory.CanonicalGroups()
	assert.Len(t, groups, 5)
	for _, g := range groups {
		assert.True(t, inventory.IsCanonicalGroup(g), "grupo %q", g)
	}
	assert.False(t, inventory.IsCanonicalGroup(""))
}
