package sqlquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFencedSQLBlock(t *testing.T) {
	text := "Aquí tienes la consulta:\n```sql\nSELECT * FROM t;\n```\nEso devuelve todo."

	got := Extract(text)
	// The fenced family reports it first; the bare family sees the same
	// statement inside the fence.
	assert.Equal(t, "SELECT * FROM t;", got[0])
	for _, q := range got {
		assert.Equal(t, "SELECT * FROM t;", q)
	}
}

func TestExtractGenericFencedBlock(t *testing.T) {
	text := "```\nSELECT id FROM ventas;\n```"

	got := Extract(text)
	assert.Contains(t, got, "SELECT id FROM ventas;")
}

func TestExtractInlineBacktickStatement(t *testing.T) {
	text := "Usa `SELECT nombre FROM clientes;` para la lista."

	got := Extract(text)
	assert.Contains(t, got, "SELECT nombre FROM clientes;")
}

func TestExtractBareStatement(t *testing.T) {
	text := "La consulta SELECT total FROM ventas WHERE status = 'completada'; responde eso."

	got := Extract(text)
	assert.Contains(t, got, "SELECT total FROM ventas WHERE status = 'completada';")
}

func TestExtractNoSQL(t *testing.T) {
	assert.Empty(t, Extract("No hay consultas en esta respuesta."))
}

func TestExtractKeepsRepeatedMatches(t *testing.T) {
	// A fenced sql block whose body is also a bare SELECT...; statement is
	// reported by both families.
	text := "```sql\nSELECT id FROM ventas;\n```"

	got := Extract(text)
	assert.Len(t, got, 2)
	assert.Equal(t, "SELECT id FROM ventas;", got[0])
	assert.Equal(t, "SELECT id FROM ventas;", got[1])
}

func TestExtractMultipleFencedBlocks(t *testing.T) {
	text := "Primera:\n```sql\nSELECT a FROM x\n```\nSegunda:\n```sql\nSELECT b FROM y\n```"

	got := Extract(text)
	assert.Equal(t, []string{"SELECT a FROM x", "SELECT b FROM y"}, got)
}
