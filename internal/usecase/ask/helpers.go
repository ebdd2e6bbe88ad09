package ask

import (
	"fmt"
	"strings"

	"github.com/futig/databot-backend/internal/entity"
)

const systemPromptTemplate = `Eres un asistente experto en análisis de datos para Kavak, la plataforma líder de compra-venta de autos usados en Latinoamérica.
Tu función es ayudar a los empleados a entender la documentación sobre métricas, reportes y análisis de datos.

Para responder a esta pregunta, estás utilizando la documentación: "%[1]s"

NOTA IMPORTANTE:
- Considera "sales" como sinónimo de "ventas"
- Considera "supply" como sinónimo de "compras"
- Cuando un usuario mencione "sales" o "ventas", se refiere al mismo funnel
- Cuando un usuario mencione "supply" o "compras", se refiere al mismo funnel

Usa la documentación proporcionada para contestar preguntas sobre:
1. Definiciones de KPIs y métricas
2. Cómo interpretar reportes y gráficos
3. Consultas para obtener diferentes tipos de datos
4. Análisis y tendencias en los datos

Debes:
- Si necesitas más contexto sobre la pregunta, pedir al usuario más detalle. Por ejemplo, si no queda claro si la pregunta es del funnel de ventas o de compras, preguntar al usuario.
- Mantener un tono profesional y claro
- Proporcionar explicaciones detalladas
- Referenciar específicamente secciones o tablas de la documentación
- Aportar ejemplos de SQL cuando sea apropiado
- Responder siempre en español
- Mantener el contexto de la conversación, recordando preguntas y respuestas anteriores
- Cuando se te pida modificar queries, proporcionar la consulta SQL modificada y explicar los cambios
- Indicar al final de tu respuesta qué documento se utilizó como fuente: [Fuente: %[1]s]

Si una pregunta está fuera del alcance de la documentación, indica cortésmente que esa información no está disponible en la documentación actual.`

const contextMessageTemplate = `Estás utilizando la siguiente documentación como base de conocimiento:

# DOCUMENTACIÓN: %s
%s`

const suggestionContextTemplate = `Basado en tus consultas anteriores, te sugiero modificar la consulta SQL:

Consulta original:
` + "```sql\n%s\n```" + `

Consulta modificada:
` + "```sql\n%s\n```" + `

%s

Tu pregunta original: %s`

// systemTurns builds the two leading transcript entries: the assistant role
// description and the full document dump it answers from.
func systemTurns(doc *entity.DocumentRecord) []entity.ChatMessage {
	name := documentName(doc)
	return []entity.ChatMessage{
		{Role: entity.RoleSystem, Content: fmt.Sprintf(systemPromptTemplate, name)},
		{Role: entity.RoleSystem, Content: fmt.Sprintf(contextMessageTemplate, name, formatDocumentData(doc))},
	}
}

func documentName(doc *entity.DocumentRecord) string {
	name := doc.Title
	if name == "" {
		name = doc.ID
	}
	return strings.ReplaceAll(name, ".docx", "")
}

// formatDocumentData renders a document record as the markdown-ish block the
// model receives: title, then sections, then tables with headers and rows.
func formatDocumentData(doc *entity.DocumentRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Title)

	b.WriteString("## Secciones del Documento:")
	for _, section := range doc.Sections {
		fmt.Fprintf(&b, "\n\n### %s\n%s", section.Title, section.Content)
	}

	if len(doc.Tables) > 0 {
		b.WriteString("\n\n## Tablas del Documento:")
		for _, table := range doc.Tables {
			fmt.Fprintf(&b, "\n\n### Tabla %d", table.Index+1)
			if len(table.Headers) > 0 {
				fmt.Fprintf(&b, "\nEncabezados: %s", strings.Join(table.Headers, " | "))
			}
			b.WriteString("\nDatos:")
			for _, row := range table.Rows {
				fmt.Fprintf(&b, "\n- %s", strings.Join(row, " | "))
			}
		}
	}

	return b.String()
}

// enhanceQuestion wraps the user's question with a pending query rewrite so
// the model sees both the mechanical suggestion and the original wording.
func enhanceQuestion(question string, suggestion *entity.QuerySuggestion) string {
	if suggestion == nil {
		return question
	}
	return fmt.Sprintf(suggestionContextTemplate,
		suggestion.OriginalQuery,
		suggestion.ModifiedQuery,
		suggestion.Explanation,
		question,
	)
}
