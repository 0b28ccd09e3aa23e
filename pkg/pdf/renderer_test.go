package pdf

import (
	"bytes"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSummary = `# Fallzusammenfassung

## Anspruchsteller
Anna **Müller**, Mieterin in Köln.

## Chronologischer Sachverhalt
- 01.03.2024: Mängelanzeige *per E-Mail* (Anlage 1)
- 15.03.2024: Keine Reaktion des Vermieters

1. Mietvertrag
2. Fotos vom Schimmel

> Erstellt mit KI-Unterstützung.
`

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(sampleSummary, "SUM-20250127-A3F2K")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	reader, err := pdf.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	assert.Equal(t, 1, reader.NumPage())

	plain, err := reader.GetPlainText()
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(plain)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "SUM-20250127-A3F2K")
}

func TestRenderEmptyMarkdown(t *testing.T) {
	out, err := Render("", "")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
