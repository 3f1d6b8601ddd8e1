package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRender(t *testing.T) {
	exporter := NewCSVExporter()

	raw, err := exporter.Render(Dataset{
		Headers: []string{"Name", "Email"},
		Rows: [][]string{
			{"Asha", "asha@example.com"},
			{"Ravi", "ravi@example.com"},
		},
	})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(raw), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Email", string(lines[0]))
	assert.Equal(t, "Asha,asha@example.com", string(lines[1]))
}

func TestCSVRenderEscapesCommas(t *testing.T) {
	exporter := NewCSVExporter()

	raw, err := exporter.Render(Dataset{
		Headers: []string{"Name"},
		Rows:    [][]string{{"Sharma, Asha"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Sharma, Asha"`)
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	exporter := NewPDFExporter()

	raw, err := exporter.Render(Dataset{
		Headers: []string{"Metric", "Value"},
		Rows:    [][]string{{"Total users", "10"}},
	}, "Platform Statistics")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestPDFRenderShortRow(t *testing.T) {
	exporter := NewPDFExporter()

	raw, err := exporter.Render(Dataset{
		Headers: []string{"A", "B", "C"},
		Rows:    [][]string{{"only"}},
	}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}
