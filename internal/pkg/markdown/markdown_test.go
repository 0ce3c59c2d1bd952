package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains string
	}{
		{"heading", "# Intro", "<h1>Intro</h1>"},
		{"emphasis", "some *emphasis*", "<em>emphasis</em>"},
		{"gfm table", "| a | b |\n|---|---|\n| 1 | 2 |", "<table>"},
		{"autolink", "see https://go.dev", `<a href="https://go.dev">`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(tt.source)
			require.NoError(t, err)
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestRenderStripsRawHTML(t *testing.T) {
	out, err := Render("<script>alert(1)</script>\n\nok")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<p>ok</p>")
}
