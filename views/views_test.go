package views

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefinesEveryPage(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)
	for _, name := range []string{"home.tmpl", "favorites.tmpl", "detail.tmpl", "not_found.tmpl", "error.tmpl", "login.tmpl"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestNotFoundPageRenders(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "not_found.tmpl", map[string]any{"Title": "Hittades inte"}))
	assert.Contains(t, buf.String(), "<title>Hittades inte · Receptbok</title>")
	assert.Contains(t, buf.String(), "Sidan hittades inte.")
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"Heat oil.", "Add onions."}, paragraphs("Heat oil.\r\n\r\n  Add onions.  \n"))
	assert.Empty(t, paragraphs(" \n "))
}
