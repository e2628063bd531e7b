package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHTMLLatin1(t *testing.T) {
	// "Camisón" encoded as ISO-8859-1
	data := []byte("<html><body><h1>Camis\xf3n</h1></body></html>")

	html, err := DecodeHTML(data, "text/html; charset=ISO-8859-1")
	require.NoError(t, err)
	assert.Contains(t, html, "Camisón")
}

func TestDecodeHTMLUTF8(t *testing.T) {
	html, err := DecodeHTML([]byte(`<meta charset="utf-8"><h1>Niño</h1>`), "")
	require.NoError(t, err)
	assert.Contains(t, html, "Niño")
}

func TestProductParserImplementsParser(t *testing.T) {
	var p Parser = newTestParser()
	rec := p.Extract("<h1>Name</h1>", "https://shop.test/")
	assert.Equal(t, "Name", rec.Name)
}
