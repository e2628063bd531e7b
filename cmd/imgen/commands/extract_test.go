package commands

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/maltedev/product-image-generator/internal/models"
)

func TestRenderRecord(t *testing.T) {
	matrix := models.NewSizeColorMatrix()
	matrix.Sizes = []string{"S", "M"}
	matrix.AddColor("Red")
	matrix.AddColor("Blue")

	var buf bytes.Buffer
	renderRecord(&buf, &models.ProductRecord{
		Name:            "Blue Dress",
		Price:           decimal.RequireFromString("1000.5"),
		SizeColorMatrix: matrix,
		SourceURL:       "https://shop.test/p/1",
	})

	out := buf.String()
	assert.Contains(t, out, "Blue Dress")
	assert.Contains(t, out, "$1000.50")
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, "COLOR")
	assert.Contains(t, out, "Blue")
	assert.Contains(t, out, "✓")
	assert.NotContains(t, out, "no size/color table")
}

func TestRenderRecordWithoutTable(t *testing.T) {
	var buf bytes.Buffer
	renderRecord(&buf, &models.ProductRecord{
		Name:            models.DefaultProductName,
		SizeColorMatrix: models.NewSizeColorMatrix(),
	})

	assert.Contains(t, buf.String(), "Generic Product")
	assert.Contains(t, buf.String(), "no size/color table")
}

func TestCommandsAreRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["extract"])
	assert.True(t, names["generate"])
}
