package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr     string
		expected string
	}{
		{"1000 * 1.3", "1300"},
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"10 - 4 - 3", "3"},
		{"100 / 4 / 5", "5"},
		{"-5 + 10", "5"},
		{"-(2 + 3) * 2", "-10"},
		{"+7", "7"},
		{"1000 * 1.55 + 200", "1750"},
		{"  ( ( 2 ) )  ", "2"},
		{"1 / 3 * 3", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			expected := decimal.RequireFromString(tt.expected)
			assert.True(t, expected.Sub(got).Abs().LessThan(decimal.RequireFromString("0.000001")),
				"want %s, got %s", expected, got)
		})
	}
}

func TestEvaluateRejects(t *testing.T) {
	tests := []string{
		"",
		"x * 1.3",
		"1000 * 55%",
		"__import__('os')",
		"2 ** 3",
		"(1 + 2",
		"1 + 2)",
		"1 +",
		"1 / 0",
		"1 / (2 - 2)",
		"1.2.3 + 1",
		"4 4",
		"abs(-1)",
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := Evaluate(expr)
			assert.ErrorIs(t, err, ErrFormula)
		})
	}
}
