package pricing

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultFormula is applied when none is given or the given one cannot be evaluated.
const DefaultFormula = "x * 1.3"

var (
	defaultMarkup = decimal.RequireFromString("1.3")

	// formulas containing any of these are treated as a 55% surcharge
	surchargeTriggers = []string{"1.55", "0.55", "55%"}

	highPriceThreshold   = decimal.NewFromInt(50000)
	mediumPriceThreshold = decimal.NewFromInt(10000)
)

// Substitute replaces every x in the formula with the original price.
func Substitute(formula string, original decimal.Decimal) string {
	return strings.ReplaceAll(formula, "x", original.String())
}

// Calculator applies price formulas and rounds the result for display.
type Calculator struct {
	logger *slog.Logger
}

func NewCalculator(logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger.With("component", "pricing")}
}

// Price evaluates formula against original and rounds it. If the formula
// cannot be evaluated the default markup is used instead.
func (c *Calculator) Price(original decimal.Decimal, formula string) decimal.Decimal {
	result, err := Evaluate(Substitute(formula, original))
	if err != nil {
		c.logger.Warn("formula failed, using default", "formula", formula, "error", err)
		return RoundSmart(original.Mul(defaultMarkup), DefaultFormula)
	}

	rounded := RoundSmart(result, formula)
	c.logger.Debug("price calculated",
		"original", original.String(),
		"formula", formula,
		"result", result.String(),
		"rounded", rounded.String(),
	)
	return rounded
}

// RoundSmart rounds up to a multiple that depends on the price tier, or to 500
// for 55% surcharge formulas regardless of magnitude.
func RoundSmart(price decimal.Decimal, formula string) decimal.Decimal {
	return RoundUp(price, multipleFor(price, formula))
}

func multipleFor(price decimal.Decimal, formula string) int64 {
	for _, trigger := range surchargeTriggers {
		if strings.Contains(formula, trigger) {
			return 500
		}
	}
	switch {
	case price.GreaterThan(highPriceThreshold):
		return 1000
	case price.GreaterThan(mediumPriceThreshold):
		return 500
	default:
		return 100
	}
}

// RoundUp returns the smallest multiple of multiple that is >= value.
func RoundUp(value decimal.Decimal, multiple int64) decimal.Decimal {
	if multiple == 0 {
		return value
	}
	m := decimal.NewFromInt(multiple)
	return value.Div(m).Ceil().Mul(m)
}

// Format renders a price the way it is printed on the image.
func Format(price decimal.Decimal) string {
	return "$" + price.StringFixed(2)
}
