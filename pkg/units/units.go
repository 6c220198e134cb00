// Package units converts food quantities between the canonical metric storage
// units (g, kg, ml, l, count) and imperial display units. One factor table
// drives both directions, so the forward and inverse conversions cannot drift
// apart.
package units

import (
	"math"
	"strconv"
	"strings"
)

type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// ParseSystem validates a measurement-system string from config or request
// input. Empty defaults to metric.
func ParseSystem(s string) (System, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric":
		return Metric, true
	case "imperial":
		return Imperial, true
	}
	return "", false
}

// Result is a freshly-built converted quantity; it never aliases caller state.
type Result struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// conversion maps one canonical metric unit to its imperial display unit.
// Forward multiplies by Factor, inverse divides by the same Factor.
type conversion struct {
	Canonical string
	Aliases   []string
	Display   string
	Factor    float64
}

var conversions = []conversion{
	{Canonical: "g", Aliases: []string{"gram", "grams"}, Display: "oz", Factor: 0.035274},
	{Canonical: "kg", Aliases: []string{"kilogram", "kilograms"}, Display: "lb", Factor: 2.20462},
	{Canonical: "ml", Aliases: []string{"milliliter", "milliliters"}, Display: "fl oz", Factor: 0.033814},
	{Canonical: "l", Aliases: []string{"liter", "liters"}, Display: "fl oz", Factor: 33.814},
}

// Convert renders a stored quantity in the requested measurement system.
// Metric is the identity. Unrecognized units (e.g. "count") pass through
// unchanged rather than erroring; an unknown unit must never block display.
func Convert(quantity float64, unit string, system System) Result {
	if system != Imperial {
		return Result{Quantity: quantity, Unit: unit}
	}
	if c, ok := byCanonical(unit); ok {
		return Result{Quantity: round2(quantity * c.Factor), Unit: c.Display}
	}
	return Result{Quantity: quantity, Unit: unit}
}

// ToCanonical converts user input in an imperial display unit back to the
// canonical metric storage unit. "fl oz" maps to ml, the storage unit liquid
// entries are kept in. Unknown units pass through unchanged.
func ToCanonical(quantity float64, unit string) Result {
	if c, ok := byDisplay(unit); ok {
		return Result{Quantity: round2(quantity / c.Factor), Unit: c.Canonical}
	}
	return Result{Quantity: quantity, Unit: unit}
}

// ParseQuantity coerces quantity input to a number. Upstream sources sometimes
// deliver numbers as text, so "2.5" and " 100 " are accepted.
func ParseQuantity(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func byCanonical(unit string) (conversion, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	for _, c := range conversions {
		if c.Canonical == u {
			return c, true
		}
		for _, a := range c.Aliases {
			if a == u {
				return c, true
			}
		}
	}
	return conversion{}, false
}

func byDisplay(unit string) (conversion, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	for _, c := range conversions {
		if c.Display == u {
			return c, true
		}
	}
	return conversion{}, false
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
