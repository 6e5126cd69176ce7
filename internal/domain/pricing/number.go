package pricing

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a decimal input that never fails to decode.
// Numbers and numeric strings decode to their value; null, empty strings,
// booleans, objects and anything unparseable decode to 0.
type Number float64

// UnmarshalJSON decodes leniently and never returns an error
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(finite(f))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = ParseNumber(s)
	}
	return nil
}

// Float returns the value as a float64
func (n Number) Float() float64 {
	return finite(float64(n))
}

// Value returns the number, treating an absent one as 0
func (n *Number) Value() float64 {
	if n == nil {
		return 0
	}
	return n.Float()
}

// NumberOf returns a set optional number
func NumberOf(v float64) *Number {
	n := Number(finite(v))
	return &n
}

// ParseNumber converts free-form text to a Number, returning 0 when it is not numeric
func ParseNumber(s string) Number {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Number(finite(f))
}

// Round2 rounds to two decimal places, half away from zero
func Round2(v float64) float64 {
	v = finite(v)
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
