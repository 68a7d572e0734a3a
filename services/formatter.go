package services

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// DefaultThousandsSeparator matches the pt-BR grouping of the reference tables.
const DefaultThousandsSeparator = "."

// Formatter renders stored values as display strings. Its output is never
// parsed back into the table.
type Formatter struct {
	numberFormat string
}

// NewFormatter builds a Formatter grouping thousands with the first rune of
// sep. An empty sep disables grouping.
func NewFormatter(sep string) *Formatter {
	if sep == "" {
		return &Formatter{numberFormat: "#."}
	}
	r, _ := utf8.DecodeRuneInString(sep)
	grouping := string(r)
	decimal := "."
	if grouping == "." {
		decimal = ","
	}
	return &Formatter{numberFormat: "#" + grouping + "###" + decimal}
}

// Percent renders a fraction as a whole-number percentage: 0.0534 → "5%".
func (f *Formatter) Percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// Thousands renders a count rounded to an integer with grouped digits:
// 1234567 → "1.234.567". Halves round to even, as Percent does.
func (f *Formatter) Thousands(v float64) string {
	return humanize.FormatFloat(f.numberFormat, math.RoundToEven(v))
}

// Date renders a calendar date as YYYY-MM-DD.
func (f *Formatter) Date(t time.Time) string {
	return t.Format("2006-01-02")
}
