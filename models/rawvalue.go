package models

import (
	"strconv"
	"strings"
)

// ValueKind tags the encoding a raw cell arrived in.
type ValueKind int

const (
	Missing ValueKind = iota
	Number
	Text
)

func (k ValueKind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	default:
		return "missing"
	}
}

// RawValue is a cell that may be empty, numeric, or free text such as "5%".
type RawValue struct {
	Kind   ValueKind
	Number float64
	Text   string
}

// NumberValue wraps an already numeric cell.
func NumberValue(f float64) RawValue {
	return RawValue{Kind: Number, Number: f}
}

// TextValue wraps a string cell without attempting to parse it.
func TextValue(s string) RawValue {
	return RawValue{Kind: Text, Text: s}
}

// ParseRawValue classifies a cell read as a string. Blank and NaN cells are
// Missing, plain decimals are Number and everything else stays Text.
func ParseRawValue(s string) RawValue {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return RawValue{Kind: Missing}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return NumberValue(f)
	}
	return TextValue(s)
}

func (v RawValue) String() string {
	switch v.Kind {
	case Number:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case Text:
		return v.Text
	default:
		return ""
	}
}
