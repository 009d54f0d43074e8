package output

import "strings"

// Format selects how command results are rendered.
type Format string

const (
	// FormatText renders human-readable lines and aligned columns.
	FormatText Format = "text"

	// FormatJSON renders machine-readable JSON.
	FormatJSON Format = "json"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Valid reports whether the format is one dynalint can render.
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// ParseFormat parses a --output flag value. The boolean reports whether the
// input named a known format; unknown input is returned as-is so callers can
// quote it in error messages.
func ParseFormat(s string) (Format, bool) {
	f := Format(strings.ToLower(s))
	return f, f.Valid()
}

// ValidFormats returns the accepted --output values.
func ValidFormats() []string {
	return []string{"text", "json"}
}
