package core

// convert.go turns raw worksheet cells into canonical strings and parses the
// reference columns out of those strings.
//
// Canonical strings are what gets stored: text verbatim, numbers in their
// default decimal form ("123.0" for an integral value). Reference parsing has
// to accept that form back.

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/JonMunkholm/examsheet/internal/spreadsheet"
	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates an exact decimal after separator normalization.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var errNotANumber = errors.New("not a number")

// CoerceCell converts one raw cell into its canonical nullable string.
// Text is kept verbatim, including surrounding whitespace and the empty
// string. Blank and unknown cells yield null. It never fails.
func CoerceCell(c spreadsheet.Cell) pgtype.Text {
	switch c.Kind {
	case spreadsheet.KindText:
		return pgtype.Text{String: c.Text, Valid: true}
	case spreadsheet.KindNumeric:
		return pgtype.Text{String: FormatNumber(c.Number), Valid: true}
	default:
		return pgtype.Text{}
	}
}

// FormatNumber renders f in the default decimal string form of a double:
// plain notation with at least one fractional digit for magnitudes in
// [1e-3, 1e7), computerized scientific notation ("1.0E7") otherwise.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(f)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'E', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mantissa + "E" + strconv.Itoa(e)
}

// ParseReferenceNumber parses a canonical cell value as a floating point
// number and rounds it to the nearest integer, halves rounding up.
func ParseReferenceNumber(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNotANumber, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", errNotANumber, s)
	}

	rounded := math.Floor(f + 0.5)
	if rounded < math.MinInt64 || rounded >= math.MaxInt64 {
		return 0, fmt.Errorf("reference number out of range: %q", s)
	}
	return int64(rounded), nil
}

// ParseSortKey parses a canonical cell value as an exact decimal. A comma
// decimal separator is accepted: "8,5" parses as 8.5. Exponent notation,
// as produced by FormatNumber for large values, is kept exact.
func ParseSortKey(s string) (pgtype.Numeric, error) {
	normalized := strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if !numericRegex.MatchString(normalized) {
		return pgtype.Numeric{}, fmt.Errorf("%w: %q", errNotANumber, s)
	}

	mantissa, expPart, hasExp := strings.Cut(strings.ToLower(normalized), "e")
	exp := 0
	if hasExp {
		e, err := strconv.Atoi(expPart)
		if err != nil {
			return pgtype.Numeric{}, fmt.Errorf("invalid decimal %q: %w", s, err)
		}
		exp = e
	}

	whole, frac, _ := strings.Cut(mantissa, ".")
	exp -= len(frac)
	if exp < math.MinInt32 || exp > math.MaxInt32 {
		return pgtype.Numeric{}, fmt.Errorf("decimal out of range: %q", s)
	}

	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return pgtype.Numeric{}, fmt.Errorf("%w: %q", errNotANumber, s)
	}
	return pgtype.Numeric{Int: n, Exp: int32(exp), Valid: true}, nil
}

// NumericString renders a numeric for logs and diagnostics.
func NumericString(n pgtype.Numeric) string {
	if !n.Valid {
		return "null"
	}
	v, err := n.Value()
	if err != nil {
		return "invalid"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
