// =============================================================================
// Invoice Flattener - Field Validation Module
// =============================================================================
//
// This module decides whether a loosely typed source value can be used as a
// given kind of field. The source data mixes strings, JSON numbers, booleans
// and missing values, so every check accepts `any`.
//
// CHECKS:
//   - Stringify : coerce any value to its string form (ids, names)
//   - ToInt     : integer conversion used for unit_price and quantity
//   - MulInt    : overflow-checked product for line totals
//   - IsDigits  : the strict "only ASCII digits" test used for invoice totals
//   - TypeCode  : resolve an item type code for the label lookup
//   - ParseDate : permissive date parsing, normalized to YYYY-MM-DD
//
// A failed check returns a *ValidationError that unwraps to one of the
// sentinel errors below, so callers can use errors.Is.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goccy/go-json"

	"github.com/ginjaninja78/invoice-flattener/internal/types"
)

// DateLayout is the normalized output layout for dates.
const DateLayout = "2006-01-02"

// Sentinel errors returned (wrapped) by the checks in this package.
var (
	// ErrNotInteger is returned when a value cannot be converted to an integer.
	ErrNotInteger = errors.New("value is not an integer")

	// ErrOutOfRange is returned when an integer does not fit in 64 bits.
	ErrOutOfRange = errors.New("value is out of integer range")

	// ErrInvalidDate is returned when a value cannot be parsed as a date.
	ErrInvalidDate = errors.New("value is not a valid date")
)

// =============================================================================
// VALIDATION ERROR TYPE
// =============================================================================

// ValidationError describes a single failed check.
type ValidationError struct {
	// Rule is the check that failed ("integer", "date").
	Rule string

	// Value is the string form of the rejected value.
	Value string

	// Message is a human-readable description.
	Message string

	err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s check failed: %s (value: '%s')", e.Rule, e.Message, e.Value)
}

// Unwrap returns the sentinel error for errors.Is matching.
func (e *ValidationError) Unwrap() error {
	return e.err
}

func newValidationError(rule string, value any, message string, sentinel error) *ValidationError {
	return &ValidationError{
		Rule:    rule,
		Value:   Stringify(value),
		Message: message,
		err:     sentinel,
	}
}

// =============================================================================
// STRING COERCION
// =============================================================================

// Stringify converts any source value to its string form.
//
// Strings are returned verbatim and JSON numbers keep their literal text.
// A nil value becomes the empty string.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return types.FormatFloat(v)
	case float32:
		return types.FormatFloat(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// =============================================================================
// NUMERIC CHECKS
// =============================================================================

// ToInt converts a source value to an integer.
//
// CONVERSION RULES:
//   - string      : surrounding whitespace trimmed, optionally signed base-10
//   - json.Number : integral literals parse directly, fractional ones are
//                   truncated toward zero ("10.9" -> 10)
//   - float       : truncated toward zero
//   - bool        : true -> 1, false -> 0
//   - nil / other : ErrNotInteger
//
// Integers that do not fit in an int64 fail with ErrOutOfRange.
func ToInt(value any) (int64, error) {
	switch v := value.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return 0, newValidationError("integer", value, "out of range", ErrOutOfRange)
		}
		if err != nil {
			return 0, newValidationError("integer", value, "not a base-10 integer", ErrNotInteger)
		}
		return n, nil
	case json.Number:
		n, err := v.Int64()
		if err == nil {
			return n, nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return 0, newValidationError("integer", value, "out of range", ErrOutOfRange)
		}
		f, err := v.Float64()
		if err != nil {
			return 0, newValidationError("integer", value, "not a number", ErrNotInteger)
		}
		return truncate(value, f)
	case float64:
		return truncate(value, v)
	case float32:
		return truncate(value, float64(v))
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case uint:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, newValidationError("integer", value, "out of range", ErrOutOfRange)
		}
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case nil:
		return 0, newValidationError("integer", value, "value is missing", ErrNotInteger)
	default:
		return 0, newValidationError("integer", value, fmt.Sprintf("unsupported type %T", value), ErrNotInteger)
	}
}

func truncate(value any, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, newValidationError("integer", value, "not a finite number", ErrNotInteger)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, newValidationError("integer", value, "out of range", ErrOutOfRange)
	}
	return int64(math.Trunc(f)), nil
}

// MulInt returns a*b, or ErrOutOfRange when the product overflows an int64.
func MulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}

	hi, lo := bits.Mul64(magnitude(a), magnitude(b))
	negative := (a < 0) != (b < 0)

	limit := uint64(math.MaxInt64)
	if negative {
		limit++
	}
	if hi != 0 || lo > limit {
		return 0, newValidationError("integer", fmt.Sprintf("%d * %d", a, b), "product out of range", ErrOutOfRange)
	}

	if negative {
		return int64(-lo), nil
	}
	return int64(lo), nil
}

// magnitude returns |n| as an unsigned value; it is exact for math.MinInt64.
func magnitude(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

// IsDigits reports whether the string form of value is non-empty and made of
// ASCII digits only. Signs, whitespace and decimal points all fail.
func IsDigits(value any) bool {
	s := Stringify(value)
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// TypeCode resolves an item type code. Only numeric values with an integral
// value qualify; strings are never coerced ("1" is not code 1).
func TypeCode(value any) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case float64:
		return integral(v)
	case float32:
		return integral(float64(v))
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// TypeLabel resolves the category label of an item type value.
func TypeLabel(value any) string {
	code, ok := TypeCode(value)
	if !ok {
		return types.TypeOther
	}
	return types.TypeLabel(code)
}

// =============================================================================
// DATE CHECKS
// =============================================================================

// ParseDate parses a date-like value and returns it formatted as YYYY-MM-DD.
//
// Parsing is permissive: ISO dates, "Jan 15, 2024", "15/01/2024", RFC3339
// timestamps and similar layouts are all accepted. Ambiguous day/month
// orders are read month-first unless that yields an invalid month, in which
// case the fields are swapped ("15/01/2024" -> 2024-01-15).
//
// Layouts dateparse does not recognize are tried next: dotted day-first
// dates ("15.01.2024") and dates led by a weekday name
// ("Monday, January 15, 2024").
//
// Only string values are accepted; missing and non-string values fail.
func ParseDate(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", newValidationError("date", value, fmt.Sprintf("expected a string, got %T", value), ErrInvalidDate)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", newValidationError("date", value, "value is empty", ErrInvalidDate)
	}

	t, ok := parseAnyDate(s)
	if !ok {
		return "", newValidationError("date", value, "unrecognized date format", ErrInvalidDate)
	}

	return t.Format(DateLayout), nil
}

// fallbackLayouts are tried in order when dateparse rejects a value.
var fallbackLayouts = []string{
	"2.1.2006",
	"2.1.06",
	"Monday, January 2, 2006",
	"Monday, 2 January 2006",
	"Mon, Jan 2, 2006",
	"Mon, 2 Jan 2006",
}

func parseAnyDate(s string) (time.Time, bool) {
	if t, err := dateparse.ParseAny(s, dateparse.RetryAmbiguousDateWithSwap(true)); err == nil {
		return t, true
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if rest, ok := stripWeekday(s); ok {
		if t, err := dateparse.ParseAny(rest, dateparse.RetryAmbiguousDateWithSwap(true)); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// stripWeekday removes a leading weekday name ("Monday", "Mon") and the
// separator after it.
func stripWeekday(s string) (string, bool) {
	end := strings.IndexAny(s, ", ")
	if end <= 0 {
		return "", false
	}

	word := strings.ToLower(strings.TrimSuffix(s[:end], "."))
	for day := time.Sunday; day <= time.Saturday; day++ {
		name := strings.ToLower(day.String())
		if word == name || word == name[:3] {
			return strings.TrimLeft(s[end:], ", "), true
		}
	}

	return "", false
}
