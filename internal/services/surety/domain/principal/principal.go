// Package principal defines caller identities and value amounts.
//
// A Principal is an opaque, already-authenticated identity. The core never
// interprets it beyond equality, so any non-empty string is accepted.
package principal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPrincipalRequired indicates an empty identity.
var ErrPrincipalRequired = errors.New("principal is required")

// Principal identifies a caller.
type Principal string

// Parse trims and validates a principal.
func Parse(value string) (Principal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrPrincipalRequired
	}
	return Principal(value), nil
}

// IsZero reports whether the principal is empty.
func (p Principal) IsZero() bool {
	return p == ""
}

// String returns the principal as text.
func (p Principal) String() string {
	return string(p)
}

// Amount is a quantity of value in base units.
type Amount uint64

// Unit is the number of base units in one value-unit.
const Unit Amount = 1_000_000_000

// Units returns n whole value-units.
func Units(n uint64) Amount {
	return Amount(n) * Unit
}

// Add returns a+b and false on overflow.
func (a Amount) Add(b Amount) (Amount, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// String renders the amount in value-units with up to nine decimals,
// trailing zeros trimmed ("1.5", "10", "0.000000001").
func (a Amount) String() string {
	whole := uint64(a / Unit)
	frac := uint64(a % Unit)
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fracText := strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	return strconv.FormatUint(whole, 10) + "." + fracText
}

// ParseAmount parses a base-unit integer.
func ParseAmount(value string) (Amount, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return Amount(n), nil
}

// ParseUnits parses a decimal value-unit string such as "1.5".
func ParseUnits(value string) (Amount, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("amount is required")
	}
	wholeText, fracText, hasFrac := strings.Cut(value, ".")
	whole, err := strconv.ParseUint(wholeText, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse units %q: %w", value, err)
	}
	var frac uint64
	if hasFrac {
		if fracText == "" || len(fracText) > 9 {
			return 0, fmt.Errorf("parse units %q: at most nine decimals", value)
		}
		frac, err = strconv.ParseUint(fracText+strings.Repeat("0", 9-len(fracText)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse units %q: %w", value, err)
		}
	}
	if whole > uint64(^Amount(0)/Unit) {
		return 0, fmt.Errorf("parse units %q: overflow", value)
	}
	total, ok := (Amount(whole) * Unit).Add(Amount(frac))
	if !ok {
		return 0, fmt.Errorf("parse units %q: overflow", value)
	}
	return total, nil
}
