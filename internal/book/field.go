package book

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-contacts/internal/config"
)

// Name identifies a Record and keys the AddressBook. Immutable once
// constructed; always non-empty in memory — use ParseName to construct.
type Name struct {
	value string
}

// ParseName validates a raw name. The only constraint is non-emptiness.
func ParseName(raw string) (Name, error) {
	if raw == "" {
		return Name{}, fmt.Errorf("%w", ErrEmptyName)
	}
	return Name{value: raw}, nil
}

func (n Name) String() string { return n.value }

// Phone is a value object holding exactly 10 ASCII digits.
// Always valid in memory — use ParsePhone to construct.
type Phone struct {
	value string
}

// ParsePhone validates a raw phone number against the fixed 10-digit scheme.
func ParsePhone(raw string) (Phone, error) {
	if len(raw) != config.PhoneLength {
		return Phone{}, fmt.Errorf("%q: %w", raw, ErrInvalidPhone)
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return Phone{}, fmt.Errorf("%q: %w", raw, ErrInvalidPhone)
		}
	}
	return Phone{value: raw}, nil
}

func (p Phone) String() string { return p.value }

// DateScheme selects how birthday text is parsed and rendered. A single
// scheme is active for a whole run; the two are never mixed.
type DateScheme int

const (
	// SchemeLenient accepts YYYY-MM-DD with per-component range checks only
	// (month 1-12, day 1-31). Day 31 in February passes. Empty input is the
	// distinguished "no birthday" value, not an error.
	SchemeLenient DateScheme = iota

	// SchemeStrict requires a real calendar date in DD.MM.YYYY form. Empty
	// input is rejected.
	SchemeStrict
)

// SchemeFromString maps a configuration value to a DateScheme.
// Unknown values fall back to the lenient scheme.
func SchemeFromString(s string) DateScheme {
	if s == config.DateSchemeStrict {
		return SchemeStrict
	}
	return SchemeLenient
}

// Birthday is a calendar date stored as raw components. Components are kept
// as entered: under the lenient scheme the day/month pair may not name a real
// calendar day, and time.Date normalization is applied only when projecting
// occurrences.
type Birthday struct {
	year   int
	month  int
	day    int
	scheme DateScheme
}

// ParseBirthday parses raw birthday text under the given scheme.
func ParseBirthday(raw string, scheme DateScheme) (Birthday, error) {
	switch scheme {
	case SchemeStrict:
		t, err := time.Parse(config.DateLayoutStrict, raw)
		if err != nil {
			return Birthday{}, fmt.Errorf("%q: %w", raw, ErrInvalidDate)
		}
		return Birthday{year: t.Year(), month: int(t.Month()), day: t.Day(), scheme: scheme}, nil
	default:
		if raw == "" {
			return Birthday{}, nil
		}
		parts := strings.Split(raw, "-")
		if len(parts) != 3 {
			return Birthday{}, fmt.Errorf("%q: %w", raw, ErrInvalidDate)
		}
		nums := make([]int, 3)
		for i, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return Birthday{}, fmt.Errorf("%q: %w", raw, ErrInvalidDate)
			}
			nums[i] = n
		}
		year, month, day := nums[0], nums[1], nums[2]
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return Birthday{}, fmt.Errorf("%q: %w", raw, ErrInvalidDate)
		}
		return Birthday{year: year, month: month, day: day, scheme: scheme}, nil
	}
}

// BirthdayFromDate builds a Birthday from a calendar date, rendered under the
// given scheme. Used by importers that parse dates outside the two REPL
// encodings.
func BirthdayFromDate(t time.Time, scheme DateScheme) Birthday {
	return Birthday{year: t.Year(), month: int(t.Month()), day: t.Day(), scheme: scheme}
}

// IsZero reports whether the Birthday is absent.
func (b Birthday) IsZero() bool { return b.month == 0 }

// Month returns the stored month component.
func (b Birthday) Month() time.Month { return time.Month(b.month) }

// Day returns the stored day component.
func (b Birthday) Day() int { return b.day }

// Year returns the stored year component.
func (b Birthday) Year() int { return b.year }

// String renders the date in the textual encoding it was parsed from.
func (b Birthday) String() string {
	if b.IsZero() {
		return ""
	}
	if b.scheme == SchemeStrict {
		return fmt.Sprintf("%02d.%02d.%04d", b.day, b.month, b.year)
	}
	return fmt.Sprintf("%04d-%02d-%02d", b.year, b.month, b.day)
}
