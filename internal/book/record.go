package book

import (
	"fmt"
	"strings"
)

// Record is one contact: an immutable name, an ordered list of phones, and an
// optional birthday. Phones keep insertion order and may contain duplicates;
// callers that want dedup check with FindPhone first.
type Record struct {
	name     Name
	phones   []Phone
	birthday Birthday
}

// NewRecord creates a Record with an empty phone list. A zero Birthday means
// the contact has none.
func NewRecord(name Name, birthday Birthday) *Record {
	return &Record{name: name, birthday: birthday}
}

// Name returns the record's immutable name.
func (r *Record) Name() Name { return r.name }

// Phones returns the stored phones in insertion order.
func (r *Record) Phones() []Phone { return r.phones }

// Birthday returns the stored birthday; check IsZero for absence.
func (r *Record) Birthday() Birthday { return r.birthday }

// AddPhone appends a phone. No dedup check is performed here.
func (r *Record) AddPhone(p Phone) {
	r.phones = append(r.phones, p)
}

// RemovePhone removes the first phone whose value equals the given string.
func (r *Record) RemovePhone(value string) error {
	for i, p := range r.phones {
		if p.value == value {
			r.phones = append(r.phones[:i], r.phones[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%q: %w", value, ErrPhoneNotFound)
}

// EditPhone replaces the first phone equal to oldValue with the validated
// newValue, in place. The phone keeps its position in the list.
func (r *Record) EditPhone(oldValue, newValue string) error {
	idx := -1
	for i, p := range r.phones {
		if p.value == oldValue {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%q: %w", oldValue, ErrPhoneNotFound)
	}
	p, err := ParsePhone(newValue)
	if err != nil {
		return err
	}
	r.phones[idx] = p
	return nil
}

// FindPhone returns the first phone equal to the given value.
func (r *Record) FindPhone(value string) (Phone, bool) {
	for _, p := range r.phones {
		if p.value == value {
			return p, true
		}
	}
	return Phone{}, false
}

// SetBirthday overwrites any existing birthday (add-or-update).
func (r *Record) SetBirthday(b Birthday) {
	r.birthday = b
}

// String renders "<name>: <comma-joined phones>", with a ", Birthday: <date>"
// suffix when a birthday is set.
func (r *Record) String() string {
	values := make([]string, len(r.phones))
	for i, p := range r.phones {
		values[i] = p.value
	}
	s := r.name.value + ": " + strings.Join(values, ", ")
	if !r.birthday.IsZero() {
		s += ", Birthday: " + r.birthday.String()
	}
	return s
}
