package book

import (
	"fmt"
	"strings"
)

// AddressBook is the keyed collection of Records. Keys are name strings,
// unique; iteration follows key insertion order. Not safe for concurrent use.
type AddressBook struct {
	records map[string]*Record
	order   []string
}

// New returns an empty AddressBook.
func New() *AddressBook {
	return &AddressBook{records: make(map[string]*Record)}
}

// Len returns the number of stored records.
func (ab *AddressBook) Len() int { return len(ab.records) }

// Upsert stores the record, silently overwriting any record under the same
// key. An overwritten key keeps its original position in iteration order.
func (ab *AddressBook) Upsert(r *Record) {
	key := r.name.value
	if _, ok := ab.records[key]; !ok {
		ab.order = append(ab.order, key)
	}
	ab.records[key] = r
}

// InsertUnique stores the record, rejecting an existing key.
func (ab *AddressBook) InsertUnique(r *Record) error {
	key := r.name.value
	if _, ok := ab.records[key]; ok {
		return fmt.Errorf("%q: %w", key, ErrDuplicateContact)
	}
	ab.order = append(ab.order, key)
	ab.records[key] = r
	return nil
}

// Find looks up a record by exact name.
func (ab *AddressBook) Find(name string) (*Record, bool) {
	r, ok := ab.records[name]
	return r, ok
}

// Delete removes the record under the given name.
func (ab *AddressBook) Delete(name string) error {
	if _, ok := ab.records[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrContactNotFound)
	}
	delete(ab.records, name)
	for i, key := range ab.order {
		if key == name {
			ab.order = append(ab.order[:i], ab.order[i+1:]...)
			break
		}
	}
	return nil
}

// FindPhoneOwner scans records in iteration order and returns the first one
// whose phone list contains the given value. The phone-to-owner relation is
// recomputed on each call, never indexed.
func (ab *AddressBook) FindPhoneOwner(value string) (*Record, bool) {
	for _, key := range ab.order {
		if _, ok := ab.records[key].FindPhone(value); ok {
			return ab.records[key], true
		}
	}
	return nil, false
}

// All returns the records in iteration order.
func (ab *AddressBook) All() []*Record {
	out := make([]*Record, 0, len(ab.order))
	for _, key := range ab.order {
		out = append(out, ab.records[key])
	}
	return out
}

// String joins all records' string forms with newlines.
func (ab *AddressBook) String() string {
	lines := make([]string, 0, len(ab.order))
	for _, key := range ab.order {
		lines = append(lines, ab.records[key].String())
	}
	return strings.Join(lines, "\n")
}
