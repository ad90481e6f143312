package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordWithPhone(t *testing.T, name, phone string) *Record {
	t.Helper()
	r := NewRecord(mustName(t, name), Birthday{})
	r.AddPhone(mustPhone(t, phone))
	return r
}

func TestAddressBook_Upsert(t *testing.T) {
	ab := New()

	ab.Upsert(newRecordWithPhone(t, "Mia", "1234567890"))
	ab.Upsert(newRecordWithPhone(t, "Ben", "1111111111"))
	require.Equal(t, 2, ab.Len())

	// Overwriting an existing key is silent and keeps its iteration position.
	ab.Upsert(newRecordWithPhone(t, "Mia", "9999999999"))
	require.Equal(t, 2, ab.Len())

	all := ab.All()
	assert.Equal(t, "Mia", all[0].Name().String(), "overwritten key must keep its position")
	assert.Equal(t, "Mia: 9999999999", all[0].String())
	assert.Equal(t, "Ben", all[1].Name().String())
}

func TestAddressBook_InsertUnique(t *testing.T) {
	ab := New()

	require.NoError(t, ab.InsertUnique(newRecordWithPhone(t, "Mia", "1234567890")))

	err := ab.InsertUnique(newRecordWithPhone(t, "Mia", "9999999999"))
	assert.ErrorIs(t, err, ErrDuplicateContact)

	// The original record is untouched.
	r, ok := ab.Find("Mia")
	require.True(t, ok)
	assert.Equal(t, "Mia: 1234567890", r.String())
}

func TestAddressBook_Find(t *testing.T) {
	ab := New()
	ab.Upsert(newRecordWithPhone(t, "Mia", "1234567890"))

	r, ok := ab.Find("Mia")
	require.True(t, ok)
	assert.Equal(t, "Mia: 1234567890", r.String())

	_, ok = ab.Find("Ben")
	assert.False(t, ok)

	// Lookup is exact, not case-insensitive.
	_, ok = ab.Find("mia")
	assert.False(t, ok)
}

func TestAddressBook_Delete(t *testing.T) {
	ab := New()
	ab.Upsert(newRecordWithPhone(t, "Mia", "1234567890"))
	ab.Upsert(newRecordWithPhone(t, "Ben", "1111111111"))

	require.NoError(t, ab.Delete("Mia"))
	assert.Equal(t, 1, ab.Len())
	_, ok := ab.Find("Mia")
	assert.False(t, ok)

	// Deleting an absent key is an error, not a silent no-op.
	assert.ErrorIs(t, ab.Delete("Mia"), ErrContactNotFound)

	// Iteration order no longer contains the removed key.
	all := ab.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Ben", all[0].Name().String())
}

func TestAddressBook_FindPhoneOwner(t *testing.T) {
	ab := New()
	ab.Upsert(newRecordWithPhone(t, "Mia", "1234567890"))
	ab.Upsert(newRecordWithPhone(t, "Ben", "1111111111"))

	owner, ok := ab.FindPhoneOwner("1234567890")
	require.True(t, ok)
	assert.Equal(t, "Mia", owner.Name().String())

	// After removal the relation no longer holds.
	require.NoError(t, owner.RemovePhone("1234567890"))
	_, ok = ab.FindPhoneOwner("1234567890")
	assert.False(t, ok)

	_, ok = ab.FindPhoneOwner("0000000000")
	assert.False(t, ok)
}

func TestAddressBook_FindPhoneOwner_FirstInIterationOrder(t *testing.T) {
	ab := New()
	ab.Upsert(newRecordWithPhone(t, "Mia", "1234567890"))
	ab.Upsert(newRecordWithPhone(t, "Ben", "1234567890")) // same phone on two contacts

	owner, ok := ab.FindPhoneOwner("1234567890")
	require.True(t, ok)
	assert.Equal(t, "Mia", owner.Name().String(), "scan must return the first owner in iteration order")
}

func TestAddressBook_String(t *testing.T) {
	ab := New()
	assert.Equal(t, "", ab.String())

	ab.Upsert(newRecordWithPhone(t, "Mia", "1234567890"))
	ab.Upsert(newRecordWithPhone(t, "Ben", "1111111111"))

	assert.Equal(t, "Mia: 1234567890\nBen: 1111111111", ab.String())
}
