package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEffectiveDate verifies the congratulation-date projection: roll-forward
// past years already elapsed and past weekends.
func TestEffectiveDate(t *testing.T) {
	// Reference "Now": Monday, June 10th, 2024.
	now := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		birthday string
		expected time.Time
		desc     string
	}{
		{
			name:     "Weekday this year",
			birthday: "1990-06-12",
			expected: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
			desc:     "June 12th 2024 is a Wednesday, no adjustment",
		},
		{
			name:     "Saturday rolls to Monday",
			birthday: "1990-06-15",
			expected: time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
			desc:     "June 15th 2024 is a Saturday, advance 2 days",
		},
		{
			name:     "Sunday rolls to Monday",
			birthday: "1990-06-16",
			expected: time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
			desc:     "June 16th 2024 is a Sunday, advance 1 day",
		},
		{
			name:     "Birthday today",
			birthday: "1990-06-10",
			expected: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			desc:     "Today counts as the current occurrence, not next year",
		},
		{
			name:     "Already passed this year",
			birthday: "1990-01-05",
			expected: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			desc:     "Jan 5th 2025 is a Sunday, so next year plus weekend roll",
		},
		{
			name:     "Leap day in non-leap year normalizes",
			birthday: "2000-02-29",
			expected: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
			desc:     "Feb 29 2025 normalizes to Mar 1, a Saturday, rolled to Mar 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBirthday(t, tt.birthday, SchemeLenient)
			assert.Equal(t, tt.expected, EffectiveDate(now, b), tt.desc)
		})
	}
}

// TestEffectiveDate_Deterministic confirms the projection is a pure function
// and never mutates the stored birthday.
func TestEffectiveDate_Deterministic(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)
	b := mustBirthday(t, "1990-06-15", SchemeLenient)

	first := EffectiveDate(now, b)
	second := EffectiveDate(now, b)

	assert.Equal(t, first, second)
	assert.Equal(t, "1990-06-15", b.String(), "projection must not mutate stored state")
}

func TestUpcomingBirthdays(t *testing.T) {
	// Reference "Now": Monday, June 10th, 2024.
	now := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

	add := func(ab *AddressBook, name, birthday string) {
		t.Helper()
		var b Birthday
		if birthday != "" {
			b = mustBirthday(t, birthday, SchemeLenient)
		}
		r := NewRecord(mustName(t, name), b)
		r.AddPhone(mustPhone(t, "1234567890"))
		ab.Upsert(r)
	}

	t.Run("Weekend case inside window", func(t *testing.T) {
		ab := New()
		add(ab, "Mia", "1990-06-15") // Saturday -> Monday June 17th, 7 days out

		greetings := ab.UpcomingBirthdays(now)
		require.Len(t, greetings, 1)
		assert.Equal(t, "Mia", greetings[0].Name)
		assert.Equal(t, time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC), greetings[0].Date)
	})

	t.Run("Weekday case inside window", func(t *testing.T) {
		ab := New()
		add(ab, "Ben", "1985-06-13") // Thursday, no roll

		greetings := ab.UpcomingBirthdays(now)
		require.Len(t, greetings, 1)
		assert.Equal(t, time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), greetings[0].Date)
	})

	t.Run("Window boundaries inclusive", func(t *testing.T) {
		ab := New()
		add(ab, "Today", "1990-06-10")    // effective today: 0 days
		add(ab, "Edge", "1990-06-17")     // Monday, exactly 7 days
		add(ab, "TooFar", "1990-06-18")   // Tuesday, 8 days, excluded
		add(ab, "NoBirthday", "")         // skipped entirely

		greetings := ab.UpcomingBirthdays(now)
		require.Len(t, greetings, 2)
		assert.Equal(t, "Today", greetings[0].Name)
		assert.Equal(t, "Edge", greetings[1].Name)
	})

	t.Run("Output follows iteration order without sorting", func(t *testing.T) {
		ab := New()
		add(ab, "Later", "1990-06-16") // Sunday -> June 17th
		add(ab, "Sooner", "1990-06-11")

		greetings := ab.UpcomingBirthdays(now)
		require.Len(t, greetings, 2)
		assert.Equal(t, "Later", greetings[0].Name, "no secondary sort is applied")
		assert.Equal(t, "Sooner", greetings[1].Name)
	})

	t.Run("Empty book", func(t *testing.T) {
		assert.Empty(t, New().UpcomingBirthdays(now))
	})
}

// TestUpcomingBirthdays_DSTTransition pins the window to calendar days when a
// daylight-saving switch falls inside the span. In America/New_York the 2024
// spring-forward happens on March 10th, so the eight days from March 5th to
// March 13th last only 191 hours; an hour-based count would round that down
// to 7 and wrongly admit the birthday.
func TestUpcomingBirthdays_DSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Reference "Now": Tuesday, March 5th, 2024, local time.
	now := time.Date(2024, 3, 5, 9, 30, 0, 0, loc)

	ab := New()
	inside := NewRecord(mustName(t, "Inside"), mustBirthday(t, "1990-03-12", SchemeLenient))
	ab.Upsert(inside) // Tuesday March 12th, exactly 7 days
	beyond := NewRecord(mustName(t, "Beyond"), mustBirthday(t, "1990-03-13", SchemeLenient))
	ab.Upsert(beyond) // Wednesday March 13th, 8 days, excluded

	greetings := ab.UpcomingBirthdays(now)
	require.Len(t, greetings, 1)
	assert.Equal(t, "Inside", greetings[0].Name)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, loc), greetings[0].Date)
}

// TestUpcomingBirthdays_FixedZone checks the window in a non-UTC location:
// effective dates stay anchored to local midnight in now's zone.
func TestUpcomingBirthdays_FixedZone(t *testing.T) {
	loc := time.FixedZone("UTC+11", 11*60*60)
	// Monday, June 10th 2024, late evening local time; the same instant is
	// still June 10th morning in UTC.
	now := time.Date(2024, 6, 10, 23, 30, 0, 0, loc)

	ab := New()
	r := NewRecord(mustName(t, "Mia"), mustBirthday(t, "1990-06-15", SchemeLenient))
	ab.Upsert(r) // local Saturday, rolled to Monday June 17th

	greetings := ab.UpcomingBirthdays(now)
	require.Len(t, greetings, 1)
	assert.Equal(t, time.Date(2024, 6, 17, 0, 0, 0, 0, loc), greetings[0].Date)
}
