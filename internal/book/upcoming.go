package book

import (
	"time"

	"github.com/tartampluch/go-contacts/internal/config"
)

// Greeting pairs a contact name with its effective congratulation date.
type Greeting struct {
	Name string
	Date time.Time
}

// UpcomingBirthdays returns a greeting for each record whose effective
// congratulation date falls within the next seven days of now, inclusive of
// today. Output follows the book's iteration order; no secondary sort.
func (ab *AddressBook) UpcomingBirthdays(now time.Time) []Greeting {
	today := startOfDay(now)

	var out []Greeting
	for _, key := range ab.order {
		r := ab.records[key]
		if r.birthday.IsZero() {
			continue
		}
		eff := EffectiveDate(now, r.birthday)
		days := calendarDays(today, eff)
		if days < 0 || days > config.GreetingWindowDays {
			continue
		}
		out = append(out, Greeting{Name: r.name.value, Date: eff})
	}
	return out
}

// EffectiveDate computes the effective congratulation date for a birthday
// relative to now. The candidate is the birthday's occurrence in now's year,
// pushed to the next year when already past, and a weekend candidate advances
// to the following Monday (Saturday by 2 days, Sunday by 1).
//
// Pure function of (birthday, now); stored state is never mutated. Go's
// time.Date normalizes non-calendar day/month pairs accepted by the lenient
// scheme (Feb 31 lands in early March) and leap days in non-leap years.
func EffectiveDate(now time.Time, b Birthday) time.Time {
	loc := now.Location()
	today := startOfDay(now)

	candidate := time.Date(now.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	if candidate.Before(today) {
		candidate = time.Date(now.Year()+1, b.Month(), b.Day(), 0, 0, 0, 0, loc)
	}

	switch candidate.Weekday() {
	case time.Saturday:
		candidate = candidate.AddDate(0, 0, 2)
	case time.Sunday:
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// calendarDays counts whole calendar days from one date to another. Both
// dates are re-anchored at midnight UTC before subtracting so that a DST
// transition inside the span cannot shift the count: in a local zone a
// spring-forward day is only 23 hours long, which would make an hour-based
// division undercount the distance.
func calendarDays(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
