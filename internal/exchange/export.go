package exchange

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"

	"github.com/tartampluch/go-contacts/internal/book"
	"github.com/tartampluch/go-contacts/internal/config"
)

// Export writes every record as a vCard 4.0 to the given path.
// Returns the number of cards written.
func (s *Service) Export(path string) (int, error) {
	var buf bytes.Buffer
	count, err := s.WriteVCards(&buf)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), config.FilePermUserRWGroupR); err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrExportFile, err)
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompExchange,
		config.LogKeyFile, path,
		config.LogKeyCount, count,
	)
	return count, nil
}

// WriteVCards encodes the book's records onto w in iteration order.
func (s *Service) WriteVCards(w io.Writer) (int, error) {
	enc := vcard.NewEncoder(w)
	count := 0
	for _, r := range s.Book.All() {
		card := make(vcard.Card)
		card.SetValue(config.VCardFN, r.Name().String())
		for _, p := range r.Phones() {
			card.AddValue(config.VCardTEL, p.String())
		}
		if b := r.Birthday(); !b.IsZero() {
			// Components are formatted directly: a lenient-scheme birthday
			// may not name a real calendar day and must round-trip as-is.
			card.SetValue(config.VCardBDAY,
				fmt.Sprintf("%04d-%02d-%02d", b.Year(), int(b.Month()), b.Day()))
		}
		vcard.ToV4(card)
		if err := enc.Encode(card); err != nil {
			return 0, fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
		count++
	}
	return count, nil
}

// Calendar writes an iCalendar feed with one full-day VEVENT per stored
// birthday at its effective congratulation date, to the given path.
// Returns the number of events written.
func (s *Service) Calendar(path string) (int, error) {
	var buf bytes.Buffer
	count, err := s.WriteCalendar(&buf)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), config.FilePermUserRWGroupR); err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrExportFile, err)
	}

	slog.Info(config.MsgCalendarDone,
		config.LogKeyComponent, config.CompExchange,
		config.LogKeyFile, path,
		config.LogKeyCount, count,
	)
	return count, nil
}

// WriteCalendar encodes the birthday calendar onto w. An empty book (or one
// without birthdays) yields a minimal valid VCALENDAR stub so clients do not
// flag the feed as invalid.
func (s *Service) WriteCalendar(w io.Writer) (int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// Birthdays are defined by the local calendar date; only the DTSTAMP is
	// converted to UTC.
	now := s.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	count := 0
	for _, r := range s.Book.All() {
		b := r.Birthday()
		if b.IsZero() {
			continue
		}

		name := r.Name().String()
		eventDate := book.EffectiveDate(now, b)

		// Deterministic UID generation for stability across exports.
		input := fmt.Sprintf(config.FormatHashInput, name, eventDate.Format(time.RFC3339), config.UIDSalt)
		hash := sha256.Sum256([]byte(input))
		uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

		summary := fmt.Sprintf(config.FormatEventSummary, name)

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID,
			fmt.Sprintf(config.FormatUID, uidBase, eventDate.Year(), config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		if s.Trigger != "" {
			addAlarm(event, s.Trigger, summary)
		}

		cal.Children = append(cal.Children, event.Component)
		count++
	}

	if count == 0 {
		if _, err := io.WriteString(w, config.StubVCalendar); err != nil {
			return 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
		}
		return 0, nil
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return count, nil
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
