// Package exchange moves contacts between the in-memory address book and
// standard interchange formats: vCard streams on import/export and an
// iCalendar feed of birthday events.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-contacts/internal/book"
	"github.com/tartampluch/go-contacts/internal/config"
)

// Service is the import/export engine. It reads and writes interchange
// formats; the address book itself stays in memory and is never persisted.
type Service struct {
	Book    *book.AddressBook
	Clock   book.Clock        // Interface for time mocking.
	Scheme  book.DateScheme   // Rendering scheme for imported birthdays.
	Fetcher VCardFetcher      // Interface for network abstraction.
	Source  config.ImportSettings
	Trigger string // ISO8601 duration for calendar reminders (e.g. "-P1D").
}

// Import reads a vCard stream and merges the cards into the book. A non-empty
// pathOverride forces a local file regardless of the configured source.
// Malformed cards, unparseable dates, and non-conforming phone values are
// skipped with a log entry to maximize data recovery; they never abort the
// run. Returns the number of contacts merged and the number of cards skipped.
func (s *Service) Import(ctx context.Context, pathOverride string) (int, int, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompExchange,
		config.LogKeyMode, s.Source.Mode,
	)
	log.Info(config.MsgImportStarted)

	reader, err := s.acquireStream(ctx, pathOverride)
	if err != nil {
		if ctx.Err() != nil {
			return 0, 0, ctx.Err()
		}
		return 0, 0, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	// Best effort close. Errors in Close() for read-only files are rarely actionable here.
	defer func() { _ = reader.Close() }()

	imported, skipped, err := s.mergeCards(ctx, reader)
	if err != nil {
		return 0, 0, err
	}

	log.Info(config.MsgImportDone,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyImported, imported),
			slog.Int(config.LogKeySkipped, skipped),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return imported, skipped, nil
}

// acquireStream opens the appropriate data source.
func (s *Service) acquireStream(ctx context.Context, pathOverride string) (io.ReadCloser, error) {
	if pathOverride != "" {
		return os.Open(pathOverride)
	}
	switch s.Source.Mode {
	case config.SourceModeLocal:
		if s.Source.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(s.Source.LocalPath)
	case config.SourceModeWeb:
		if s.Source.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if s.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return s.Fetcher.Fetch(ctx, s.Source.WebURL, s.Source.WebUser, s.webPassword())
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, s.Source.Mode)
	}
}

// webPassword looks the basic-auth password up in the OS keyring. An absent
// entry is normal for servers without auth.
func (s *Service) webPassword() string {
	if s.Source.WebUser == "" {
		return ""
	}
	pass, err := keyring.Get(config.KeyringService, s.Source.WebUser)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompExchange,
			config.LogKeyUser, s.Source.WebUser,
		)
		return ""
	}
	return pass
}

// mergeCards decodes the stream and folds each card into the book.
func (s *Service) mergeCards(ctx context.Context, r io.Reader) (int, int, error) {
	decoder := vcard.NewDecoder(r)
	imported, skipped := 0, 0

	for {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompExchange,
				config.LogKeyError, err)
			skipped++
			continue
		}

		if s.mergeCard(card) {
			imported++
		} else {
			skipped++
		}
	}
	return imported, skipped, nil
}

// mergeCard converts one card into a record, or merges it into an existing
// one. Cards without a usable name or at least one conforming phone are
// rejected.
func (s *Service) mergeCard(card vcard.Card) bool {
	// Name Strategy: FN (Formatted) > N (Structured), no fallback — an
	// unnamed card cannot be keyed.
	var rawName string
	if fn := card.Get(config.VCardFN); fn != nil {
		rawName = fn.Value
	} else if n := card.Get(config.VCardN); n != nil {
		rawName = n.Value
	}
	name, err := book.ParseName(rawName)
	if err != nil {
		slog.Warn(config.MsgSkippedCard,
			config.LogKeyComponent, config.CompExchange,
			config.LogKeyError, err)
		return false
	}

	var phones []book.Phone
	for _, f := range card[config.VCardTEL] {
		p, err := book.ParsePhone(sanitizePhone(f.Value))
		if err != nil {
			slog.Warn(config.MsgSkippedPhone,
				config.LogKeyComponent, config.CompExchange,
				config.LogKeyName, name.String(),
				config.LogKeyValue, f.Value)
			continue
		}
		phones = append(phones, p)
	}
	if len(phones) == 0 {
		return false
	}

	birthday := book.Birthday{}
	if bday := card.Get(config.VCardBDAY); bday != nil && bday.Value != "" {
		if t, err := parseCardDate(bday.Value); err == nil {
			birthday = book.BirthdayFromDate(t, s.Scheme)
		} else {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompExchange,
				config.LogKeyValue, bday.Value)
		}
	}

	existing, ok := s.Book.Find(name.String())
	if !ok {
		r := book.NewRecord(name, birthday)
		for _, p := range phones {
			r.AddPhone(p)
		}
		s.Book.Upsert(r)
		return true
	}

	for _, p := range phones {
		if _, dup := existing.FindPhone(p.String()); !dup {
			existing.AddPhone(p)
		}
	}
	if !birthday.IsZero() && existing.Birthday().IsZero() {
		existing.SetBirthday(birthday)
	}
	return true
}

// sanitizePhone strips formatting characters commonly found in TEL values so
// that "(123) 456-7890" style inputs can meet the fixed 10-digit scheme.
func sanitizePhone(raw string) string {
	var b strings.Builder
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// parseCardDate handles various vCard BDAY formats.
func parseCardDate(value string) (time.Time, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, nil
		}
	}

	// Truncated dates (year unknown) - vCard specific. Safe leap year fallback.
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, errors.New(config.ErrDateParse)
}
