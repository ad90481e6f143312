// Package dispatch maps parsed command lines onto address-book operations.
// It owns no state beyond the injected collaborators and renders every core
// failure as a one-line reply; a failing command never ends the loop.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-contacts/internal/book"
	"github.com/tartampluch/go-contacts/internal/config"
)

// ErrInvalidArguments reports a token/argument-count mismatch. It is detected
// before any core operation is invoked and wrapped with the expected usage.
var ErrInvalidArguments = errors.New("invalid arguments")

// Exchanger is the import/export surface the dispatcher drives. Implemented
// by exchange.Service; mocked in tests.
type Exchanger interface {
	Import(ctx context.Context, pathOverride string) (imported, skipped int, err error)
	Export(path string) (int, error)
	Calendar(path string) (int, error)
}

// Dispatcher routes command lines to the core. The address book is injected
// so tests construct isolated instances.
type Dispatcher struct {
	Book     *book.AddressBook
	Clock    book.Clock
	Scheme   book.DateScheme
	Policy   string // config.AddPolicyUpsert or config.AddPolicyUnique
	Exchange Exchanger
}

// New wires a Dispatcher from settings.
func New(ab *book.AddressBook, clock book.Clock, s *config.Settings, ex Exchanger) *Dispatcher {
	return &Dispatcher{
		Book:     ab,
		Clock:    clock,
		Scheme:   book.SchemeFromString(s.DateScheme),
		Policy:   s.AddPolicy,
		Exchange: ex,
	}
}

// command describes one recognized token.
type command struct {
	minArgs int
	maxArgs int
	usage   string
	run     func(d *Dispatcher, ctx context.Context, args []string) (string, error)
}

var commands = map[string]command{
	config.CmdHello: {0, 0, config.CmdHello, func(*Dispatcher, context.Context, []string) (string, error) {
		return config.ReplyHello, nil
	}},
	config.CmdAdd:         {2, 3, config.UsageAdd, (*Dispatcher).addContact},
	config.CmdChange:      {3, 3, config.UsageChange, (*Dispatcher).changeContact},
	config.CmdPhone:       {1, 1, config.UsagePhone, (*Dispatcher).showPhone},
	config.CmdAll:         {0, 0, config.CmdAll, (*Dispatcher).showAll},
	config.CmdRemovePhone: {2, 2, config.UsageRemovePhone, (*Dispatcher).removePhone},
	config.CmdFindPhone:   {1, 1, config.UsageFindPhone, (*Dispatcher).findPhone},
	config.CmdAddBirthday: {2, 2, config.UsageAddBirthday, (*Dispatcher).addBirthday},
	config.CmdBirthdays:   {0, 0, config.CmdBirthdays, (*Dispatcher).showBirthdays},
	config.CmdDelete:      {1, 1, config.UsageDelete, (*Dispatcher).deleteContact},
	config.CmdImport:      {0, 1, config.UsageImport, (*Dispatcher).importCards},
	config.CmdExport:      {1, 1, config.UsageExport, (*Dispatcher).exportCards},
	config.CmdCalendar:    {1, 1, config.UsageCalendar, (*Dispatcher).writeCalendar},
	config.CmdHelp: {0, 0, config.CmdHelp, func(*Dispatcher, context.Context, []string) (string, error) {
		return helpText(), nil
	}},
}

// Execute parses one line and runs the matching command. The returned quit
// flag is true only for close/exit. Blank lines yield an empty reply.
func (d *Dispatcher) Execute(ctx context.Context, line string) (reply string, quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false, nil
	}
	token := strings.ToLower(fields[0])
	args := fields[1:]

	if token == config.CmdClose || token == config.CmdExit {
		return config.ReplyGoodbye, true, nil
	}

	cmd, ok := commands[token]
	if !ok {
		return config.ReplyUnknownCommand, false, nil
	}
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		return "", false, fmt.Errorf("%w: expected: %s", ErrInvalidArguments, cmd.usage)
	}

	slog.Debug("Dispatching command",
		config.LogKeyComponent, config.CompDispatch,
		config.LogKeyCommand, token,
	)
	reply, err = cmd.run(d, ctx, args)
	return reply, false, err
}

// addContact implements "add". Under the upsert policy an existing contact
// gains an extra phone; under the unique policy an existing key is rejected.
func (d *Dispatcher) addContact(_ context.Context, args []string) (string, error) {
	name, err := book.ParseName(args[0])
	if err != nil {
		return "", err
	}
	phone, err := book.ParsePhone(args[1])
	if err != nil {
		return "", err
	}
	birthday := book.Birthday{}
	if len(args) == 3 {
		birthday, err = book.ParseBirthday(args[2], d.Scheme)
		if err != nil {
			return "", err
		}
	}

	if existing, ok := d.Book.Find(name.String()); ok {
		if d.Policy == config.AddPolicyUnique {
			return "", fmt.Errorf("%q: %w", name.String(), book.ErrDuplicateContact)
		}
		existing.AddPhone(phone)
		if !birthday.IsZero() {
			existing.SetBirthday(birthday)
		}
		return fmt.Sprintf(config.ReplyContactAdded, name), nil
	}

	r := book.NewRecord(name, birthday)
	r.AddPhone(phone)
	if d.Policy == config.AddPolicyUnique {
		if err := d.Book.InsertUnique(r); err != nil {
			return "", err
		}
	} else {
		d.Book.Upsert(r)
	}
	return fmt.Sprintf(config.ReplyContactAdded, name), nil
}

func (d *Dispatcher) changeContact(_ context.Context, args []string) (string, error) {
	name, oldValue, newValue := args[0], args[1], args[2]
	r, ok := d.Book.Find(name)
	if !ok {
		return "", fmt.Errorf("%q: %w", name, book.ErrContactNotFound)
	}
	if err := r.EditPhone(oldValue, newValue); err != nil {
		return "", err
	}
	return fmt.Sprintf(config.ReplyContactUpdated, name), nil
}

func (d *Dispatcher) showPhone(_ context.Context, args []string) (string, error) {
	r, ok := d.Book.Find(args[0])
	if !ok {
		return "", fmt.Errorf("%q: %w", args[0], book.ErrContactNotFound)
	}
	return r.String(), nil
}

func (d *Dispatcher) showAll(_ context.Context, _ []string) (string, error) {
	if d.Book.Len() == 0 {
		return config.ReplyNoContacts, nil
	}
	return d.Book.String(), nil
}

// removePhone replies with a not-found message for a missing contact instead
// of failing; a missing phone on an existing contact is a typed error.
func (d *Dispatcher) removePhone(_ context.Context, args []string) (string, error) {
	name, value := args[0], args[1]
	r, ok := d.Book.Find(name)
	if !ok {
		return fmt.Sprintf(config.ReplyContactMissing, name), nil
	}
	if err := r.RemovePhone(value); err != nil {
		return "", err
	}
	return fmt.Sprintf(config.ReplyPhoneRemoved, value, name), nil
}

func (d *Dispatcher) findPhone(_ context.Context, args []string) (string, error) {
	value := args[0]
	if owner, ok := d.Book.FindPhoneOwner(value); ok {
		return fmt.Sprintf(config.ReplyPhoneOwner, value, owner.Name()), nil
	}
	return fmt.Sprintf(config.ReplyPhoneUnknown, value), nil
}

// addBirthday validates the date first: a bad date is an error even when the
// contact is missing, and a missing contact is a reply, never a new record.
func (d *Dispatcher) addBirthday(_ context.Context, args []string) (string, error) {
	name, raw := args[0], args[1]
	birthday, err := book.ParseBirthday(raw, d.Scheme)
	if err != nil {
		return "", err
	}
	r, ok := d.Book.Find(name)
	if !ok {
		return fmt.Sprintf(config.ReplyContactMissing, name), nil
	}
	r.SetBirthday(birthday)
	return fmt.Sprintf(config.ReplyBirthdaySet, name), nil
}

func (d *Dispatcher) showBirthdays(_ context.Context, _ []string) (string, error) {
	greetings := d.Book.UpcomingBirthdays(d.Clock.Now())
	if len(greetings) == 0 {
		return config.ReplyNoBirthdays, nil
	}
	lines := make([]string, len(greetings))
	for i, g := range greetings {
		lines[i] = g.Name + ": " + g.Date.Format(config.DateLayoutDisplay)
	}
	return strings.Join(lines, "\n"), nil
}

func (d *Dispatcher) deleteContact(_ context.Context, args []string) (string, error) {
	if err := d.Book.Delete(args[0]); err != nil {
		return "", err
	}
	return fmt.Sprintf(config.ReplyContactDeleted, args[0]), nil
}

func (d *Dispatcher) importCards(ctx context.Context, args []string) (string, error) {
	override := ""
	if len(args) == 1 {
		override = args[0]
	}
	imported, skipped, err := d.Exchange.Import(ctx, override)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(config.ReplyImported, imported, skipped), nil
}

func (d *Dispatcher) exportCards(_ context.Context, args []string) (string, error) {
	count, err := d.Exchange.Export(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(config.ReplyExported, count, args[0]), nil
}

func (d *Dispatcher) writeCalendar(_ context.Context, args []string) (string, error) {
	count, err := d.Exchange.Calendar(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(config.ReplyCalendarWritten, count, args[0]), nil
}

func helpText() string {
	lines := []string{
		config.CmdHello,
		config.UsageAdd,
		config.UsageChange,
		config.UsagePhone,
		config.CmdAll,
		config.UsageRemovePhone,
		config.UsageFindPhone,
		config.UsageAddBirthday,
		config.CmdBirthdays,
		config.UsageDelete,
		config.UsageImport,
		config.UsageExport,
		config.UsageCalendar,
		config.CmdClose + " | " + config.CmdExit,
	}
	return strings.Join(lines, "\n")
}
