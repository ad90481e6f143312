package config

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Contacts/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Contacts"
	AppID          = "com.github.tartampluch.go-contacts"
	KeyringService = "com.github.tartampluch.go-contacts"
	LogFileName    = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// FilePermUserRWGroupR represents -rw-r--r--.
	// Used for exported vCard and calendar files.
	FilePermUserRWGroupR fs.FileMode = 0644

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	// Used for creating secure cache directories.
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagConfig       = "config"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescConfig   = "Path to the configuration YAML file"
	EnvConfigPath    = "CONFIG_PATH"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Policies & Schemes
// -----------------------------------------------------------------------------

const (
	// Duplicate-add policies for the top-level "add" command.
	AddPolicyUpsert = "upsert"
	AddPolicyUnique = "unique"

	// Birthday text encodings. The lenient scheme accepts YYYY-MM-DD with
	// per-component range checks only; the strict scheme requires a real
	// calendar date in DD.MM.YYYY form.
	DateSchemeLenient = "lenient"
	DateSchemeStrict  = "strict"

	SourceModeLocal = "local"
	SourceModeWeb   = "web"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts
	DateLayoutLenient = "2006-01-02"
	DateLayoutStrict  = "02.01.2006"
	DateLayoutDisplay = "2006-01-02"

	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// DefaultLeapYear is the fallback year for BDAY values like --02-29.
	DefaultLeapYear = 2000

	// Field constraints
	PhoneLength = 10

	// Upcoming-birthday window in days, inclusive on both ends.
	GreetingWindowDays = 7

	// UID Generation for exported calendar events
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
	UIDSalt         = "go-contacts-v1-"

	// File Extensions
	ExtVCF = ".vcf"
	ExtICS = ".ics"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Contacts//Exchange//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gocontacts"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"
	VCardTEL  = "TEL"

	FormatEventSummary = "Birthday: %s"

	// StubVCalendar is the minimal valid iCalendar object used when no events
	// are found. Keeps clients from flagging the exported feed as invalid.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout = 30 * time.Second

	// MaxVCardResponseSize caps a web import download. A vCard feed for a
	// personal address book is at most a few megabytes; anything larger is
	// not a contact file and gets truncated at this boundary.
	MaxVCardResponseSize = 16 * 1024 * 1024 // 16MB

	SchemeHTTP      = "http"
	SchemeHTTPS     = "https"
	HeaderUserAgent = "User-Agent"
)

// -----------------------------------------------------------------------------
// Command Tokens
// -----------------------------------------------------------------------------

const (
	CmdHello       = "hello"
	CmdAdd         = "add"
	CmdChange      = "change"
	CmdPhone       = "phone"
	CmdAll         = "all"
	CmdRemovePhone = "remove_phone"
	CmdFindPhone   = "find_phone"
	CmdAddBirthday = "add_birthday"
	CmdBirthdays   = "birthdays"
	CmdDelete      = "delete"
	CmdImport      = "import"
	CmdExport      = "export"
	CmdCalendar    = "calendar"
	CmdHelp        = "help"
	CmdClose       = "close"
	CmdExit        = "exit"
)

// -----------------------------------------------------------------------------
// Usage Strings
// -----------------------------------------------------------------------------

const (
	UsageAdd         = "add <name> <phone> [birthday]"
	UsageChange      = "change <name> <old_phone> <new_phone>"
	UsagePhone       = "phone <name>"
	UsageRemovePhone = "remove_phone <name> <phone>"
	UsageFindPhone   = "find_phone <phone>"
	UsageAddBirthday = "add_birthday <name> <birthday>"
	UsageDelete      = "delete <name>"
	UsageExport      = "export <path>"
	UsageCalendar    = "calendar <path>"
	UsageImport      = "import [path]"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty = "configuration error: local path is empty"
	ErrWebURLEmpty    = "configuration error: web URL is empty"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrModeUnsupport  = "configuration error: unsupported source mode"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrVCardEncode    = "failed to encode vCard data"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrConfigRead     = "cannot read configuration"
	ErrConfigInvalid  = "invalid configuration"
	ErrConfigMissing  = "config file does not exist"
	ErrDateParse      = "unable to parse date"
	ErrExportFile     = "failed to write export file"
	ErrReadInput      = "failed to read command input"
)

// -----------------------------------------------------------------------------
// Dispatcher Replies
// -----------------------------------------------------------------------------

const (
	ReplyHello           = "How can I help you?"
	ReplyGoodbye         = "Good bye!"
	ReplyUnknownCommand  = "Invalid command. Type 'help' for assistance."
	ReplyNoContacts      = "No contacts found."
	ReplyNoBirthdays     = "No upcoming birthdays."
	ReplyContactAdded    = "Contact %s added/updated."
	ReplyContactUpdated  = "Contact %s updated."
	ReplyContactDeleted  = "Contact %s deleted."
	ReplyBirthdaySet     = "Birthday for %s added/updated."
	ReplyContactMissing  = "Contact %s not found."
	ReplyPhoneRemoved    = "Phone number %s removed from contact %s."
	ReplyPhoneOwner      = "Phone number %s belongs to contact %s."
	ReplyPhoneUnknown    = "Phone number %s not found."
	ReplyImported        = "Imported %d contacts (%d cards skipped)."
	ReplyExported        = "Exported %d contacts to %s."
	ReplyCalendarWritten = "Calendar with %d events written to %s."
	Prompt               = "Enter a command: "
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgLoopStop      = "Command loop stopping"
	MsgImportStarted = "Import started..."
	MsgImportDone    = "Import successful"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgSkippedPhone  = "Skipping invalid phone value"
	MsgExportDone    = "Export successful"
	MsgCalendarDone  = "Calendar generation successful"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgConfigLoaded  = "Configuration loaded"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyMode      = "mode"
	LogKeyUser      = "user"
	LogKeyValue     = "value"
	LogKeyCommand   = "command"
	LogKeyName      = "name"
	LogKeyCount     = "count"
	LogKeyTotal     = "total_cards"
	LogKeyImported  = "imported"
	LogKeySkipped   = "skipped"
	LogKeyStats     = "stats"
	LogKeyPolicy    = "add_policy"
	LogKeyScheme    = "date_scheme"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain     = "main"
	CompConfig   = "config"
	CompBook     = "book"
	CompDispatch = "dispatch"
	CompExchange = "exchange"
	CompFetcher  = "fetcher"
)

// -----------------------------------------------------------------------------
// Settings
// -----------------------------------------------------------------------------

// Settings holds the runtime configuration. Every field maps to a key in the
// optional YAML file and can be overridden by the corresponding environment
// variable. Defaults match the behavior of the lenient/upsert variant.
type Settings struct {
	// AddPolicy controls what the "add" command does when the name already
	// exists: "upsert" attaches the phone to the existing contact, "unique"
	// rejects the command.
	AddPolicy string `yaml:"add_policy" env:"ADD_POLICY" env-default:"upsert" validate:"oneof=upsert unique"`

	// DateScheme selects the birthday text encoding for the whole run.
	DateScheme string `yaml:"date_scheme" env:"DATE_SCHEME" env-default:"lenient" validate:"oneof=lenient strict"`

	// ReminderTrigger is an ISO8601 duration (e.g. "-P1D") attached as a
	// VALARM to exported calendar events. Empty disables reminders.
	ReminderTrigger string `yaml:"reminder_trigger" env:"REMINDER_TRIGGER" env-default:""`

	Import ImportSettings `yaml:"import"`
}

// ImportSettings describes where the "import" command reads vCards from when
// no path argument is given.
type ImportSettings struct {
	Mode      string `yaml:"mode" env:"IMPORT_MODE" env-default:"local" validate:"oneof=local web"`
	LocalPath string `yaml:"local_path" env:"IMPORT_LOCAL_PATH" env-default:""`
	WebURL    string `yaml:"web_url" env:"IMPORT_WEB_URL" env-default:""`
	WebUser   string `yaml:"web_user" env:"IMPORT_WEB_USER" env-default:""`
}

// Load reads the settings from the given YAML file, or from the environment
// alone when path is empty, and validates the result. A missing file is an
// error; a missing path is not.
func Load(path string) (*Settings, error) {
	var s Settings

	if path == "" {
		if err := cleanenv.ReadEnv(&s); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrConfigRead, err)
		}
	} else {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %s", ErrConfigMissing, path)
		}
		if err := cleanenv.ReadConfig(path, &s); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrConfigRead, err)
		}
	}

	if err := validator.New().Struct(s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrConfigInvalid, err)
	}

	return &s, nil
}
