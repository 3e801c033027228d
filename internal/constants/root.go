package constants

import "time"

const (
	AppName            = "wellday"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/wellday"
	DefaultDBName      = "wellday.db"
	DefaultStateDir    = "state"
	LogDir             = "logs"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayDateFormat is used when rendering dates to the user, e.g. "Jan 2, 2006"
	DisplayDateFormat = "Jan 2, 2006"

	// Persistence keys, one per store
	SessionStorageKey = "session-storage"
	PlanStorageKey    = "plan-storage"
	EntriesStorageKey = "entries-storage"

	// SchemaVersion is the version marker written alongside every persisted state blob
	SchemaVersion = 1

	// Check-in retention and ranges
	MaxCheckIns   = 30
	MinScore      = 0
	MaxScore      = 10
	MinSleepHours = 0
	MaxSleepHours = 12

	// DefaultSleepHours prefills the check-in form
	DefaultSleepHours = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "wellday-"
	BackupFileSuffix = ".db"

	// FlushTimeout bounds how long shutdown waits for pending writes
	FlushTimeout = 5 * time.Second

	// HistoryPreviewLimit is how many recent check-ins the history views show by default
	HistoryPreviewLimit = 7

	// Backend names
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendFile     = "file"
	BackendMemory   = "memory"
)

// DefaultTaskTitles is the template the daily plan is regenerated from.
var DefaultTaskTitles = []string{
	"Take morning medication",
	"Log symptoms",
	"Drink 8 glasses of water",
	"30 min light exercise",
	"Evening meditation",
}
