package config

const (
	defaultLogDir            = "~/.local/share/plateview/logs"
	defaultJournalPath       = "~/.local/share/plateview/journal.db"
	defaultLockPath          = "~/.local/share/plateview/console.lock"
	defaultAPITimeoutSeconds = 30
	defaultPageSize          = 50
	defaultSurface           = "decisions"
	defaultPollInterval      = 15
	defaultIdlePollInterval  = 60
	defaultAuditWindowMargin = 60
	defaultAuditEntryLimit   = 200
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			TimeoutSeconds: defaultAPITimeoutSeconds,
			PageSize:       defaultPageSize,
		},
		Paths: Paths{
			LogDir:      defaultLogDir,
			JournalPath: defaultJournalPath,
			LockPath:    defaultLockPath,
		},
		Review: Review{
			Surface:                 defaultSurface,
			PollIntervalSeconds:     defaultPollInterval,
			IdlePollIntervalSeconds: defaultIdlePollInterval,
			AuditWindowMarginMins:   defaultAuditWindowMargin,
			AuditEntryLimit:         defaultAuditEntryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
