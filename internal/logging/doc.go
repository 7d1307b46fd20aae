// Package logging is the profile-aware logging facade.
//
// Every call reads the configuration snapshot, drops the record when logging
// is off or its severity is disabled, and otherwise:
//
//   - persists it when "save" is on, through the backend chosen by the
//     profile: DEBUG appends "[SEVERITY] YYYY-MM-DD HH:MM:SS - message" lines
//     to <root>/system/logs/log_<start>.txt, PRODUCTION writes JSON through
//     zap into a lumberjack-rotated file;
//   - shows it when the caller asks to, on stdout or, with "debug" on, in a
//     zap development view on stderr that includes the caller location.
//
// Usage:
//
//	if err := logging.Error("payment failed", true); err != nil {
//		// the record was shown but could not be persisted
//	}
//
// Persist failures are returned wrapped in ErrPersist rather than aborting the
// process. Configuration failures are fatal: Default panics.
//
// New builds the separate JSON zap logger used by the CLI for its own output.
package logging
