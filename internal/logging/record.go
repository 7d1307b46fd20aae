package logging

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/doctour/internal/config"
)

// Severity is the level of a log record.
type Severity int

const (
	TraceLevel Severity = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Severities lists every level in ascending order.
var Severities = []Severity{TraceLevel, InfoLevel, WarnLevel, ErrorLevel}

func (s Severity) String() string {
	switch s {
	case TraceLevel:
		return "TRACE"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ParseSeverity is case-insensitive; "warning" is accepted for WarnLevel.
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return TraceLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", raw)
	}
}

func (s Severity) enabledIn(k config.Kinds) bool {
	switch s {
	case TraceLevel:
		return k.Trace
	case InfoLevel:
		return k.Info
	case WarnLevel:
		return k.Warn
	case ErrorLevel:
		return k.Error
	default:
		return false
	}
}

func (s Severity) zapLevel() zapcore.Level {
	switch s {
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}

const recordTimeLayout = "2006-01-02 15:04:05"

// Record is a single log entry. It lives only for the call that emits it.
type Record struct {
	Severity Severity
	Time     time.Time
	Message  string
}

// Format renders "[SEVERITY] YYYY-MM-DD HH:MM:SS - message".
func (r Record) Format() string {
	return fmt.Sprintf("[%s] %s - %s", r.Severity, r.Time.Format(recordTimeLayout), r.Message)
}
