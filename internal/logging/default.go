package logging

import (
	"fmt"

	"github.com/eugenenazirov/doctour/internal/config"
	"github.com/eugenenazirov/doctour/internal/lazy"
)

var std = lazy.New(func() (*Logger, error) {
	store, err := config.Open()
	if err != nil {
		return nil, err
	}
	return NewLogger(store), nil
})

// Default returns the process-wide Logger bound to the configuration store.
// It panics when the configuration cannot be loaded: logging policy is
// required by every caller and there is no safe fallback.
func Default() *Logger {
	l, err := std.Get()
	if err != nil {
		panic(fmt.Sprintf("failed to initialise logging: %v", err))
	}
	return l
}

func Trace(message string, show bool) error { return Default().log(TraceLevel, message, show) }
func Info(message string, show bool) error  { return Default().log(InfoLevel, message, show) }
func Warn(message string, show bool) error  { return Default().log(WarnLevel, message, show) }
func Error(message string, show bool) error { return Default().log(ErrorLevel, message, show) }

// Log emits message at severity s through the default Logger.
func Log(s Severity, message string, show bool) error {
	return Default().log(s, message, show)
}

// Measure runs fn and records its duration through the default Logger.
func Measure(label string, fn func()) error {
	return Default().Measure(label, fn)
}
