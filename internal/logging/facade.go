package logging

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/doctour/internal/config"
	"github.com/eugenenazirov/doctour/internal/environment"
	"github.com/eugenenazirov/doctour/internal/lazy"
	"github.com/eugenenazirov/doctour/internal/rootpath"
)

// callerSkip points the debug view at the code that called Trace/Info/Warn/Error.
const callerSkip = 3

// Policy supplies the configuration consulted on every call.
// *config.Store satisfies it; its Snapshot panics when the load failed, so
// a broken configuration never reads as logging switched off.
type Policy interface {
	Snapshot() config.Snapshot
}

// Option configures a Logger.
type Option func(*Logger)

// WithLogsDir overrides <root>/system/logs.
func WithLogsDir(dir string) Option {
	return func(l *Logger) {
		l.logsDir = func() (string, error) { return dir, nil }
	}
}

// WithStdout redirects the plain show channel (default: os.Stdout at call time).
func WithStdout(w io.Writer) Option {
	return func(l *Logger) {
		l.stdout = w
	}
}

// WithDebugOutput redirects the debug view (default: stderr).
func WithDebugOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.debugOut = zapcore.AddSync(w)
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// Logger is the dispatch layer between callers and the profile's backend.
// It holds no per-record state; each call reads the policy, builds a record,
// and optionally persists and shows it.
type Logger struct {
	policy   Policy
	logsDir  func() (string, error)
	stdout   io.Writer
	debugOut zapcore.WriteSyncer
	debug    *zap.Logger
	now      func() time.Time
	started  time.Time

	production     *lazy.Cell[*ProductionBackend]
	productionUsed atomic.Bool
}

// NewLogger returns a Logger bound to policy.
func NewLogger(policy Policy, opts ...Option) *Logger {
	l := &Logger{
		policy:   policy,
		logsDir:  rootpath.LogsDir,
		debugOut: zapcore.Lock(os.Stderr),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.started = l.now()
	l.debug = zap.New(
		zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), l.debugOut, zapcore.DebugLevel),
		zap.AddCaller(),
		zap.AddCallerSkip(callerSkip),
	)
	l.production = lazy.New(func() (*ProductionBackend, error) {
		dir, err := l.logsDir()
		if err != nil {
			return nil, err
		}
		return NewProductionBackend(dir, l.policy.Snapshot().Production), nil
	})
	return l
}

func (l *Logger) Trace(message string, show bool) error { return l.log(TraceLevel, message, show) }
func (l *Logger) Info(message string, show bool) error  { return l.log(InfoLevel, message, show) }
func (l *Logger) Warn(message string, show bool) error  { return l.log(WarnLevel, message, show) }
func (l *Logger) Error(message string, show bool) error { return l.log(ErrorLevel, message, show) }

// Log emits message at severity s. It is a no-op when logging or the severity
// is disabled. A persist failure is returned wrapped in ErrPersist; the record
// is still shown when requested.
func (l *Logger) Log(s Severity, message string, show bool) error {
	return l.log(s, message, show)
}

// Measure runs fn and records its duration at trace level.
func (l *Logger) Measure(label string, fn func()) error {
	start := time.Now()
	fn()
	return l.log(TraceLevel, fmt.Sprintf("%s took %s", label, time.Since(start)), false)
}

func (l *Logger) log(s Severity, message string, show bool) error {
	snap := l.policy.Snapshot()
	if !snap.Log.On || !s.enabledIn(snap.Log.Kinds) {
		return nil
	}

	rec := Record{Severity: s, Time: l.now(), Message: message}

	var persistErr error
	if snap.Save {
		persistErr = l.persist(snap.Profile, rec)
	}

	if show {
		l.show(rec, snap.Debug)
	}
	return persistErr
}

func (l *Logger) persist(profile environment.Profile, rec Record) error {
	backend, err := l.backendFor(profile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return backend.Write(rec)
}

func (l *Logger) backendFor(profile environment.Profile) (Backend, error) {
	switch profile {
	case environment.Debug:
		dir, err := l.logsDir()
		if err != nil {
			return nil, err
		}
		return NewFileBackend(dir, l.started), nil
	case environment.Production:
		b, err := l.production.Get()
		if err != nil {
			return nil, err
		}
		l.productionUsed.Store(true)
		return b, nil
	default:
		return nil, fmt.Errorf("no backend for profile %v", profile)
	}
}

func (l *Logger) show(rec Record, debugView bool) {
	line := rec.Format()
	if debugView {
		l.debug.Debug(line)
		return
	}

	w := l.stdout
	if w == nil {
		w = os.Stdout
	}
	_, _ = fmt.Fprintln(w, line)
}

// Close releases the production sink if one was opened.
func (l *Logger) Close() error {
	_ = l.debug.Sync()

	if !l.productionUsed.Load() {
		return nil
	}

	var err error
	_ = l.production.With(func(b *ProductionBackend) {
		if b != nil {
			err = b.Close()
		}
	})
	return err
}
