package logging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/eugenenazirov/doctour/internal/config"
)

// ErrPersist is returned when a backend cannot store a record.
var ErrPersist = errors.New("log persist failed")

// Backend persists records. The set of implementations is closed:
// FileBackend for the DEBUG profile, ProductionBackend for PRODUCTION.
type Backend interface {
	Write(r Record) error
	sealed()
}

// FileBackend appends formatted records to a timestamped text file.
type FileBackend struct {
	Path string
}

// NewFileBackend targets dir/log_<started>.txt.
func NewFileBackend(dir string, started time.Time) *FileBackend {
	name := fmt.Sprintf("log_%s.txt", started.Format("2006-01-02_15-04-05"))
	return &FileBackend{Path: filepath.Join(dir, name)}
}

// Write appends one line, creating the directory and file on first use.
func (b *FileBackend) Write(r Record) error {
	if err := os.MkdirAll(filepath.Dir(b.Path), 0o755); err != nil {
		return fmt.Errorf("%w: create log directory: %v", ErrPersist, err)
	}

	f, err := os.OpenFile(b.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrPersist, b.Path, err)
	}

	if _, err := f.WriteString(r.Format() + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write %s: %v", ErrPersist, b.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrPersist, b.Path, err)
	}
	return nil
}

func (*FileBackend) sealed() {}

// ProductionBackend encodes records as JSON through zap into a size-rotated
// file, optionally throttled by a token bucket.
type ProductionBackend struct {
	core    zapcore.Core
	limiter *rate.Limiter
	closer  func() error
}

// NewProductionBackend writes to cfg.File, resolved against dir when relative.
func NewProductionBackend(dir string, cfg config.ProductionConfig) *ProductionBackend {
	path := cfg.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	b := newProductionBackend(zapcore.AddSync(sink), cfg)
	b.closer = sink.Close
	return b
}

func newProductionBackend(ws zapcore.WriteSyncer, cfg config.ProductionConfig) *ProductionBackend {
	b := &ProductionBackend{
		core: zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), ws, zapcore.DebugLevel),
	}

	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		b.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}
	return b
}

// Write blocks on the limiter, if any, and never drops a record.
func (b *ProductionBackend) Write(r Record) error {
	if b.limiter != nil {
		if err := b.limiter.Wait(context.Background()); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", ErrPersist, err)
		}
	}

	ent := zapcore.Entry{
		Level:      r.Severity.zapLevel(),
		Time:       r.Time,
		LoggerName: "doctour",
		Message:    r.Message,
	}
	if err := b.core.Write(ent, []zapcore.Field{zap.String("severity", r.Severity.String())}); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// Close releases the underlying file.
func (b *ProductionBackend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

func (*ProductionBackend) sealed() {}
