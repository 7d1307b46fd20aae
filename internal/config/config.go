package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/doctour/internal/environment"
	"github.com/eugenenazirov/doctour/internal/rootpath"
)

const (
	defaultProductionFile = "production.log"
	defaultMaxSizeMB      = 100
	defaultMaxBackups     = 5
	defaultMaxAgeDays     = 30
)

// FileNames lists the configuration files looked up in <root>/system, in order.
var FileNames = []string{"configs.json", "configs.yaml"}

// ErrLoad wraps every failure to read, parse or validate the configuration.
var ErrLoad = errors.New("config load failed")

// Kinds toggles logging per severity.
type Kinds struct {
	Trace bool
	Info  bool
	Warn  bool
	Error bool
}

// LogPolicy is the logging section: a master switch plus per-severity toggles.
type LogPolicy struct {
	On    bool
	Kinds Kinds
}

// ProductionConfig tunes the production logging backend.
// RateLimitRPS of zero disables throttling.
type ProductionConfig struct {
	File           string
	MaxSizeMB      int
	MaxBackups     int
	MaxAgeDays     int
	Compress       bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// Snapshot is the immutable, merged configuration.
// Profile always comes from the environment file.
type Snapshot struct {
	Log        LogPolicy
	Save       bool
	Debug      bool
	Profile    environment.Profile
	Production ProductionConfig
}

// fileConfig mirrors the on-disk document. Pointers distinguish a missing key
// from a false value.
type fileConfig struct {
	Log        *fileLog        `json:"log" yaml:"log"`
	Save       *bool           `json:"save" yaml:"save"`
	Debug      *bool           `json:"debug" yaml:"debug"`
	Production *fileProduction `json:"production" yaml:"production"`
}

type fileLog struct {
	On    *bool      `json:"on" yaml:"on"`
	Kinds *fileKinds `json:"kinds" yaml:"kinds"`
}

type fileKinds struct {
	Trace *bool `json:"trace" yaml:"trace"`
	Info  *bool `json:"info" yaml:"info"`
	Warn  *bool `json:"warn" yaml:"warn"`
	Error *bool `json:"error" yaml:"error"`
}

type fileProduction struct {
	File       string   `json:"file" yaml:"file"`
	MaxSizeMB  *int     `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups *int     `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays *int     `json:"max_age_days" yaml:"max_age_days"`
	Compress   *bool    `json:"compress" yaml:"compress"`
	RPS        *float64 `json:"rps" yaml:"rps"`
	Burst      *int     `json:"burst" yaml:"burst"`
}

// LoadFile reads the configuration at path and merges profile into it.
// Files ending in .yaml or .yml are decoded as YAML, anything else as JSON.
func LoadFile(path string, profile environment.Profile) (Snapshot, error) {
	fileCfg, err := loadFromFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}

	snap, err := build(fileCfg, profile)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}
	return snap, nil
}

// Load locates the configuration under the project root and merges the
// profile from the environment store.
func Load() (Snapshot, error) {
	dir, err := rootpath.SystemDir()
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	path, err := findFile(dir)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	envStore, err := environment.Open()
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	return LoadFile(path, envStore.Profile())
}

func findFile(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no configuration file (%s) in %s", strings.Join(FileNames, ", "), dir)
}

// loadFromFile decodes the document without applying defaults or checks.
func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&fileCfg); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		if dec.More() {
			return nil, errors.New("parse JSON: trailing data after object")
		}
	}

	return &fileCfg, nil
}

// build checks required keys, applies production defaults and injects profile.
func build(fileCfg *fileConfig, profile environment.Profile) (Snapshot, error) {
	if profile != environment.Debug && profile != environment.Production {
		return Snapshot{}, fmt.Errorf("invalid profile %v", profile)
	}

	var missing []string
	need := func(name string, v *bool) bool {
		if v == nil {
			missing = append(missing, name)
			return false
		}
		return *v
	}

	snap := Snapshot{
		Profile:    profile,
		Production: defaultProduction(),
	}

	if fileCfg.Log == nil {
		missing = append(missing, "log")
	} else {
		snap.Log.On = need("log.on", fileCfg.Log.On)
		if fileCfg.Log.Kinds == nil {
			missing = append(missing, "log.kinds")
		} else {
			k := fileCfg.Log.Kinds
			snap.Log.Kinds = Kinds{
				Trace: need("log.kinds.trace", k.Trace),
				Info:  need("log.kinds.info", k.Info),
				Warn:  need("log.kinds.warn", k.Warn),
				Error: need("log.kinds.error", k.Error),
			}
		}
	}
	snap.Save = need("save", fileCfg.Save)
	snap.Debug = need("debug", fileCfg.Debug)

	if len(missing) > 0 {
		return Snapshot{}, fmt.Errorf("missing required keys: %s", strings.Join(missing, ", "))
	}

	if fileCfg.Production != nil {
		applyProduction(&snap.Production, fileCfg.Production)
	}
	if err := validateProduction(snap.Production); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

func defaultProduction() ProductionConfig {
	return ProductionConfig{
		File:       defaultProductionFile,
		MaxSizeMB:  defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAgeDays: defaultMaxAgeDays,
		Compress:   true,
	}
}

func applyProduction(cfg *ProductionConfig, p *fileProduction) {
	if p.File != "" {
		cfg.File = p.File
	}
	if p.MaxSizeMB != nil {
		cfg.MaxSizeMB = *p.MaxSizeMB
	}
	if p.MaxBackups != nil {
		cfg.MaxBackups = *p.MaxBackups
	}
	if p.MaxAgeDays != nil {
		cfg.MaxAgeDays = *p.MaxAgeDays
	}
	if p.Compress != nil {
		cfg.Compress = *p.Compress
	}
	if p.RPS != nil {
		cfg.RateLimitRPS = *p.RPS
	}
	if p.Burst != nil {
		cfg.RateLimitBurst = *p.Burst
	}
}

func validateProduction(cfg ProductionConfig) error {
	if cfg.MaxSizeMB <= 0 {
		return fmt.Errorf("production.max_size_mb must be > 0")
	}
	if cfg.MaxBackups < 0 {
		return fmt.Errorf("production.max_backups must be >= 0")
	}
	if cfg.MaxAgeDays < 0 {
		return fmt.Errorf("production.max_age_days must be >= 0")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("production.rps must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("production.burst must be >= 0")
	}
	return nil
}
