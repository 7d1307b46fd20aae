package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/eugenenazirov/doctour/internal/environment"
)

const allOnJSON = `{"log":{"on":true,"kinds":{"trace":true,"info":true,"warn":true,"error":true}},"save":true,"debug":false}`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileJSON(t *testing.T) {
	t.Parallel()

	snap, err := LoadFile(writeConfig(t, "configs.json", allOnJSON), environment.Debug)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if !snap.Log.On || !snap.Log.Kinds.Trace || !snap.Log.Kinds.Error {
		t.Fatalf("unexpected log policy: %+v", snap.Log)
	}
	if !snap.Save || snap.Debug {
		t.Fatalf("unexpected flags: save=%v debug=%v", snap.Save, snap.Debug)
	}
	if snap.Profile != environment.Debug {
		t.Fatalf("expected DEBUG profile, got %v", snap.Profile)
	}
	if snap.Production != defaultProduction() {
		t.Fatalf("expected production defaults, got %+v", snap.Production)
	}
}

func TestLoadFileProfileComesFromEnvironment(t *testing.T) {
	t.Parallel()

	content := `{"profile":"DEBUG","log":{"on":true,"kinds":{"trace":false,"info":true,"warn":true,"error":true}},"save":false,"debug":true}`
	path := writeConfig(t, "configs.json", content)

	for _, profile := range []environment.Profile{environment.Debug, environment.Production} {
		snap, err := LoadFile(path, profile)
		if err != nil {
			t.Fatalf("LoadFile returned error: %v", err)
		}
		if snap.Profile != profile {
			t.Fatalf("expected profile %v, got %v", profile, snap.Profile)
		}
	}
}

func TestLoadFileYAML(t *testing.T) {
	t.Parallel()

	content := `log:
  on: true
  kinds:
    trace: false
    info: true
    warn: false
    error: true
save: true
debug: true
production:
  file: app.log
  max_size_mb: 10
  rps: 5
  burst: 10
`
	snap, err := LoadFile(writeConfig(t, "configs.yaml", content), environment.Production)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	want := Kinds{Trace: false, Info: true, Warn: false, Error: true}
	if snap.Log.Kinds != want {
		t.Fatalf("expected kinds %+v, got %+v", want, snap.Log.Kinds)
	}
	if snap.Production.File != "app.log" || snap.Production.MaxSizeMB != 10 {
		t.Fatalf("unexpected production config: %+v", snap.Production)
	}
	if snap.Production.RateLimitRPS != 5 || snap.Production.RateLimitBurst != 10 {
		t.Fatalf("unexpected rate limit: %+v", snap.Production)
	}
	if snap.Production.MaxBackups != defaultMaxBackups {
		t.Fatalf("expected default backups, got %d", snap.Production.MaxBackups)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "malformed", content: `{"log":`, wantMsg: "parse JSON"},
		{name: "trailing", content: allOnJSON + `{}`, wantMsg: "trailing"},
		{name: "missing log", content: `{"save":true,"debug":false}`, wantMsg: "log"},
		{name: "missing kind", content: `{"log":{"on":true,"kinds":{"trace":true,"info":true,"warn":true}},"save":true,"debug":false}`, wantMsg: "log.kinds.error"},
		{name: "missing save", content: `{"log":{"on":true,"kinds":{"trace":true,"info":true,"warn":true,"error":true}},"debug":false}`, wantMsg: "save"},
		{name: "wrong type", content: `{"log":{"on":"yes"}}`, wantMsg: "parse JSON"},
		{name: "negative rps", content: `{"log":{"on":true,"kinds":{"trace":true,"info":true,"warn":true,"error":true}},"save":true,"debug":false,"production":{"rps":-1}}`, wantMsg: "production.rps"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadFile(writeConfig(t, "configs.json", tc.content), environment.Debug)
			if !errors.Is(err, ErrLoad) {
				t.Fatalf("expected ErrLoad, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantMsg, err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := LoadFile(filepath.Join(t.TempDir(), "configs.json"), environment.Debug); !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestLoadFileRejectsUnknownProfile(t *testing.T) {
	t.Parallel()

	if _, err := LoadFile(writeConfig(t, "configs.json", allOnJSON), environment.Profile(0)); !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}

func TestFindFilePrefersJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"configs.yaml", "configs.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got, err := findFile(dir)
	if err != nil {
		t.Fatalf("findFile returned error: %v", err)
	}
	if filepath.Base(got) != "configs.json" {
		t.Fatalf("expected configs.json, got %s", got)
	}

	if _, err := findFile(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}

func TestStoreLoadsOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	path := writeConfig(t, "configs.json", allOnJSON)
	store := NewStore(func() (Snapshot, error) {
		calls.Add(1)
		return LoadFile(path, environment.Production)
	})

	var wg sync.WaitGroup
	for n := 0; n < 50; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Init(); err != nil {
				t.Errorf("Init returned error: %v", err)
			}
			_ = store.LogPolicy()
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one load, got %d", got)
	}
	if store.Profile() != environment.Production || !store.SaveToDisk() || store.DebugPrint() {
		t.Fatalf("unexpected snapshot %+v", store.Snapshot())
	}
	if store.Production().MaxSizeMB != defaultMaxSizeMB {
		t.Fatalf("unexpected production config %+v", store.Production())
	}
}

func TestStoreFailedLoadPanicsOnAccess(t *testing.T) {
	t.Parallel()

	store := NewStore(func() (Snapshot, error) {
		return Snapshot{}, fmt.Errorf("%w: broken", ErrLoad)
	})
	if err := store.Init(); !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected LogPolicy to panic after a failed load")
		}
	}()
	_ = store.LogPolicy()
}
