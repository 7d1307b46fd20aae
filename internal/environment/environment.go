package environment

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/eugenenazirov/doctour/internal/lazy"
	"github.com/eugenenazirov/doctour/internal/rootpath"
)

// ErrLoad wraps every failure to read or decode the environment file.
var ErrLoad = errors.New("environment load failed")

// Snapshot is the fully populated content of the environment file.
type Snapshot struct {
	Profile  Profile `env:"PROFILE,required"`
	Host     string  `env:"HOST,required,notEmpty"`
	Port     uint16  `env:"PORT,required"`
	DBName   string  `env:"DBNAME,required,notEmpty"`
	User     string  `env:"DBUSER,required,notEmpty"`
	Password string  `env:"PASSWORD,required"`
}

// DSN renders the database parameters as a PostgreSQL connection URL.
func (s Snapshot) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(s.User, s.Password),
		Host:   net.JoinHostPort(s.Host, strconv.Itoa(int(s.Port))),
		Path:   "/" + s.DBName,
	}
	return u.String()
}

// LoadFile parses the key=value file at path, exports its entries into the
// process environment (existing variables win), and decodes the snapshot from
// the file's own values. Either every key is present and valid, or an error
// wrapping ErrLoad is returned. Variables already set in the process
// environment never affect the snapshot.
func LoadFile(path string) (Snapshot, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: read %s: %v", ErrLoad, path, err)
	}

	for key, value := range vars {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return Snapshot{}, fmt.Errorf("%w: export %s: %v", ErrLoad, key, err)
		}
	}

	return Decode(vars)
}

// Decode builds a snapshot from an already parsed set of variables.
func Decode(vars map[string]string) (Snapshot, error) {
	var snap Snapshot
	if err := env.ParseWithOptions(&snap, env.Options{Environment: vars}); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return snap, nil
}

// Store is the guarded holder of the environment snapshot. Accessors return
// copies; nothing outside the store can mutate the snapshot.
type Store struct {
	cell *lazy.Cell[Snapshot]
}

// NewStore returns a Store that runs load on first access only.
func NewStore(load func() (Snapshot, error)) *Store {
	return &Store{cell: lazy.New(load)}
}

// NewFileStore returns a Store backed by the environment file at path.
func NewFileStore(path string) *Store {
	return NewStore(func() (Snapshot, error) { return LoadFile(path) })
}

// Init forces the one-time load and reports its outcome.
func (s *Store) Init() error {
	_, err := s.cell.Get()
	return err
}

// Snapshot returns a copy of the whole snapshot. It panics when the load
// failed; call Init first to handle the error instead.
func (s *Store) Snapshot() Snapshot {
	snap, err := s.cell.Get()
	if err != nil {
		panic(fmt.Sprintf("failed to load environment: %v", err))
	}
	return snap
}

// Profile is the runtime mode.
func (s *Store) Profile() Profile { return s.Snapshot().Profile }

// Host is the database host.
func (s *Store) Host() string { return s.Snapshot().Host }

// Port is the database port.
func (s *Store) Port() uint16 { return s.Snapshot().Port }

// DBName is the database name.
func (s *Store) DBName() string { return s.Snapshot().DBName }

// User is the database user.
func (s *Store) User() string { return s.Snapshot().User }

// Password is the database password.
func (s *Store) Password() string { return s.Snapshot().Password }

var std = NewStore(func() (Snapshot, error) {
	path, err := rootpath.EnvFile()
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return LoadFile(path)
})

// Open returns the process-wide store, loading <root>/system/.env on first
// use. A failed first load is permanent for the life of the process.
func Open() (*Store, error) {
	if err := std.Init(); err != nil {
		return nil, err
	}
	return std, nil
}

// MustOpen is like Open but panics when the environment cannot be loaded.
func MustOpen() *Store {
	s, err := Open()
	if err != nil {
		panic(fmt.Sprintf("failed to load environment: %v", err))
	}
	return s
}
