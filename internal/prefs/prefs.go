// Package prefs implements a file-backed key-value preferences store.
// Preferences live in a single TOML document of top-level string keys,
// stored by default at ~/.local/share/shoplist/prefs.toml.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	toml "github.com/pelletier/go-toml/v2"
)

var (
	// ErrUnavailable wraps read faults: the file exists but cannot be read
	// or decoded.
	ErrUnavailable = errors.New("preferences unavailable")
	// ErrClosed is returned once the store has been closed.
	ErrClosed = errors.New("preferences store closed")
)

const defaultPrefsPath = "~/.local/share/shoplist/prefs.toml"

// Prefs is an immutable view of every stored key.
type Prefs map[string]string

// Get returns the value stored under key.
func (p Prefs) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Snapshot is one emission of a subscription. Err is set when the file could
// not be read; Prefs is then empty.
type Snapshot struct {
	Prefs Prefs
	Err   error
}

// Store serializes edits to one preferences file and broadcasts every change
// to its subscribers.
type Store struct {
	path string

	// editMu serializes read-modify-write cycles.
	editMu sync.Mutex

	mu       sync.Mutex
	closed   bool
	closing  chan struct{}
	nextID   int
	subs     map[int]*subscriber
	lastHash uint64
	hashed   bool

	// watchers counts subscription goroutines; Close waits for them.
	watchers sync.WaitGroup
}

// Open prepares a store at path, creating the parent directory. An empty path
// selects the default location.
func Open(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}
	return &Store{
		path:    resolved,
		subs:    make(map[int]*subscriber),
		closing: make(chan struct{}),
	}, nil
}

// Path returns the resolved file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads every key from disk. A missing file is empty preferences, not an
// error.
func (s *Store) Load(ctx context.Context) (Prefs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.isClosed() {
		return nil, ErrClosed
	}
	p, _, err := s.read()
	return p, err
}

// Edit applies fn to a copy of the current preferences and atomically replaces
// the file with the result. Subscribers receive the new snapshot. Unreadable
// current contents are treated as empty and overwritten.
func (s *Store) Edit(ctx context.Context, fn func(Prefs)) error {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.isClosed() {
		return ErrClosed
	}

	current, _, err := s.read()
	if err != nil {
		current = Prefs{}
	}
	next := maps.Clone(current)
	if next == nil {
		next = Prefs{}
	}
	fn(next)

	data, err := toml.Marshal(map[string]string(next))
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastHash = xxhash.Sum64(data)
	s.hashed = true
	s.mu.Unlock()

	s.broadcast(Snapshot{Prefs: maps.Clone(next)})
	return nil
}

// Close ends every subscription and waits for their goroutines to exit.
// Later calls fail with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.closing)
	for id, sub := range s.subs {
		sub.close()
		delete(s.subs, id)
	}
	s.mu.Unlock()

	s.watchers.Wait()
	return nil
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// read returns the decoded preferences and the fingerprint of the raw bytes.
func (s *Store) read() (Prefs, uint64, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Prefs{}, xxhash.Sum64(nil), nil
		}
		return nil, 0, fmt.Errorf("%w: open prefs: %v", ErrUnavailable, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read prefs: %v", ErrUnavailable, err)
	}
	sum := xxhash.Sum64(data)

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, sum, fmt.Errorf("%w: parse prefs: %v", ErrUnavailable, err)
	}

	p := make(Prefs, len(raw))
	for k, v := range raw {
		if str, ok := v.(string); ok {
			p[k] = str
		}
	}
	return p, sum, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close prefs: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod prefs: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
