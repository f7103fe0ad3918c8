package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store is a JSON-file key/value store. Each value is kept as raw JSON
// under its key. An empty path keeps everything in memory.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// Open loads path, treating a missing file as empty.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]json.RawMessage{}}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local store: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("decode local store %s: %w", path, err)
	}
	if s.data == nil {
		s.data = map[string]json.RawMessage{}
	}
	return s, nil
}

// Memory returns a store that never touches disk.
func Memory() *Store {
	s, _ := Open("")
	return s
}

// Get decodes the value at key into out. It reports false when the key is
// absent.
func (s *Store) Get(key string, out any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// Set stores value at key and flushes the file.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(key, raw)
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.data[key]
	if !ok {
		return nil
	}
	delete(s.data, key)
	if err := s.flushLocked(); err != nil {
		s.data[key] = prev
		return err
	}
	return nil
}

// Keys lists the stored keys in order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// update runs fn on the decoded value at key and stores the result, all
// under the lock so read-modify-write helpers do not race.
func update[T any](s *Store, key string, fn func(current T) T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current T
	if raw, ok := s.data[key]; ok {
		if err := json.Unmarshal(raw, &current); err != nil {
			return current, fmt.Errorf("decode %q: %w", key, err)
		}
	}
	next := fn(current)
	raw, err := json.Marshal(next)
	if err != nil {
		return current, fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.putLocked(key, raw); err != nil {
		return current, err
	}
	return next, nil
}

// putLocked stores raw at key. The in-memory map only changes when the
// flush succeeds.
func (s *Store) putLocked(key string, raw json.RawMessage) error {
	prev, had := s.data[key]
	s.data[key] = raw
	if err := s.flushLocked(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// flushLocked writes to a temp file in the same directory and renames it
// over the target so a crash never leaves a half-written file.
func (s *Store) flushLocked() error {
	if s.path == "" {
		return nil
	}
	payload, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create local store dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".localstore-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write local store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close local store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace local store: %w", err)
	}
	return nil
}
