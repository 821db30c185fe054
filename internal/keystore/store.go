// Package keystore holds the ordered set of entity keys known to a generation run.
package keystore

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
)

// ErrEmptyKeyStore is returned when a key is requested from a store with no keys.
var ErrEmptyKeyStore = errors.New("key store is empty")

// ErrMissingKeysFile is returned when keys must be read but no keys file is available.
var ErrMissingKeysFile = errors.New("missing keys file")

// DefaultSkewRate is the rate of the exponential distribution used by PickSkewed.
const DefaultSkewRate = 0.1

// Store is an insertion-ordered set of keys. Keys loaded from a file keep
// their first-occurrence order; keys added later go to the end.
// It is not safe for concurrent use.
type Store struct {
	keys  []string
	index map[string]struct{}
}

// New returns a store seeded with keys, dropping duplicates.
func New(keys ...string) *Store {
	s := &Store{index: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add appends key if it is not already present and reports whether it was added.
func (s *Store) Add(key string) bool {
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.keys = append(s.keys, key)
	return true
}

// Contains reports whether key is in the store.
func (s *Store) Contains(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.keys)
}

// Keys returns a copy of the keys in store order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.keys...)
}

// PickUniform returns a uniformly random key.
func (s *Store) PickUniform(rnd *rand.Rand) (string, error) {
	if len(s.keys) == 0 {
		return "", ErrEmptyKeyStore
	}
	return s.keys[rnd.Intn(len(s.keys))], nil
}

// PickSkewed draws an index from an exponential distribution with the given
// rate, rounds it and reduces it modulo the store size. Low indices, the
// oldest keys, receive most picks. A non-positive rate uses DefaultSkewRate.
func (s *Store) PickSkewed(rnd *rand.Rand, rate float64) (string, error) {
	if len(s.keys) == 0 {
		return "", ErrEmptyKeyStore
	}
	if rate <= 0 {
		rate = DefaultSkewRate
	}
	draw := math.RoundToEven(rnd.ExpFloat64() / rate)
	if draw > math.MaxInt32 {
		draw = math.MaxInt32
	}
	return s.keys[int(draw)%len(s.keys)], nil
}

// Save overwrites path with one key per line in store order. The file is
// written next to path and renamed into place once fully synced.
func (s *Store) Save(path string) error {
	pending, err := s.Stage(path)
	if err != nil {
		return err
	}
	return pending.Commit()
}

// Pending is a keys file that is written and synced but not yet in place.
type Pending struct {
	tmp  string
	path string
}

// Stage writes the keys to a synced temp file next to path. The caller
// decides whether to Commit or Discard it.
func (s *Store) Stage(path string) (_ *Pending, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create keys file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, k := range s.keys {
		if _, err = w.WriteString(k); err != nil {
			return nil, fmt.Errorf("write keys file: %w", err)
		}
		if err = w.WriteByte('\n'); err != nil {
			return nil, fmt.Errorf("write keys file: %w", err)
		}
	}
	if err = w.Flush(); err != nil {
		return nil, fmt.Errorf("flush keys file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return nil, fmt.Errorf("sync keys file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("close keys file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return nil, fmt.Errorf("chmod keys file: %w", err)
	}
	return &Pending{tmp: tmp.Name(), path: path}, nil
}

// Commit renames the staged file over its target.
func (p *Pending) Commit() error {
	if err := os.Rename(p.tmp, p.path); err != nil {
		os.Remove(p.tmp)
		return fmt.Errorf("rename keys file: %w", err)
	}
	return nil
}

// Discard removes the staged file and leaves the target untouched.
// It is safe to call on a nil Pending.
func (p *Pending) Discard() {
	if p == nil {
		return
	}
	os.Remove(p.tmp)
}
