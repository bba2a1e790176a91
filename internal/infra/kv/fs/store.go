// Package fs keeps durable entries as files under a root directory, one
// "<key>.json" file per key. It is the default driver and the closest match to
// a browser origin's local storage.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"primenest/internal/kv/core"
)

var (
	_ core.Store  = (*Store)(nil)
	_ core.Lister = (*Store)(nil)
)

// DefaultRoot is used when New receives an empty root.
const DefaultRoot = "./primenest-data"

const fileExt = ".json"

// Keys are flat names; anything that could address another directory is rejected.
var validKey = regexp.MustCompile(`^[A-Za-z0-9_\-][A-Za-z0-9_.\-]*$`)

// ErrInvalidKey reports a key that cannot be mapped to a file name.
var ErrInvalidKey = errors.New("fs: invalid key")

// Store writes each value atomically: a temp file in the same directory is
// synced and renamed over the target, so readers see the old or the new value.
type Store struct {
	root string
}

// New creates root if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = DefaultRoot
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("fs root %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

// Driver reports core.DriverFilesystem.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// Root is the directory holding the entry files.
func (s *Store) Root() string { return s.root }

func (s *Store) file(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, key+fileExt), nil
}

// Get reads the entry file for key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	name, err := s.file(key)
	if err != nil {
		return nil, err
	}
	value, err := os.ReadFile(name)
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		return nil, core.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("fs get %s: %w", key, err)
	}
	return value, nil
}

// Put replaces the entry file for key.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	name, err := s.file(key)
	if err != nil {
		return err
	}
	if err := writeAtomic(name, value); err != nil {
		return fmt.Errorf("fs put %s: %w", key, err)
	}
	return nil
}

func writeAtomic(name string, value []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(value); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}

// Delete removes the entry file for key and reports whether it existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	name, err := s.file(key)
	if err != nil {
		return false, err
	}
	switch err := os.Remove(name); {
	case errors.Is(err, iofs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("fs delete %s: %w", key, err)
	}
	return true, nil
}

// Keys lists the keys of the entry files beginning with prefix. Temp files
// left by an interrupted Put are skipped.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("fs list: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		key := strings.TrimSuffix(name, fileExt)
		if validKey.MatchString(key) && strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
