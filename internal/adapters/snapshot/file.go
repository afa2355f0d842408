package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// FileStore writes snapshots to a single file and rotates earlier ones to
// numbered siblings: save.json, save~1.json, save~2.json and so on.
type FileStore struct {
	mu   sync.Mutex
	path string
	settings
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store writing to path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{path: path, settings: defaults()}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

// Generation returns the path of the n-th previous snapshot; 0 is the latest.
func (s *FileStore) Generation(n int) string {
	if n == 0 {
		return s.path
	}
	ext := filepath.Ext(s.path)
	return strings.TrimSuffix(s.path, ext) + "~" + strconv.Itoa(n) + ext
}

// Save implements Store.Save. Generations are rotated before the new file is
// written through a temp file and renamed into place.
func (s *FileStore) Save(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	if err := s.rotate(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck,gosec // sync error takes precedence
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("install snapshot: %w", err)
	}

	s.log.Debug(ctx, "snapshot written")
	return nil
}

// rotate shifts every existing generation one step older, dropping the
// oldest beyond keep.
func (s *FileStore) rotate() error {
	if s.keep == 0 {
		return nil
	}
	for n := s.keep - 1; n >= 0; n-- {
		from, to := s.Generation(n), s.Generation(n+1)
		if err := os.Rename(from, to); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("rotate %s: %w", from, err)
		}
	}
	return nil
}

// Load implements Store.Load.
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return blob, nil
}

// Close implements Store.Close.
func (s *FileStore) Close() error { return nil }
