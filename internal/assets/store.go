package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/youruser/ticketapp/internal/util"
)

// ErrNotFound is returned by a Store that has no entry for a key.
var ErrNotFound = errors.New("assets: not found")

// Store persists asset bytes by key. Keys are slash separated relative paths
// such as "fonts/PTSans-Bold.ttf".
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, b []byte) error
}

// MemStore is an in-memory Store, mostly for tests and offline renders.
type MemStore struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string][]byte{}}
}

func (s *MemStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *MemStore) Put(key string, b []byte) error {
	cp := append([]byte(nil), b...)
	s.mu.Lock()
	s.m[key] = cp
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// DirStore keeps one file per key below Root.
type DirStore struct {
	Root string
}

func NewDirStore(root string) (*DirStore, error) {
	if err := util.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("asset store %s: %w", root, err)
	}
	return &DirStore{Root: root}, nil
}

func (s *DirStore) path(key string) (string, error) {
	clean := path.Clean(key)
	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("asset store: invalid key %q", key)
	}
	return filepath.Join(s.Root, filepath.FromSlash(clean)), nil
}

func (s *DirStore) Get(key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *DirStore) Put(key string, b []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(p, b)
}
