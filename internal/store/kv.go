package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"

	"walletlink/internal/domain"
)

const (
	kvFile       = "keystore.json"
	sealedKVFile = "keystore.json.enc"
)

// FileKV stores all entries in one JSON object on disk. When constructed with
// a passphrase the object is sealed with scrypt + ChaCha20-Poly1305.
type FileKV struct {
	path       string
	passphrase string
	params     scryptParams
	mu         sync.Mutex
}

// NewFileKV returns a plaintext FileKV rooted at dir.
func NewFileKV(dir string) *FileKV {
	return &FileKV{path: filepath.Join(dir, kvFile)}
}

// NewSealedFileKV returns a FileKV rooted at dir whose file is sealed with passphrase.
func NewSealedFileKV(dir, passphrase string) *FileKV {
	return &FileKV{
		path:       filepath.Join(dir, sealedKVFile),
		passphrase: passphrase,
		params:     defaultScryptParams(),
	}
}

// Path returns the backing file.
func (s *FileKV) Path() string { return s.path }

func (s *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (s *FileKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = value
	return s.save(m)
}

func (s *FileKV) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.save(m)
}

func (s *FileKV) load() (map[string]string, error) {
	m := make(map[string]string)
	b, err := readFile(s.path)
	if err != nil || b == nil {
		return m, err
	}
	if s.passphrase != "" {
		if b, err = open(s.passphrase, b); err != nil {
			return nil, err
		}
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *FileKV) save(m map[string]string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if s.passphrase != "" {
		if b, err = seal(s.passphrase, b, s.params); err != nil {
			return err
		}
	}
	return writeFile(s.path, b, 0o600)
}

// MemoryKV keeps entries in process memory. It is lost on exit.
type MemoryKV struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string]string)}
}

func (s *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryKV) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

// Compile-time assertions that both backends implement domain.KVStore.
var (
	_ domain.KVStore = (*FileKV)(nil)
	_ domain.KVStore = (*MemoryKV)(nil)
)
