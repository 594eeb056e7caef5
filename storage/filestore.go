package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileStore persists the whole key space as one JSON object in a file,
// written through on every Set/Delete. It is the desktop analog of the
// browser's localStorage: small, human-inspectable, and disposable.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFileStore loads the store at path, starting empty when the file is
// missing. A corrupt file is an error; callers decide whether to discard it.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}
	if err := json.Unmarshal(raw, &fs.data); err != nil {
		return nil, fmt.Errorf("parsing store file %s: %w", path, err)
	}
	return fs, nil
}

func (f *FileStore) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return f.flush()
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return f.flush()
}

func (f *FileStore) flush() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store file: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0644); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	return nil
}
