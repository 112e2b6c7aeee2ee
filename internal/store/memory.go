package store

import "sync"

// MemoryStore keeps content in a map, for tests and for serving
// ephemeral content without touching disk.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files: make(map[string][]byte),
	}
}

func (s *MemoryStore) Retrieve(path string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[path]
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (s *MemoryStore) Create(path string, data []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[path]; ok {
		return false, nil
	}

	s.files[path] = append([]byte(nil), data...)
	return true, nil
}

func (s *MemoryStore) Replace(path string, data []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[path]; !ok {
		return false, nil
	}

	s.files[path] = append([]byte(nil), data...)
	return true, nil
}

func (s *MemoryStore) Delete(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[path]; !ok {
		return false, nil
	}

	delete(s.files, path)
	return true, nil
}

func (s *MemoryStore) Exists(path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.files[path]
	return ok, nil
}
