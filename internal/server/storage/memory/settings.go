package memory

import (
	"sync"

	"github.com/dmitrijs2005/promptvault/internal/common"
)

// Settings is a string key/value map.
type Settings struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewSettings() *Settings {
	return &Settings{values: make(map[string]string)}
}

func (s *Settings) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", common.ErrorNotFound
	}
	return v, nil
}

func (s *Settings) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}
