// Package kv is the durable key-value storage the task store mirrors itself
// into: string keys, string values.
package kv

import (
	"errors"
	"sort"
	"sync"
)

var ErrClosed = errors.New("kv store is closed")

// Store reads and writes string values by key.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Batcher is implemented by stores that can write several keys atomically.
type Batcher interface {
	SetMany(entries map[string]string) error
}

// Memory is a map-backed Store. It does not survive the process.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: map[string]string{}}
}

func (s *Memory) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *Memory) SetMany(entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.m[k] = v
	}
	return nil
}

func (s *Memory) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

func (s *Memory) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
