package config

import (
	"sync"
)

// Prompt kinds
const (
	PromptSystem = "system"
	PromptUser   = "user"
)

// LoadedPrompt holds the override content of one operation. Empty fields mean
// the built-in prompt is used.
type LoadedPrompt struct {
	System       string
	User         string
	SystemSource string // "file:<path>" or "config"
	UserSource   string
}

// PromptStore holds prompt overrides and is safe for concurrent use; the
// prompt watcher swaps entries while flows read them.
type PromptStore struct {
	mu      sync.RWMutex
	prompts map[string]LoadedPrompt
}

// NewPromptStore creates an empty store
func NewPromptStore() *PromptStore {
	return &PromptStore{prompts: make(map[string]LoadedPrompt)}
}

// Get returns a copy of the overrides for an operation
func (s *PromptStore) Get(operation string) LoadedPrompt {
	if s == nil {
		return LoadedPrompt{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompts[operation]
}

// Set stores an override for one prompt kind of an operation
func (s *PromptStore) Set(operation, kind, content, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.prompts[operation]
	switch kind {
	case PromptSystem:
		p.System, p.SystemSource = content, source
	case PromptUser:
		p.User, p.UserSource = content, source
	}
	s.prompts[operation] = p
}

// Count returns the number of non-empty overrides
func (s *PromptStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.prompts {
		if p.System != "" {
			count++
		}
		if p.User != "" {
			count++
		}
	}
	return count
}

// Prompts returns the prompt overrides loaded for this configuration
func (c *Config) Prompts() *PromptStore {
	if c.prompts == nil {
		c.prompts = NewPromptStore()
	}
	return c.prompts
}
