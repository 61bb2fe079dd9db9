// Package history keeps the ordered conversation transcript and persists it
// as a pretty-printed JSON array of role/content pairs.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go-chat/internal/llm"
)

const (
	// DefaultPath is the autosave file, relative to the working directory.
	DefaultPath = "chat_history.json"
	// DefaultAutosaveEvery is the number of mutations between autosaves.
	DefaultAutosaveEvery = 3
)

var (
	ErrNotFound  = errors.New("history file not found")
	ErrMalformed = errors.New("invalid history JSON")
	ErrAutosave  = errors.New("autosave failed")
)

// Store is the in-memory transcript. It holds at most one system message.
// Store is not safe for concurrent use.
type Store struct {
	messages []llm.Message
	path     string
	every    int
	pending  int
}

// New returns an empty store autosaving to path every n mutations.
func New(path string, every int) *Store {
	if path == "" {
		path = DefaultPath
	}
	if every < 1 {
		every = DefaultAutosaveEvery
	}
	return &Store{
		messages: make([]llm.Message, 0),
		path:     path,
		every:    every,
	}
}

// Open returns a store and restores it from path when that file exists.
// A failed restore is returned alongside a usable empty store so the caller
// can warn and carry on.
func Open(path string, every int) (*Store, error) {
	s := New(path, every)
	if _, err := os.Stat(s.path); err != nil {
		return s, nil
	}
	if err := s.Load(s.path); err != nil {
		return s, err
	}
	// restoring at startup is not a mutation of this session
	s.pending = 0
	return s, nil
}

// Path returns the autosave path.
func (s *Store) Path() string { return s.path }

// Len returns the number of messages.
func (s *Store) Len() int { return len(s.messages) }

// Pending returns the number of mutations since the last autosave.
func (s *Store) Pending() int { return s.pending }

// Messages returns a copy of the transcript, oldest first.
func (s *Store) Messages() []llm.Message {
	out := make([]llm.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Append adds a message at the end. The message is kept even when the
// autosave it triggers fails; that failure is returned wrapped in ErrAutosave.
func (s *Store) Append(role llm.Role, content string) error {
	s.messages = append(s.messages, llm.Message{Role: role, Content: content})
	return s.mutated()
}

// Clear empties the transcript, system message included.
func (s *Store) Clear() error {
	s.messages = make([]llm.Message, 0)
	return s.mutated()
}

// SetSystemMessage replaces the content of the existing system message in
// place, or inserts one at index 0. It reports whether a message was replaced.
func (s *Store) SetSystemMessage(content string) (replaced bool) {
	for i, m := range s.messages {
		if m.Role == llm.RoleSystem {
			s.messages[i] = llm.Message{Role: llm.RoleSystem, Content: content}
			return true
		}
	}
	s.messages = append([]llm.Message{{Role: llm.RoleSystem, Content: content}}, s.messages...)
	return false
}

// Save writes the transcript to path, or to the autosave path when path is
// empty, overwriting any existing file.
func (s *Store) Save(path string) error {
	if path == "" {
		path = s.path
	}
	data, err := json.MarshalIndent(s.messages, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write history %s: %w", path, err)
	}
	return nil
}

// Load replaces the transcript with the contents of path, or of the autosave
// path when path is empty. On any error the transcript is left untouched.
func (s *Store) Load(path string) error {
	if path == "" {
		path = s.path
	}
	messages, err := readFile(path)
	if err != nil {
		return err
	}
	s.messages = messages
	return s.mutated()
}

func readFile(path string) ([]llm.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read history %s: %w", path, err)
	}

	var messages []llm.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("%w in %s: %v", ErrMalformed, path, err)
	}
	if messages == nil {
		messages = make([]llm.Message, 0)
	}

	systems := 0
	for i, m := range messages {
		if !m.Role.Valid() {
			return nil, fmt.Errorf("%w in %s: message %d has unknown role %q", ErrMalformed, path, i, m.Role)
		}
		if m.Role == llm.RoleSystem {
			systems++
		}
	}
	if systems > 1 {
		return nil, fmt.Errorf("%w in %s: %d system messages", ErrMalformed, path, systems)
	}
	return messages, nil
}

// mutated advances the autosave counter and saves once it reaches the
// threshold. The counter is reset whether or not the save succeeds.
func (s *Store) mutated() error {
	s.pending++
	if s.pending < s.every {
		return nil
	}
	s.pending = 0
	if err := s.Save(s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrAutosave, err)
	}
	return nil
}
