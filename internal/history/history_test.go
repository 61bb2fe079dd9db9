package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chat/internal/llm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "chat_history.json"), 3)
}

func countSystem(messages []llm.Message) int {
	n := 0
	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			n++
		}
	}
	return n
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "auto.json"), 100)
	s.SetSystemMessage("You are X")
	require.NoError(t, s.Append(llm.RoleUser, "hi"))
	require.NoError(t, s.Append(llm.RoleAssistant, "hello"))

	path := filepath.Join(t.TempDir(), "saved.json")
	require.NoError(t, s.Save(path))

	other := New(filepath.Join(t.TempDir(), "other.json"), 100)
	require.NoError(t, other.Load(path))
	assert.Equal(t, s.Messages(), other.Messages())
}

func TestStore_SaveFormat(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(llm.RoleUser, "hi"))

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"role\": \"user\",\n    \"content\": \"hi\"\n  }\n]", string(data))
}

func TestStore_SaveEmptyWritesArray(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(""))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStore_SaveFailureKeepsTranscript(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(llm.RoleUser, "hi"))

	err := s.Save(filepath.Join(t.TempDir(), "missing", "dir", "out.json"))
	require.Error(t, err)
	assert.Equal(t, []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, s.Messages())
}

func TestStore_SetSystemMessage(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(llm.RoleUser, "hi"))
	require.NoError(t, s.Append(llm.RoleAssistant, "hello"))

	replaced := s.SetSystemMessage("You are X")
	assert.False(t, replaced)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: "You are X"}, s.Messages()[0])

	replaced = s.SetSystemMessage("You are Y")
	assert.True(t, replaced)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: "You are Y"}, s.Messages()[0])
	assert.Equal(t, 1, countSystem(s.Messages()))
}

func TestStore_SetSystemMessageKeepsPosition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mid.json")
	data := `[{"role":"user","content":"a"},{"role":"system","content":"old"},{"role":"assistant","content":"b"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	s := New(filepath.Join(dir, "auto.json"), 100)
	require.NoError(t, s.Load(path))

	assert.True(t, s.SetSystemMessage("new"))
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: "new"}, s.Messages()[1])
	assert.Equal(t, 3, s.Len())
}

func TestStore_AtMostOneSystemMessage(t *testing.T) {
	s := newTestStore(t)
	ops := []func(){
		func() { s.SetSystemMessage("a") },
		func() { _ = s.Append(llm.RoleUser, "hi") },
		func() { s.SetSystemMessage("b") },
		func() { _ = s.Clear() },
		func() { s.SetSystemMessage("c") },
		func() { s.SetSystemMessage("d") },
		func() { _ = s.Append(llm.RoleAssistant, "yo") },
	}
	for _, op := range ops {
		op()
		assert.LessOrEqual(t, countSystem(s.Messages()), 1)
	}
}

func TestStore_ClearRemovesEverything(t *testing.T) {
	s := newTestStore(t)
	s.SetSystemMessage("persona")
	require.NoError(t, s.Append(llm.RoleUser, "hi"))

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Len())
}

func TestStore_AutosaveEveryThreeMutations(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Append(llm.RoleUser, "1"))
	require.NoError(t, s.Append(llm.RoleAssistant, "2"))
	assert.Equal(t, 2, s.Pending())
	assert.NoFileExists(t, s.Path())

	require.NoError(t, s.Append(llm.RoleUser, "3"))
	assert.Equal(t, 0, s.Pending())
	require.FileExists(t, s.Path())

	var saved []llm.Message
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Len(t, saved, 3)

	// clear and load count as mutations too
	require.NoError(t, s.Clear())
	require.NoError(t, s.Append(llm.RoleUser, "4"))
	assert.Equal(t, 2, s.Pending())

	other := filepath.Join(t.TempDir(), "other.json")
	require.NoError(t, os.WriteFile(other, []byte(`[{"role":"user","content":"x"}]`), 0644))
	require.NoError(t, s.Load(other))
	assert.Equal(t, 0, s.Pending())

	data, err = os.ReadFile(s.Path())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, []llm.Message{{Role: llm.RoleUser, Content: "x"}}, saved)
}

func TestStore_AutosaveFailureKeepsAppend(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing", "auto.json"), 1)

	err := s.Append(llm.RoleUser, "hi")
	require.ErrorIs(t, err, ErrAutosave)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.Pending())
}

func TestStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`[{"role": "user", `), 0644))
	badRole := filepath.Join(dir, "badrole.json")
	require.NoError(t, os.WriteFile(badRole, []byte(`[{"role":"tool","content":"x"}]`), 0644))
	twoSystems := filepath.Join(dir, "two.json")
	require.NoError(t, os.WriteFile(twoSystems, []byte(`[{"role":"system","content":"a"},{"role":"system","content":"b"}]`), 0644))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.json"), wantErr: ErrNotFound},
		{name: "invalid json", path: invalid, wantErr: ErrMalformed},
		{name: "unknown role", path: badRole, wantErr: ErrMalformed},
		{name: "two system messages", path: twoSystems, wantErr: ErrMalformed},
		{name: "directory", path: dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			s.SetSystemMessage("persona")
			require.NoError(t, s.Append(llm.RoleUser, "hi"))
			before := s.Messages()
			pending := s.Pending()

			err := s.Load(tt.path)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NotErrorIs(t, err, ErrNotFound)
				assert.NotErrorIs(t, err, ErrMalformed)
			}
			assert.Equal(t, before, s.Messages())
			assert.Equal(t, pending, s.Pending())
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("no file starts empty", func(t *testing.T) {
		s, err := Open(filepath.Join(t.TempDir(), "chat_history.json"), 3)
		require.NoError(t, err)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("restores existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chat_history.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"role":"user","content":"hi"}]`), 0644))

		s, err := Open(path, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Len())
		assert.Equal(t, 0, s.Pending())
	})

	t.Run("corrupt file warns and starts empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chat_history.json")
		require.NoError(t, os.WriteFile(path, []byte(`{oops`), 0644))

		s, err := Open(path, 3)
		require.ErrorIs(t, err, ErrMalformed)
		require.NotNil(t, s)
		assert.Equal(t, 0, s.Len())
	})
}
