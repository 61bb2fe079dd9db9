package main

import (
	"strings"

	"github.com/peterh/liner"
)

// LineReader reads one line of user input. Implementations return
// liner.ErrPromptAborted on Ctrl+C and io.EOF when input is exhausted.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// lineEditor is a LineReader with line editing and in-session history.
type lineEditor struct {
	state *liner.State
}

func newLineEditor() *lineEditor {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &lineEditor{state: state}
}

func (e *lineEditor) Prompt(prompt string) (string, error) {
	line, err := e.state.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		e.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal.
func (e *lineEditor) Close() error {
	return e.state.Close()
}
