package main

import (
	"strings"
	"unicode"
)

// Command is one parsed line of user input.
type Command interface {
	command()
}

type (
	// ExitCommand saves the transcript and ends the session.
	ExitCommand struct{}
	// HelpCommand lists the available commands.
	HelpCommand struct{}
	// ClearCommand empties the transcript.
	ClearCommand struct{}
	// SaveCommand writes the transcript to Path, or the default file.
	SaveCommand struct{ Path string }
	// LoadCommand replaces the transcript with Path, or the default file.
	LoadCommand struct{ Path string }
	// ModelCommand switches the model. An empty Name is an error.
	ModelCommand struct{ Name string }
	// EmptyCommand is a blank line.
	EmptyCommand struct{}
	// MessageCommand is text for the model.
	MessageCommand struct{ Text string }
)

func (ExitCommand) command()    {}
func (HelpCommand) command()    {}
func (ClearCommand) command()   {}
func (SaveCommand) command()    {}
func (LoadCommand) command()    {}
func (ModelCommand) command()   {}
func (EmptyCommand) command()   {}
func (MessageCommand) command() {}

// ParseCommand decodes a line. The command word is matched exactly and
// case-insensitively; anything that is not a known command is a message.
func ParseCommand(line string) Command {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return EmptyCommand{}
	}
	if !strings.HasPrefix(trimmed, "/") {
		return MessageCommand{Text: line}
	}

	word, arg := trimmed, ""
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i >= 0 {
		word, arg = trimmed[:i], strings.TrimSpace(trimmed[i:])
	}

	switch strings.ToLower(word) {
	case "/exit", "/quit":
		return ExitCommand{}
	case "/help":
		return HelpCommand{}
	case "/clear":
		return ClearCommand{}
	case "/save":
		return SaveCommand{Path: arg}
	case "/load":
		return LoadCommand{Path: arg}
	case "/model":
		return ModelCommand{Name: arg}
	}
	return MessageCommand{Text: line}
}

var helpLines = []string{
	"/help - Show this help message",
	"/exit or /quit - Exit the chat",
	"/clear - Clear conversation history",
	"/save [filename] - Save conversation history",
	"/load [filename] - Load conversation history",
	"/model [model_name] - Change the model",
}
