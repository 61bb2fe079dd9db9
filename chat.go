package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"go-chat/internal/history"
	"go-chat/internal/llm"
	"go-chat/internal/typing"
)

const userPrompt = "You: "

var (
	headerColor  = color.New(color.FgMagenta, color.Bold)
	modelColor   = color.New(color.FgBlue)
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

// ChatBotDeps groups what a ChatBot needs.
type ChatBotDeps struct {
	Config  *Config
	Client  llm.LLMClient
	History *history.Store
	Typer   *typing.Typewriter
	Out     io.Writer
	Logger  *slog.Logger
	// Interrupts receives SIGINT delivered while no prompt is active.
	Interrupts <-chan os.Signal
}

// ChatBot is one interactive session. It owns the transcript and the model
// configuration; nothing in it is shared.
type ChatBot struct {
	config     *Config
	client     llm.LLMClient
	history    *history.Store
	typer      *typing.Typewriter
	out        io.Writer
	logger     *slog.Logger
	interrupts <-chan os.Signal

	autosaveFailing bool
}

// NewChatBot creates a new ChatBot instance
func NewChatBot(deps ChatBotDeps) *ChatBot {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	typer := deps.Typer
	if typer == nil {
		typer = typing.New(out)
	}
	return &ChatBot{
		config:     deps.Config,
		client:     deps.Client,
		history:    deps.History,
		typer:      typer,
		out:        out,
		logger:     logger,
		interrupts: deps.Interrupts,
	}
}

// RunInteractive reads and executes lines until the user exits or input
// ends. Each line is fully processed before the next is read.
func (cb *ChatBot) RunInteractive(ctx context.Context, reader LineReader) error {
	cb.printBanner()

	for {
		done := cb.step(ctx, reader)
		cb.autosave()
		if done {
			return nil
		}
	}
}

// step handles one line. A panic is reported and the session carries on.
func (cb *ChatBot) step(ctx context.Context, reader LineReader) (done bool) {
	defer func() {
		if r := recover(); r != nil {
			cb.logger.Error("recovered from panic", slog.Any("panic", r))
			errorColor.Fprintf(cb.out, "Error: %v\n", r)
			done = false
		}
	}()

	cb.drainInterrupts()

	line, err := reader.Prompt(userPrompt)
	switch {
	case errors.Is(err, liner.ErrPromptAborted):
		cb.printInterrupted()
		return false
	case errors.Is(err, io.EOF):
		fmt.Fprintln(cb.out)
		return cb.Execute(ctx, ExitCommand{})
	case err != nil:
		errorColor.Fprintf(cb.out, "Error reading input: %v\n", err)
		return cb.Execute(ctx, ExitCommand{})
	}

	return cb.Execute(ctx, ParseCommand(line))
}

// Execute runs one command and reports whether the session is over.
func (cb *ChatBot) Execute(ctx context.Context, cmd Command) bool {
	switch c := cmd.(type) {
	case ExitCommand:
		warnColor.Fprintln(cb.out, "\nSaving chat history and exiting chat...")
		if err := cb.history.Save(""); err != nil {
			errorColor.Fprintf(cb.out, "Error saving conversation history: %v\n", err)
		}
		return true
	case HelpCommand:
		cb.printHelp()
	case ClearCommand:
		err := cb.history.Clear()
		successColor.Fprintln(cb.out, "Conversation history cleared.")
		cb.reportAutosave(err)
	case SaveCommand:
		cb.save(c.Path)
	case LoadCommand:
		cb.load(c.Path)
	case ModelCommand:
		if c.Name == "" {
			errorColor.Fprintln(cb.out, "Please specify a model name.")
			break
		}
		cb.client.SetModel(c.Name)
		cb.config.Model = c.Name
		successColor.Fprintf(cb.out, "Model changed to: %s\n", c.Name)
	case EmptyCommand:
	case MessageCommand:
		cb.converse(ctx, c.Text)
	default:
		cb.logger.Error("unhandled command", slog.String("type", fmt.Sprintf("%T", cmd)))
	}
	return false
}

// Send appends text as a user message, asks the model and appends the
// reply. On failure the transcript keeps only the user message.
func (cb *ChatBot) Send(ctx context.Context, text string) (string, error) {
	cb.reportAutosave(cb.history.Append(llm.RoleUser, text))

	reply, err := cb.client.Generate(ctx, cb.history.Messages())
	if err != nil {
		return "", err
	}

	cb.reportAutosave(cb.history.Append(llm.RoleAssistant, reply))
	return reply, nil
}

func (cb *ChatBot) converse(ctx context.Context, text string) {
	successColor.Fprintf(cb.out, "\n%s: ", cb.config.AssistantName)

	reply, err := cb.Send(ctx, text)
	if err != nil {
		cb.logger.Debug("completion failed", slog.String("error", err.Error()))
		cb.reportFailure(err)
	}
	if reply == "" {
		errorColor.Fprintln(cb.out, "\nFailed to get a response.")
		return
	}

	if err := cb.typer.Render(reply); err != nil {
		cb.logger.Debug("render reply", slog.String("error", err.Error()))
	}
}

func (cb *ChatBot) reportFailure(err error) {
	var statusErr *llm.StatusError
	var netErr *llm.NetworkError
	switch {
	case errors.As(err, &statusErr):
		errorColor.Fprintf(cb.out, "Error: %d - %s\n", statusErr.StatusCode, statusErr.Body)
	case errors.As(err, &netErr):
		errorColor.Fprintf(cb.out, "Network error: %v\n", netErr.Err)
	case errors.Is(err, llm.ErrEmptyResponse):
		errorColor.Fprintln(cb.out, "Error: the model returned no choices.")
	default:
		errorColor.Fprintf(cb.out, "An unexpected error occurred: %v\n", err)
	}
}

func (cb *ChatBot) save(path string) {
	if path == "" {
		path = cb.history.Path()
	}
	if err := cb.history.Save(path); err != nil {
		errorColor.Fprintf(cb.out, "Error saving conversation history: %v\n", err)
		return
	}
	successColor.Fprintf(cb.out, "Conversation history saved to %s\n", path)
}

func (cb *ChatBot) load(path string) {
	if path == "" {
		path = cb.history.Path()
	}
	err := cb.history.Load(path)
	switch {
	case err == nil:
		successColor.Fprintf(cb.out, "Conversation history loaded from %s\n", path)
	case errors.Is(err, history.ErrAutosave):
		successColor.Fprintf(cb.out, "Conversation history loaded from %s\n", path)
		cb.reportAutosave(err)
	case errors.Is(err, history.ErrNotFound):
		errorColor.Fprintf(cb.out, "File %s not found.\n", path)
	case errors.Is(err, history.ErrMalformed):
		errorColor.Fprintf(cb.out, "Invalid history file: %v\n", err)
	default:
		errorColor.Fprintf(cb.out, "Error loading conversation history: %v\n", err)
	}
}

// reportAutosave tells the user about a failed mutation-triggered autosave.
func (cb *ChatBot) reportAutosave(err error) {
	if err != nil {
		warnColor.Fprintf(cb.out, "Autosave failed: %v\n", err)
	}
}

// autosave runs after every line. Failures are not shown in the chat; the
// first one of a streak is logged at warn level and the rest at debug.
func (cb *ChatBot) autosave() {
	err := cb.history.Save("")
	switch {
	case err == nil && cb.autosaveFailing:
		cb.autosaveFailing = false
		cb.logger.Info("autosave recovered", slog.String("path", cb.history.Path()))
	case err != nil && !cb.autosaveFailing:
		cb.autosaveFailing = true
		cb.logger.Warn("autosave failed", slog.String("path", cb.history.Path()), slog.String("error", err.Error()))
	case err != nil:
		cb.logger.Debug("autosave failed", slog.String("error", err.Error()))
	}
}

func (cb *ChatBot) drainInterrupts() {
	for {
		select {
		case <-cb.interrupts:
			cb.printInterrupted()
		default:
			return
		}
	}
}

func (cb *ChatBot) printInterrupted() {
	warnColor.Fprintln(cb.out, "\nInterrupted. Type '/exit' to quit or continue chatting.")
}

func (cb *ChatBot) printBanner() {
	headerColor.Fprintf(cb.out, "\n%s\n", cb.config.AppTitle)
	modelColor.Fprintf(cb.out, "Model: %s\n", cb.client.Model())
	infoColor.Fprintln(cb.out, "Type '/help' to see available commands.")
	fmt.Fprintln(cb.out)
}

func (cb *ChatBot) printHelp() {
	infoColor.Fprintln(cb.out, "\nAvailable commands:")
	for _, line := range helpLines {
		infoColor.Fprintln(cb.out, line)
	}
	fmt.Fprintln(cb.out)
}
