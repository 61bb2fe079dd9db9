package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"go-chat/internal/history"
	"go-chat/internal/llm"
	"go-chat/internal/typing"
)

func main() {
	ctx := context.Background()

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(config.LogLevel).With(slog.String("session", uuid.NewString()))

	headerColor.Printf("Welcome to %s\n", config.AppTitle)

	// Restore the previous conversation, if any
	store, err := history.Open(config.HistoryFile, config.AutosaveEvery)
	if err != nil {
		warnColor.Printf("Could not load previous history: %v\n", err)
	} else if store.Len() > 0 {
		successColor.Printf("Conversation history loaded from %s\n", store.Path())
	}
	if config.SystemPrompt != "" {
		store.SetSystemMessage(config.SystemPrompt)
	}

	client, err := llm.NewClient(config.Provider, config.EndpointURL, config.APIKey, config.Model,
		llm.WithHTTPClient(llm.NewHTTPClient(time.Duration(config.RequestTimeoutSeconds)*time.Second)),
		llm.WithAppTitle(config.AppTitle),
		llm.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	typer := typing.New(os.Stdout,
		typing.WithInstant(!config.TypingEffect),
		typing.WithColor(color.New(color.FgWhite)),
	)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	editor := newLineEditor()
	defer editor.Close()

	chatBot := NewChatBot(ChatBotDeps{
		Config:     config,
		Client:     client,
		History:    store,
		Typer:      typer,
		Out:        os.Stdout,
		Logger:     logger,
		Interrupts: interrupts,
	})

	logger.Debug("session started",
		slog.String("provider", config.Provider),
		slog.String("model", config.Model),
		slog.Int("messages", store.Len()))

	if err := chatBot.RunInteractive(ctx, editor); err != nil {
		logger.Error("chat error", slog.String("error", err.Error()))
	}
}

// newLogger returns a text logger on stderr at the named level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
