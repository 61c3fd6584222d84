package handlers

import (
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestHelpText(t *testing.T) {
	t.Parallel()

	usage := "Usage: /summarize <window>"
	commands := []models.BotCommand{
		{Command: "summarize", Description: "Summarize recent group messages"},
		{Command: "help", Description: "Show summarize window syntax"},
	}

	want := "Usage: /summarize <window>\n\n" +
		"Commands:\n" +
		"/summarize - Summarize recent group messages\n" +
		"/help - Show summarize window syntax"
	if got := helpText(usage, commands); got != want {
		t.Errorf("helpText() = %q, want %q", got, want)
	}
}

func TestHelpTextListsEveryBotCommand(t *testing.T) {
	t.Parallel()

	text := helpText("usage", BotCommands())
	for _, cmd := range BotCommands() {
		line := "/" + cmd.Command + " - " + cmd.Description
		if !strings.Contains(text, line) {
			t.Errorf("helpText() missing command line %q", line)
		}
	}
}

func TestBotCommandsMatchRegisteredHandlers(t *testing.T) {
	t.Parallel()

	registered := RegisterAllCommands(HandlerDeps{})

	advertised := make(map[string]bool, len(BotCommands()))
	for _, cmd := range BotCommands() {
		advertised[cmd.Command] = true
		if _, ok := registered["/"+cmd.Command]; !ok {
			t.Errorf("advertised command %q has no registered handler", cmd.Command)
		}
	}

	for pattern := range registered {
		if !advertised[strings.TrimPrefix(pattern, "/")] {
			t.Errorf("registered handler %q is missing from the command menu", pattern)
		}
	}
}
