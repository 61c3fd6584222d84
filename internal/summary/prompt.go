package summary

import (
	"strings"

	"github.com/groupdigest/digestbot/internal/database"
)

// DefaultInstruction is the summary instruction used when none is configured.
const DefaultInstruction = "Please provide a concise summary of the following group chat messages. " +
	"Focus on the main topics, key points, and important information discussed."

// DefaultMaxPromptChars bounds the rendered prompt size. Gemini's context
// window comfortably fits this many characters.
const DefaultMaxPromptChars = 200000

// BuildPrompt renders an ordered message window into the text payload sent to
// the model: the instruction, a "Messages:" block with one "sender: text" line
// per message in original order, and a trailing "Summary:" marker. It is a
// pure function: identical input yields a byte-identical prompt.
//
// When the rendering exceeds maxChars, the oldest messages are dropped whole
// until it fits; if the newest message alone is over budget, its head is kept.
// maxChars <= 0 falls back to DefaultMaxPromptChars.
func BuildPrompt(instruction string, messages []database.Message, maxChars int) string {
	if instruction == "" {
		instruction = DefaultInstruction
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}

	header := instruction + "\n\nMessages:\n"
	const footer = "\nSummary:"

	budget := maxChars - len(header) - len(footer)
	if budget < 0 {
		budget = 0
	}

	lines := make([]string, len(messages))
	total := 0
	for i, m := range messages {
		lines[i] = m.Sender + ": " + m.Content + "\n"
		total += len(lines[i])
	}

	start := 0
	for start < len(lines) && total > budget {
		total -= len(lines[start])
		start++
	}

	var b strings.Builder
	b.WriteString(header)
	if start == len(lines) && len(lines) > 0 && budget > 0 {
		// Even the newest message alone exceeds the budget.
		line := lines[len(lines)-1]
		b.WriteString(strings.ToValidUTF8(line[:budget], ""))
	} else {
		for _, line := range lines[start:] {
			b.WriteString(line)
		}
	}
	b.WriteString(footer)

	return b.String()
}
