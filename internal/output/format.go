// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todoctl/internal/service"
)

// FormatTask formats one task line.
// Format: "{ID:>4}  [x]  {TITLE}\n" with "[ ]" for open tasks.
func FormatTask(w io.Writer, task service.Task) {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s  %s\n", task.ID, box, normalizeTitle(task.Title))
	if task.Description != "" {
		fmt.Fprintf(w, "           %s\n", normalizeTitle(task.Description))
	}
}

// FormatTasks formats the whole collection in display order.
func FormatTasks(w io.Writer, tasks []service.Task) {
	for _, t := range tasks {
		FormatTask(w, t)
	}
}

// FormatMessage formats one transcript entry.
// Format: "{you|assistant}> {CONTENT}\n", with a trailing "(failed)" marker
// for messages that never reached the backend.
func FormatMessage(w io.Writer, msg service.ChatMessage) {
	speaker := "assistant"
	if msg.Role == service.RoleUser {
		speaker = "you"
	}
	suffix := ""
	if msg.Status == service.StatusFailed {
		suffix = " (failed)"
	}
	fmt.Fprintf(w, "%s> %s%s\n", speaker, normalizeTitle(msg.Content), suffix)
}

// FormatTranscript formats the conversation in order.
func FormatTranscript(w io.Writer, msgs []service.ChatMessage) {
	for _, m := range msgs {
		FormatMessage(w, m)
	}
}

// normalizeTitle normalizes text for single-line display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.TrimSpace(s) == "" {
		return "(untitled)"
	}
	return s
}
