package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todoctl/internal/chat"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/output"
	"todoctl/internal/service"
)

func init() {
	Register(&ChatCmd{})
}

// ChatCmd implements the chat command. The transcript and thread id persist
// across invocations until --reset.
type ChatCmd struct {
	reset   bool
	history bool
}

func (c *ChatCmd) Name() string      { return "chat" }
func (c *ChatCmd) Aliases() []string { return nil }
func (c *ChatCmd) Synopsis() string  { return "Talk to the task assistant" }
func (c *ChatCmd) Usage() string {
	return "todoctl chat [common flags] [--history | --reset] <message...>"
}
func (c *ChatCmd) NeedsAuth() bool { return true }

func (c *ChatCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.reset, "reset", false, "")
	fs.BoolVar(&c.history, "history", false, "")
}

func (c *ChatCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	store := chat.NewStore(svc, cfg.ChatSessionPath())

	if c.reset {
		if err := store.Reset(); err != nil {
			fmt.Fprintf(errOut, "error: failed to reset chat history: %v\n", err)
			return exitcode.UserError
		}
		if !cfg.Quiet {
			fmt.Fprintln(out, "ok")
		}
		return exitcode.Success
	}

	if c.history {
		msgs := store.Messages()
		if len(msgs) == 0 {
			if !cfg.Quiet {
				fmt.Fprintln(out, "no chat history")
			}
			return exitcode.Success
		}
		output.FormatTranscript(out, msgs)
		return exitcode.Success
	}

	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		fmt.Fprintln(errOut, "error: message required")
		return exitcode.UserError
	}

	userID, err := resolveUserID(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}

	// Send never fails outright: a backend error degrades into a synthetic
	// assistant message, and the conversation stays usable.
	reply := store.Send(ctx, userID, message)
	output.FormatMessage(out, reply)
	return exitcode.Success
}
