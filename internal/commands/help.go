package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todoctl help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todoctl                                            List all tasks
  todoctl list [common flags] [--open]
  todoctl add [common flags] [--desc <text>] <title...>
  todoctl done [common flags] <task-id>
  todoctl edit [common flags] [--title <text>] [--desc <text>] [--clear-desc] <task-id>
  todoctl rm [common flags] [--yes] <task-id>
  todoctl chat [common flags] [--history | --reset] <message...>
  todoctl login [common flags] [--email <email>] [--password <password>]
  todoctl signup [common flags] [--email <email>] [--password <password>] [--name <name>]
  todoctl logout [common flags]
  todoctl whoami [common flags]
  todoctl help
  todoctl version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
