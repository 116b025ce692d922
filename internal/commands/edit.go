package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/task"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only the flagged fields are sent;
// the server returns the full updated task.
type EditCmd struct {
	title     string
	desc      string
	clearDesc bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Update a task's title or description" }
func (c *EditCmd) Usage() string {
	return "todoctl edit [common flags] [--title <text>] [--desc <text>] [--clear-desc] <task-id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.desc, "desc", "", "")
	fs.BoolVar(&c.clearDesc, "clear-desc", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		if err == ErrTaskIDRequired {
			fmt.Fprintln(errOut, "error: task id required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	var patch service.TaskPatch
	if c.title != "" {
		patch.Title = &c.title
	}
	switch {
	case c.clearDesc:
		empty := ""
		patch.Description = &empty
	case c.desc != "":
		patch.Description = &c.desc
	}

	if patch.Title == nil && patch.Description == nil {
		fmt.Fprintln(errOut, "error: nothing to update (use --title, --desc, or --clear-desc)")
		return exitcode.UserError
	}

	userID, err := resolveUserID(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}

	if _, err := task.NewStore(svc).Update(ctx, userID, id, patch); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
