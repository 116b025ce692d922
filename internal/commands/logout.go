package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/auth"
	"todoctl/internal/backend/todoapi"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/session"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct {
	svc service.Service // injected in tests
}

// SetService overrides the backend (for testing).
func (c *LogoutCmd) SetService(svc service.Service) { c.svc = svc }

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return []string{"signout"} }
func (c *LogoutCmd) Synopsis() string  { return "Sign out and remove stored credentials" }
func (c *LogoutCmd) Usage() string     { return "todoctl logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, _ service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	if !cfg.HasToken() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not signed in")
		}
		return exitcode.Success
	}

	tokens := auth.NewStore(cfg)
	svc := c.svc
	if svc == nil {
		svc = todoapi.NewUnauthenticated(cfg, tokens)
	}

	// Server invalidation is best-effort; local state is cleared either way.
	session.NewManager(svc, tokens).SignOut(ctx)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
