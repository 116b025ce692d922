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
	Register(&WhoamiCmd{})
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct {
	svc service.Service // injected in tests
}

// SetService overrides the backend (for testing).
func (c *WhoamiCmd) SetService(svc service.Service) { c.svc = svc }

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the signed-in account" }
func (c *WhoamiCmd) Usage() string     { return "todoctl whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, _ service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	tokens := auth.NewStore(cfg)
	svc := c.svc
	if svc == nil {
		svc = todoapi.NewUnauthenticated(cfg, tokens)
	}

	user := session.NewManager(svc, tokens).GetSession(ctx)
	if user == nil {
		fmt.Fprintln(errOut, "error: not signed in (run: todoctl login)")
		return exitcode.AuthError
	}

	fmt.Fprintf(out, "%s <%s> (%s)\n", user.Name, user.Email, user.ID)
	return exitcode.Success
}
