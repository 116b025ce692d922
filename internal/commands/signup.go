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
	Register(&SignupCmd{})
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	email    string
	password string
	name     string

	svc service.Service // injected in tests
}

// SetService overrides the backend (for testing).
func (c *SignupCmd) SetService(svc service.Service) { c.svc = svc }

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return []string{"register"} }
func (c *SignupCmd) Synopsis() string  { return "Create an account and sign in" }
func (c *SignupCmd) Usage() string {
	return "todoctl signup [common flags] [--email <email>] [--password <password>] [--name <name>]"
}
func (c *SignupCmd) NeedsAuth() bool { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.name, "name", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, _ service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	tokens := auth.NewStore(cfg)
	svc := c.svc
	if svc == nil {
		svc = todoapi.NewUnauthenticated(cfg, tokens)
	}
	mgr := session.NewManager(svc, tokens)

	email := c.email
	if email == "" {
		var err error
		if email, err = promptLine(in, errOut, "email"); err != nil || email == "" {
			fmt.Fprintln(errOut, "error: email required")
			return exitcode.UserError
		}
	}

	name := c.name
	if name == "" {
		var err error
		if name, err = promptLine(in, errOut, "name"); err != nil || name == "" {
			fmt.Fprintln(errOut, "error: name required")
			return exitcode.UserError
		}
	}

	password := c.password
	if password == "" {
		var err error
		if password, err = promptPassword(in, errOut, "password"); err != nil || password == "" {
			fmt.Fprintln(errOut, "error: password required")
			return exitcode.UserError
		}
	}

	user, err := mgr.SignUp(ctx, email, password, name)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "signed up as %s\n", user.Email)
	}
	return exitcode.Success
}
