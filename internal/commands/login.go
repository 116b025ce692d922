package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/apierr"
	"todoctl/internal/auth"
	"todoctl/internal/backend/todoapi"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string

	svc service.Service // injected in tests
}

// SetService overrides the backend (for testing).
func (c *LoginCmd) SetService(svc service.Service) { c.svc = svc }

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return []string{"signin"} }
func (c *LoginCmd) Synopsis() string  { return "Sign in with email and password" }
func (c *LoginCmd) Usage() string {
	return "todoctl login [common flags] [--email <email>] [--password <password>]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, _ service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	tokens := auth.NewStore(cfg)
	svc := c.svc
	if svc == nil {
		svc = todoapi.NewUnauthenticated(cfg, tokens)
	}
	mgr := session.NewManager(svc, tokens)

	// A stored token that still validates means there is nothing to do.
	if cfg.HasToken() && mgr.GetSession(ctx) != nil {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already signed in")
		}
		return exitcode.Success
	}

	email := c.email
	if email == "" {
		var err error
		if email, err = promptLine(in, errOut, "email"); err != nil || email == "" {
			fmt.Fprintln(errOut, "error: email required")
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

	user, err := mgr.SignIn(ctx, email, password)
	if err != nil {
		return failSignIn(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "signed in as %s\n", user.Email)
	}
	return exitcode.Success
}

// failSignIn maps sign-in failures: bad or rejected credentials are an auth
// error, the rest go through the shared mapping.
func failSignIn(errOut io.Writer, err error) int {
	if apierr.IsUnauthorized(err) || apierr.IsValidation(err) {
		fmt.Fprintln(errOut, "error: invalid credentials")
		return exitcode.AuthError
	}
	return fail(errOut, err)
}
