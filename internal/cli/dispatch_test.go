package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"todoctl/internal/apierr"
	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/testutil"
)

func fakeFactory(fs *testutil.FakeService) ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return fs, nil
	}
}

// run dispatches args against the default registry and returns stdout,
// stderr, and the exit code.
func run(t *testing.T, factory ServiceFactory, args ...string) (string, string, int) {
	t.Helper()
	d := NewDispatcher(commands.DefaultRegistry, factory)
	var out, errOut bytes.Buffer
	code := d.Run(context.Background(), args, strings.NewReader(""), &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestUnknownCommand(t *testing.T) {
	_, errOut, code := run(t, nil, "bogus")
	if code != exitcode.UserError {
		t.Fatalf("exit code = %d", code)
	}
	if errOut != "error: unknown command: bogus\n" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestFlagBeforeCommand(t *testing.T) {
	_, errOut, code := run(t, nil, "--quiet")
	if code != exitcode.UserError {
		t.Fatalf("exit code = %d", code)
	}
	if errOut != "error: unknown command: --quiet\n" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestUnknownFlag(t *testing.T) {
	_, errOut, code := run(t, nil, "list", "--bogus")
	if code != exitcode.UserError {
		t.Fatalf("exit code = %d", code)
	}
	if errOut != "error: unknown flag: -bogus\n" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestFlagMissingValue(t *testing.T) {
	_, errOut, code := run(t, nil, "add", "--desc")
	if code != exitcode.UserError {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(errOut, "error: flag needs an argument:") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, code := run(t, nil, "version", "--config", t.TempDir())
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if out != "todoctl "+commands.Version+"\n" {
		t.Errorf("output = %q", out)
	}
}

func TestAuthPreflightWithoutToken(t *testing.T) {
	_, errOut, code := run(t, nil, "list", "--config", t.TempDir())
	if code != exitcode.AuthError {
		t.Fatalf("exit code = %d", code)
	}
	if errOut != "error: not signed in (run: todoctl login)\n" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestFactoryUnauthorized(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, apierr.New(apierr.KindUnauthorized, "not signed in (run: todoctl login)")
	}

	_, errOut, code := run(t, factory, "list", "--config", t.TempDir())
	if code != exitcode.AuthError {
		t.Fatalf("exit code = %d", code)
	}
	if errOut != "error: not signed in (run: todoctl login)\n" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestListViaDispatcher(t *testing.T) {
	fs := testutil.NewFakeService()
	fs.AddTask("Buy milk", "", false)

	out, _, code := run(t, fakeFactory(fs), "list", "--config", t.TempDir())
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if out != "   1  [ ]  Buy milk\n" {
		t.Errorf("output = %q", out)
	}
}

func TestAliasDispatch(t *testing.T) {
	fs := testutil.NewFakeService()
	fs.AddTask("Buy milk", "", false)

	out, _, code := run(t, fakeFactory(fs), "ls", "--config", t.TempDir())
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "Buy milk") {
		t.Errorf("output = %q", out)
	}
}

func TestNoArgsDefaultsToList(t *testing.T) {
	t.Setenv("TODOCTL_CONFIG_DIR", t.TempDir())
	fs := testutil.NewFakeService()

	out, _, code := run(t, fakeFactory(fs))
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if out != "no tasks found\n" {
		t.Errorf("output = %q", out)
	}
}

func TestQuietFlag(t *testing.T) {
	fs := testutil.NewFakeService()

	out, _, code := run(t, fakeFactory(fs), "add", "--quiet", "--config", t.TempDir(), "a", "task")
	if code != exitcode.Success {
		t.Fatalf("exit code = %d", code)
	}
	if out != "" {
		t.Errorf("output = %q, want empty", out)
	}
}
