package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(s string) error {
	f.calls = append(f.calls, s)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Navigate(_ context.Context, target string) error {
	return f.record("go " + target)
}
func (f *fakeExec) Start(context.Context) error { return f.record("start") }
func (f *fakeExec) Menu(context.Context) error  { return f.record("menu") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Signup(context.Context) error { return f.record("signup") }
func (f *fakeExec) Reset(context.Context) error  { return f.record("reset") }
func (f *fakeExec) Recover(context.Context) error {
	return f.record("recover")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Whoami(context.Context) error { return f.record("whoami") }
func (f *fakeExec) DriveKey(_ context.Context, key string) error {
	return f.record("key " + key)
}
func (f *fakeExec) DriveMode(context.Context) error { return f.record("drive") }
func (f *fakeExec) Pump(context.Context) error      { return f.record("pump") }
func (f *fakeExec) Arms(context.Context) error      { return f.record("arms") }
func (f *fakeExec) Stop(context.Context) error      { return f.record("stop") }
func (f *fakeExec) Status(context.Context) error    { return f.record("status") }
func (f *fakeExec) Retry(context.Context) error     { return f.record("retry") }
func (f *fakeExec) Snap(context.Context) error      { return f.record("snap") }
func (f *fakeExec) Photos(context.Context) error    { return f.record("photos") }
func (f *fakeExec) DeletePhoto(_ context.Context, n string) error {
	return f.record("delete " + n)
}
func (f *fakeExec) SavePhoto(_ context.Context, n string) error {
	return f.record("save " + n)
}

func silence(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrintln, origPrint := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	printFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn, printFn = origPrintln, origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silence(t)

	input := strings.Join([]string{
		"help",
		"login",
		"HOME",
		"go Gallery",
		"start",
		"menu",
		"w",
		"backward",
		"drive",
		"pump",
		"arms",
		"stop",
		"status",
		"retry",
		"snap",
		"photos",
		"delete 2",
		"save 1",
		"whoami",
		"reset",
		"recover",
		"signup",
		"logout",
		"exit",
		"pump",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login", "go home", "go gallery", "start", "menu", "key w", "key backward", "drive",
		"pump", "arms", "stop", "status", "retry", "snap", "photos", "delete 2", "save 1",
		"whoami", "reset", "recover", "signup", "logout",
	}, exec.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	lines := silence(t)

	input := "go\ndelete\nsave\n\nfoobar\nquit\n"
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader(input)))

	assert.Empty(t, exec.calls)
	assert.Equal(t, []string{
		"Usage: go <home|auth|control|gallery>",
		"Usage: delete <n>",
		"Usage: save <n>",
		"Unknown command: foobar",
		"Bye!",
	}, *lines)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := silence(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("help\nlogin\nhelp\n")))

	assert.Equal(t, []string{helpLoggedOut, helpLoggedIn, ""}, *lines)
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	silence(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("pump\narms")))

	assert.Equal(t, []string{"pump", "arms"}, exec.calls)
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	silence(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("pump\n")))

	assert.Empty(t, exec.calls)
}
