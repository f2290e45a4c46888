package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool
	admin    bool

	calls []string
	args  []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isAdmin() bool    { return f.admin }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Whoami(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) List(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "list")
	f.args = args
	return nil
}
func (f *fakeExec) Upload(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "upload")
	f.args = args
	return nil
}
func (f *fakeExec) Download(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "download")
	f.args = args
	return nil
}
func (f *fakeExec) Rename(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "rename")
	f.args = args
	return nil
}
func (f *fakeExec) Comment(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "comment")
	f.args = args
	return nil
}
func (f *fakeExec) Share(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "share")
	f.args = args
	return nil
}
func (f *fakeExec) Remove(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "rm")
	f.args = args
	return nil
}
func (f *fakeExec) Fetch(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "fetch")
	f.args = args
	return nil
}
func (f *fakeExec) Users(ctx context.Context) error {
	f.calls = append(f.calls, "users")
	return nil
}
func (f *fakeExec) Grant(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "grant")
	f.args = args
	return nil
}
func (f *fakeExec) Revoke(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "revoke")
	f.args = args
	return nil
}
func (f *fakeExec) UserDel(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "userdel")
	f.args = args
	return nil
}

func silencePrintln(t *testing.T) {
	t.Helper()
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"list",
		"upload report.pdf quarterly numbers",
		"download 7",
		"rename 7 renamed.pdf",
		"share 7",
		"rm 7",
		"whoami",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "list", "upload", "download", "rename", "share", "rm", "whoami"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("upload\ndownload\nrename\ncomment\nshare\nrm\nfetch\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_AdminCommandsAreGated(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("users\ngrant 2\nrevoke 2\nuserdel 2\nexit\n")
	exec := &fakeExec{loggedIn: true, admin: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("admin commands reached handlers for a non-admin: %v", exec.calls)
	}
}

func TestRunREPL_AdminCommandsDispatch(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("users\ngrant 2\nrevoke 3\nuserdel 4\nexit\n")
	exec := &fakeExec{loggedIn: true, admin: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	want := []string{"users", "grant", "revoke", "userdel"}
	if len(exec.calls) != len(want) {
		t.Fatalf("got calls %v, want %v", exec.calls, want)
	}
	for i, c := range want {
		if exec.calls[i] != c {
			t.Fatalf("got calls %v, want %v", exec.calls, want)
		}
	}
}
