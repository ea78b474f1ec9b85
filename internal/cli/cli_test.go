package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hnrobert/suexrs/internal/accounts"
	"github.com/hnrobert/suexrs/internal/accounts/accountstest"
	"github.com/hnrobert/suexrs/internal/auth"
	"github.com/hnrobert/suexrs/internal/launch"
	"github.com/hnrobert/suexrs/internal/logger"
	"github.com/hnrobert/suexrs/internal/transition"
)

const mainHelperEnv = "SUEXRS_TEST_MAIN"

// TestMain lets the end-to-end test run the launcher as a real process by
// re-executing the test binary.
func TestMain(m *testing.M) {
	if os.Getenv(mainHelperEnv) == "1" {
		os.Exit(Main(os.Args[1:]))
	}
	os.Exit(m.Run())
}

type countingSyscalls struct {
	calls  []string
	failOn string
	creds  transition.Credentials
}

func (s *countingSyscalls) step(name string, apply func()) error {
	s.calls = append(s.calls, name)
	if name == s.failOn {
		return os.ErrPermission
	}
	apply()
	return nil
}

func (s *countingSyscalls) Setgroups(gids []int) error {
	return s.step("setgroups", func() { s.creds.Groups = gids })
}

func (s *countingSyscalls) Setgid(gid int) error {
	return s.step("setgid", func() { s.creds.RGID, s.creds.EGID, s.creds.SGID = gid, gid, gid })
}

func (s *countingSyscalls) Setuid(uid int) error {
	return s.step("setuid", func() { s.creds.RUID, s.creds.EUID, s.creds.SUID = uid, uid, uid })
}

func (s *countingSyscalls) Credentials() (transition.Credentials, error) {
	s.calls = append(s.calls, "credentials")
	return s.creds, nil
}

type harness struct {
	app    *App
	db     *accountstest.Fake
	sys    *countingSyscalls
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	// childOut receives the launched command's standard output.
	childOut *bytes.Buffer
}

func newHarness(t *testing.T, callerUID int) *harness {
	t.Helper()
	h := &harness{
		db: &accountstest.Fake{
			Users: []accounts.User{
				{Name: "root", UID: 0, GID: 0, Home: "/root"},
				{Name: "alice", UID: 1000, GID: 1000, Home: "/home/alice"},
				{Name: "bob", UID: 1001, GID: 1001, Home: "/home/bob"},
			},
			Groups: []accounts.Group{
				{Name: "root", GID: 0},
				{Name: "alice", GID: 1000},
				{Name: "bob", GID: 1001},
				{Name: "staff", GID: 50, Members: []string{"alice"}},
				{Name: auth.GroupName, GID: 900, Members: []string{"alice"}},
			},
		},
		sys:      &countingSyscalls{},
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		childOut: &bytes.Buffer{},
	}
	h.app = &App{
		Stdout:   h.stdout,
		Stderr:   h.stderr,
		OpenDB:   func(string) (accounts.Database, error) { return h.db, nil },
		Getuid:   func() int { return callerUID },
		Syscalls: h.sys,
		Runner: &launch.Runner{
			Stdin:  strings.NewReader(""),
			Stdout: h.childOut,
			Stderr: h.childOut,
			Env:    []string{"PATH=" + os.Getenv("PATH"), "HOME=/root"},
		},
	}

	prev := logger.SetOutput(h.stderr)
	t.Cleanup(func() {
		logger.SetOutput(prev)
		logger.Init(logger.Options{Level: logger.LevelInfo})
	})
	return h
}

func (h *harness) run(args ...string) int {
	return h.app.Main(args)
}

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRootRunsCommandAsTarget(t *testing.T) {
	requireSh(t)
	h := newHarness(t, 0)

	code := h.run("alice", "sh", "-c", `echo "$HOME"; exit 4`)

	assert.Equal(t, 4, code, "the command's status is propagated")
	assert.Equal(t, []string{"setgroups", "setgid", "setuid", "credentials"}, h.sys.calls)
	assert.Equal(t, []int{1000, 50, 900}, h.sys.creds.Groups)
	assert.Equal(t, "/home/alice\n", h.childOut.String())
	assert.Contains(t, h.stderr.String(), "suexrs: command exited with status 4")
}

func TestSuccessfulCommandExitsZero(t *testing.T) {
	requireSh(t)
	h := newHarness(t, 1000)

	assert.Equal(t, 0, h.run("bob:staff", "sh", "-c", "exit 0"))
	assert.Equal(t, 50, h.sys.creds.EGID)
	assert.Equal(t, 1001, h.sys.creds.EUID)
	assert.Empty(t, h.stderr.String())
}

func TestNonMemberIsDeniedBeforeAnySyscall(t *testing.T) {
	h := newHarness(t, 1001)

	code := h.run("alice", "id")

	assert.Equal(t, 1, code)
	assert.Empty(t, h.sys.calls)
	assert.Empty(t, h.childOut.String())
	assert.Equal(t, "suexrs: permission denied: user not in 'suexrs' group\n", h.stderr.String())
}

func TestLocalFailuresExitOne(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown user", []string{"mallory", "id"}, "unknown user"},
		{"unknown group", []string{"alice:wheel", "id"}, "unknown group"},
		{"bad target", []string{"a:b:c", "id"}, "invalid"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newHarness(t, 0)
			assert.Equal(t, 1, h.run(c.args...))
			assert.Empty(t, h.sys.calls, "no transition after a resolution failure")
			assert.Contains(t, h.stderr.String(), "suexrs: ")
			assert.Contains(t, h.stderr.String(), c.want)
		})
	}
}

func TestTransitionFailureStopsBeforeSpawn(t *testing.T) {
	requireSh(t)
	h := newHarness(t, 0)
	h.sys.failOn = "setgid"

	code := h.run("alice", "sh", "-c", "echo ran")

	assert.Equal(t, 1, code)
	assert.Equal(t, []string{"setgroups", "setgid"}, h.sys.calls)
	assert.Empty(t, h.childOut.String())
	assert.Contains(t, h.stderr.String(), "identity transition failed (gid-set)")
}

func TestSpawnFailureExitsOne(t *testing.T) {
	h := newHarness(t, 0)

	assert.Equal(t, 1, h.run("alice", "suexrs-test-no-such-command"))
	assert.Contains(t, h.stderr.String(), "suexrs: failed to execute command")
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{{}, {"alice"}, {"--no-such-flag", "alice", "id"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			h := newHarness(t, 0)
			assert.Equal(t, 1, h.run(args...))
			assert.Contains(t, h.stderr.String(), "suexrs: usage error")
			assert.Contains(t, h.stderr.String(), "Usage:")
			assert.Empty(t, h.db.Calls, "nothing is looked up on a usage error")
		})
	}
}

func TestUnknownIdentityDB(t *testing.T) {
	h := newHarness(t, 0)
	h.app.OpenDB = accounts.Open

	assert.Equal(t, 1, h.run("--identity-db", "ldap", "alice", "id"))
	assert.Contains(t, h.stderr.String(), "unknown identity database")
}

func TestFlagsStopAtTarget(t *testing.T) {
	requireSh(t)
	h := newHarness(t, 0)

	// -n after the target belongs to the command, so this is not a dry run.
	assert.Equal(t, 0, h.run("alice", "sh", "-c", "echo -n x"))
	assert.NotEmpty(t, h.sys.calls)
	assert.Empty(t, h.stdout.String())
}

func TestDryRunPrintsPlan(t *testing.T) {
	h := newHarness(t, 1000)
	h.app.Runner = nil

	code := h.run("--dry-run", "1001:50", "id", "-u")
	require.Equal(t, 0, code, h.stderr.String())
	assert.Empty(t, h.sys.calls, "a dry run never switches identity")

	var plan Plan
	require.NoError(t, yaml.Unmarshal(h.stdout.Bytes(), &plan))
	assert.Equal(t, Plan{
		Caller:     1000,
		Target:     "1001:50",
		IdentityDB: "fake",
		User:       "bob",
		UID:        1001,
		Group:      "staff",
		GID:        50,
		Groups:     []PlanGroup{{GID: 1001, Name: "bob"}},
		Home:       "/home/bob",
		Command:    []string{"id", "-u"},
	}, plan)
}

func TestDryRunStillAuthorizes(t *testing.T) {
	h := newHarness(t, 1001)
	assert.Equal(t, 1, h.run("-n", "alice", "id"))
	assert.Empty(t, h.stdout.String())
}

func TestVerboseLogsSteps(t *testing.T) {
	h := newHarness(t, 0)
	assert.Equal(t, 0, h.run("-v", "-n", "alice", "id"))
	assert.Contains(t, h.stderr.String(), "[DBUG] uid 0 authorized")
}

func TestVersion(t *testing.T) {
	h := newHarness(t, 0)
	assert.Equal(t, 0, h.run("--version"))
	assert.True(t, strings.HasPrefix(h.stdout.String(), "suexrs dev"), h.stdout.String())
}

func TestExitCodeAndMessage(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 1, ExitCode(auth.ErrDenied))
	assert.Equal(t, 42, ExitCode(fmt.Errorf("wrapped: %w", &launch.ExitError{Code: 42})))
	assert.Equal(t, 1, ExitCode(&launch.ExitError{Code: 1, Signal: "killed"}))

	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "command terminated by signal killed", Message(&launch.ExitError{Code: 1, Signal: "killed"}))
}

// TestEndToEnd runs the launcher binary for real. It needs root, the
// authorization group and an account with UID 1000.
func TestEndToEnd(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("requires root")
	}
	if _, err := user.LookupGroup(auth.GroupName); err != nil {
		t.Skipf("group %s does not exist", auth.GroupName)
	}
	if _, err := user.LookupId("1000"); err != nil {
		t.Skip("no account with uid 1000")
	}

	cmd := exec.Command(os.Args[0], "1000", "id", "-u")
	cmd.Env = append(os.Environ(), mainHelperEnv+"=1")
	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, "1000\n", string(out))
}
