package launch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"github.com/hnrobert/suexrs/internal/logger"
)

var ErrSpawn = errors.New("failed to execute command")

// ExitError is a command that ran and did not exit 0. Code is the exit
// status, or 1 when the command was killed by a signal.
type ExitError struct {
	Code   int
	Signal string
}

func (e *ExitError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("command terminated by signal %s", e.Signal)
	}
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// Runner starts a command with the launcher's standard streams and waits
// for it. While the command runs, signals in Forward are relayed to it and
// signals in Absorb are swallowed: the terminal already delivers those to
// the whole foreground process group.
type Runner struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Env     []string
	Forward []os.Signal
	Absorb  []os.Signal
}

func New() *Runner {
	return &Runner{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Env:     os.Environ(),
		Forward: forwardedSignals,
		Absorb:  absorbedSignals,
	}
}

// Run executes argv[0] (searched in PATH) with argv[1:] and returns nil
// when it exits 0.
func (r *Runner) Run(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("%w: no command provided", ErrSpawn)
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Env = r.Env

	sigs := make(chan os.Signal, 8)
	if len(r.Forward) > 0 {
		signal.Notify(sigs, r.Forward...)
		defer signal.Stop(sigs)
	}
	absorbed := make(chan os.Signal, 8)
	if len(r.Absorb) > 0 {
		signal.Notify(absorbed, r.Absorb...)
		defer signal.Stop(absorbed)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	logger.Debug("started %s as pid %d", cmd.Path, cmd.Process.Pid)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case s := <-sigs:
				logger.Debug("forwarding %v to pid %d", s, cmd.Process.Pid)
				_ = cmd.Process.Signal(s)
			case s := <-absorbed:
				logger.Debug("ignoring %v, pid %d receives it from the terminal", s, cmd.Process.Pid)
			case <-done:
				return
			}
		}
	}()
	err := cmd.Wait()
	close(done)

	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	if code := exitErr.ExitCode(); code >= 0 {
		return &ExitError{Code: code}
	}
	return &ExitError{Code: 1, Signal: signalName(exitErr.ProcessState)}
}

// WithHome returns env with HOME set to home. An empty home leaves env as is.
func WithHome(env []string, home string) []string {
	if home == "" {
		return env
	}
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if strings.HasPrefix(kv, "HOME=") {
			continue
		}
		out = append(out, kv)
	}
	return append(out, "HOME="+home)
}
