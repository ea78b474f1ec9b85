package transition

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hnrobert/suexrs/internal/auth"
	"github.com/hnrobert/suexrs/internal/logger"
	"github.com/hnrobert/suexrs/internal/target"
)

type State int

const (
	Checked State = iota
	GroupsSet
	GIDSet
	UIDSet
	Ready
)

func (s State) String() string {
	switch s {
	case Checked:
		return "checked"
	case GroupsSet:
		return "groups-set"
	case GIDSet:
		return "gid-set"
	case UIDSet:
		return "uid-set"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrTransition    = errors.New("identity transition failed")
	ErrNotPrivileged = errors.New("identity transition requires an authorization grant")
	ErrUnsupported   = errors.New("identity transitions are not supported on this platform")
)

// StepError reports the step that failed. Step is the state that was not
// reached.
type StepError struct {
	Step State
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%v (%s): %v", ErrTransition, e.Step, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{ErrTransition, e.Err}
}

// Credentials is a snapshot of the process identity.
type Credentials struct {
	RUID, EUID, SUID int
	RGID, EGID, SGID int
	Groups           []int
}

// Syscalls performs the credential changes. Every method reports failure;
// the engine never continues past one.
type Syscalls interface {
	Setgroups(gids []int) error
	Setgid(gid int) error
	Setuid(uid int) error
	Credentials() (Credentials, error)
}

// Engine applies one identity, once.
type Engine struct {
	sys   Syscalls
	state State
	used  bool
}

func New() *Engine {
	return NewWithSyscalls(System())
}

func NewWithSyscalls(sys Syscalls) *Engine {
	return &Engine{sys: sys}
}

// State is the last state reached.
func (e *Engine) State() State {
	return e.state
}

// Apply switches the process to id. On error the process is left in
// whatever state the failed step left it; callers must terminate.
func (e *Engine) Apply(p *auth.Privileged, id target.Identity) error {
	if !p.Valid() {
		return ErrNotPrivileged
	}
	if e.used {
		return fmt.Errorf("%w: engine already used", ErrTransition)
	}
	e.used = true

	logger.Debug("setgroups(%v)", id.Groups)
	if err := e.sys.Setgroups(id.Groups); err != nil {
		return &StepError{Step: GroupsSet, Err: fmt.Errorf("failed to set supplemental groups %v: %w", id.Groups, err)}
	}
	e.state = GroupsSet

	logger.Debug("setgid(%d)", id.GID)
	if err := e.sys.Setgid(id.GID); err != nil {
		return &StepError{Step: GIDSet, Err: fmt.Errorf("failed to set GID to %d: %w", id.GID, err)}
	}
	e.state = GIDSet

	logger.Debug("setuid(%d)", id.UID)
	if err := e.sys.Setuid(id.UID); err != nil {
		return &StepError{Step: UIDSet, Err: fmt.Errorf("failed to set UID to %d: %w", id.UID, err)}
	}
	e.state = UIDSet

	if err := e.verify(id); err != nil {
		return &StepError{Step: Ready, Err: err}
	}
	e.state = Ready
	return nil
}

func (e *Engine) verify(id target.Identity) error {
	c, err := e.sys.Credentials()
	if err != nil {
		return fmt.Errorf("failed to read back credentials: %w", err)
	}
	if c.RUID != id.UID || c.EUID != id.UID || c.SUID != id.UID {
		return fmt.Errorf("uid is %d/%d/%d (real/effective/saved), want %d", c.RUID, c.EUID, c.SUID, id.UID)
	}
	if c.RGID != id.GID || c.EGID != id.GID || c.SGID != id.GID {
		return fmt.Errorf("gid is %d/%d/%d (real/effective/saved), want %d", c.RGID, c.EGID, c.SGID, id.GID)
	}
	if !sameSet(c.Groups, id.Groups) {
		return fmt.Errorf("supplementary groups are %v, want %v", c.Groups, id.Groups)
	}
	return nil
}

// sameSet compares group lists ignoring order and repeats; the kernel keeps
// its own ordering.
func sameSet(a, b []int) bool {
	as := slices.Compact(slices.Sorted(slices.Values(a)))
	bs := slices.Compact(slices.Sorted(slices.Values(b)))
	return slices.Equal(as, bs)
}
