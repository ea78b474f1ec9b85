package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/hnrobert/suexrs/internal/accounts"
	"github.com/hnrobert/suexrs/internal/logger"
)

// GroupName is the group whose members may use the launcher.
const GroupName = "suexrs"

var ErrDenied = errors.New("permission denied")

// Privileged proves that an authorization check passed. Only Authorize
// produces a valid one; the zero value is not valid.
type Privileged struct {
	callerUID int
	granted   bool
}

func (p *Privileged) Valid() bool {
	return p != nil && p.granted
}

// CallerUID is the real UID the grant was issued to.
func (p *Privileged) CallerUID() int {
	return p.callerUID
}

type Checker struct {
	DB    accounts.Database
	Group string
	// Getuid returns the caller's real UID.
	Getuid func() int
}

func NewChecker(db accounts.Database) *Checker {
	return &Checker{DB: db, Group: GroupName, Getuid: os.Getuid}
}

// IsAuthorized reports whether the caller may perform an identity transition.
func (c *Checker) IsAuthorized() bool {
	return c.check() == nil
}

// Authorize runs the check and, on success, returns the capability token.
func (c *Checker) Authorize() (*Privileged, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return &Privileged{callerUID: c.Getuid(), granted: true}, nil
}

// check returns nil when authorized, otherwise an error wrapping ErrDenied.
func (c *Checker) check() error {
	denied := fmt.Errorf("%w: user not in '%s' group", ErrDenied, c.Group)

	grp, err := c.DB.LookupGroup(c.Group)
	if err != nil {
		logger.Debug("authorization group %q: %v", c.Group, err)
		return denied
	}

	uid := c.Getuid()
	if uid == 0 {
		return nil
	}

	caller, err := c.DB.LookupUserID(uid)
	if err != nil {
		logger.Debug("caller uid %d: %v", uid, err)
		return denied
	}

	gids, truncated, err := accounts.BoundedGroupList(c.DB, caller.Name, caller.GID, accounts.MaxGroups)
	if err != nil {
		logger.Debug("group list for %s: %v", caller.Name, err)
		return denied
	}
	if truncated {
		logger.Warn("Too many groups for %s, only the first %d were checked for '%s' membership", caller.Name, accounts.MaxGroups, c.Group)
	}

	for _, gid := range gids {
		if gid == grp.GID {
			return nil
		}
	}
	return denied
}
