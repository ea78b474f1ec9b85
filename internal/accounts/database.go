package accounts

import (
	"errors"
	"fmt"

	"github.com/hnrobert/suexrs/internal/hostfs"
)

// MaxGroups bounds every group list enumeration.
const MaxGroups = 100

const (
	SourceNSS   = "nss"
	SourceFiles = "files"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrUnknownSource = errors.New("unknown identity database")
)

// Database is a read-only view of the account and group databases.
type Database interface {
	LookupUser(name string) (*User, error)
	LookupUserID(uid int) (*User, error)
	LookupGroup(name string) (*Group, error)
	LookupGroupID(gid int) (*Group, error)

	// GroupList returns every GID user belongs to, primary first.
	GroupList(user string, primary int) ([]int, error)

	// Name identifies the source in diagnostics.
	Name() string
}

// Open returns the Database for source.
func Open(source string) (Database, error) {
	switch source {
	case SourceNSS, "":
		return NewSystem(), nil
	case SourceFiles:
		return NewFiles(hostfs.SystemRoot), nil
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownSource, source, SourceNSS, SourceFiles)
	}
}

// BoundedGroupList returns at most max entries of user's group list, in the
// order the source reports them. truncated is set when entries were dropped.
func BoundedGroupList(db Database, user string, primary, max int) (gids []int, truncated bool, err error) {
	gids, err = db.GroupList(user, primary)
	if err != nil {
		return nil, false, err
	}
	if len(gids) > max {
		return gids[:max:max], true, nil
	}
	return gids, false, nil
}
