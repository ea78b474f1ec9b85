package target

import (
	"errors"
	"fmt"

	"github.com/hnrobert/suexrs/internal/accounts"
	"github.com/hnrobert/suexrs/internal/logger"
)

var (
	ErrUnknownUser  = errors.New("unknown user")
	ErrUnknownGroup = errors.New("unknown group")
	ErrGroupList    = errors.New("cannot determine supplementary groups")
)

// Identity is the credential set the process will adopt.
type Identity struct {
	UID    int
	GID    int
	Groups []int

	// User is the account the groups came from. Group is only set when
	// GROUP was given by name.
	User  string
	Group string
	Home  string
}

type Resolver struct {
	DB accounts.Database
	// MaxGroups caps the supplementary list; longer lists are an error.
	MaxGroups int
}

func NewResolver(db accounts.Database) *Resolver {
	return &Resolver{DB: db, MaxGroups: accounts.MaxGroups}
}

// Resolve turns spec into a concrete Identity. It never touches process
// credentials.
func (r *Resolver) Resolve(spec Spec) (Identity, error) {
	var id Identity

	uid, account, err := r.resolveUID(spec.User)
	if err != nil {
		return Identity{}, err
	}
	id.UID = uid

	if spec.HasGroup {
		gid, name, err := r.resolveGID(spec.Group)
		if err != nil {
			return Identity{}, err
		}
		id.GID, id.Group = gid, name
	} else {
		if account == nil {
			account, err = r.DB.LookupUserID(uid)
			if err != nil {
				return Identity{}, fmt.Errorf("%w: no account with UID %d: %v", ErrUnknownUser, uid, err)
			}
		}
		id.GID = account.GID
	}

	// Supplementary groups always come from the target account record, found
	// by UID so that a numeric USER is reverse-resolved first.
	if account == nil {
		account, err = r.DB.LookupUserID(uid)
		if err != nil {
			return Identity{}, fmt.Errorf("%w: no account with UID %d: %v", ErrGroupList, uid, err)
		}
	}
	id.User, id.Home = account.Name, account.Home

	groups, truncated, err := accounts.BoundedGroupList(r.DB, account.Name, account.GID, r.MaxGroups)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: user '%s': %v", ErrGroupList, account.Name, err)
	}
	if truncated {
		return Identity{}, fmt.Errorf("%w: user '%s' belongs to more than %d groups", ErrGroupList, account.Name, r.MaxGroups)
	}
	id.Groups = groups

	logger.Debug("resolved %s to uid=%d gid=%d groups=%v", spec, id.UID, id.GID, id.Groups)
	return id, nil
}

// resolveUID tries a numeric ID first and falls back to a name lookup. The
// account record is returned when the name lookup produced one.
func (r *Resolver) resolveUID(user string) (int, *accounts.User, error) {
	if uid, ok := accounts.ParseID(user); ok {
		return uid, nil, nil
	}
	u, err := r.DB.LookupUser(user)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return 0, nil, fmt.Errorf("%w: failed to find user '%s'", ErrUnknownUser, user)
		}
		return 0, nil, fmt.Errorf("%w: failed to find user '%s': %v", ErrUnknownUser, user, err)
	}
	return u.UID, u, nil
}

func (r *Resolver) resolveGID(group string) (int, string, error) {
	if gid, ok := accounts.ParseID(group); ok {
		return gid, "", nil
	}
	g, err := r.DB.LookupGroup(group)
	if err != nil {
		if errors.Is(err, accounts.ErrGroupNotFound) {
			return 0, "", fmt.Errorf("%w: failed to find group '%s'", ErrUnknownGroup, group)
		}
		return 0, "", fmt.Errorf("%w: failed to find group '%s': %v", ErrUnknownGroup, group, err)
	}
	return g.GID, g.Name, nil
}
