package accounts

import (
	"errors"
	"fmt"
	"os/user"
	"strconv"
)

// System resolves through os/user: the C library (and therefore NSS) when
// built with cgo, the local files otherwise.
type System struct{}

func NewSystem() *System {
	return &System{}
}

func (s *System) Name() string {
	return SourceNSS
}

func (s *System) LookupUser(name string) (*User, error) {
	u, err := user.Lookup(name)
	if err != nil {
		var unknown user.UnknownUserError
		if errors.As(err, &unknown) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, name)
		}
		return nil, fmt.Errorf("user lookup %q: %w", name, err)
	}
	return fromOSUser(u)
}

func (s *System) LookupUserID(uid int) (*User, error) {
	u, err := user.LookupId(strconv.Itoa(uid))
	if err != nil {
		var unknown user.UnknownUserIdError
		if errors.As(err, &unknown) {
			return nil, fmt.Errorf("%w: uid %d", ErrUserNotFound, uid)
		}
		return nil, fmt.Errorf("user lookup uid %d: %w", uid, err)
	}
	return fromOSUser(u)
}

func (s *System) LookupGroup(name string) (*Group, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		var unknown user.UnknownGroupError
		if errors.As(err, &unknown) {
			return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
		}
		return nil, fmt.Errorf("group lookup %q: %w", name, err)
	}
	return fromOSGroup(g)
}

func (s *System) LookupGroupID(gid int) (*Group, error) {
	g, err := user.LookupGroupId(strconv.Itoa(gid))
	if err != nil {
		var unknown user.UnknownGroupIdError
		if errors.As(err, &unknown) {
			return nil, fmt.Errorf("%w: gid %d", ErrGroupNotFound, gid)
		}
		return nil, fmt.Errorf("group lookup gid %d: %w", gid, err)
	}
	return fromOSGroup(g)
}

func (s *System) GroupList(name string, primary int) ([]int, error) {
	u := &user.User{Username: name, Gid: strconv.Itoa(primary)}
	ids, err := u.GroupIds()
	if err != nil {
		return nil, fmt.Errorf("group list for %q: %w", name, err)
	}
	gids := []int{primary}
	seen := map[int]bool{primary: true}
	for _, id := range ids {
		gid, ok := ParseID(id)
		if !ok {
			return nil, fmt.Errorf("group list for %q: invalid gid %q", name, id)
		}
		if seen[gid] {
			continue
		}
		seen[gid] = true
		gids = append(gids, gid)
	}
	return gids, nil
}

func fromOSUser(u *user.User) (*User, error) {
	uid, ok := ParseID(u.Uid)
	if !ok {
		return nil, fmt.Errorf("invalid UID %q for %s", u.Uid, u.Username)
	}
	gid, ok := ParseID(u.Gid)
	if !ok {
		return nil, fmt.Errorf("invalid GID %q for %s", u.Gid, u.Username)
	}
	return &User{Name: u.Username, UID: uid, GID: gid, Home: u.HomeDir}, nil
}

func fromOSGroup(g *user.Group) (*Group, error) {
	gid, ok := ParseID(g.Gid)
	if !ok {
		return nil, fmt.Errorf("invalid GID %q for group %s", g.Gid, g.Name)
	}
	return &Group{Name: g.Name, GID: gid}, nil
}
