// Package accountstest provides identity database doubles for tests.
package accountstest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hnrobert/suexrs/internal/accounts"
	"github.com/hnrobert/suexrs/internal/hostfs"
)

// Fake is an in-memory accounts.Database that records every call.
type Fake struct {
	Users  []accounts.User
	Groups []accounts.Group

	// GroupListErr, when set, is returned by GroupList.
	GroupListErr error

	Calls []string
}

var _ accounts.Database = (*Fake)(nil)

func (f *Fake) Name() string {
	return "fake"
}

func (f *Fake) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *Fake) LookupUser(name string) (*accounts.User, error) {
	f.record("LookupUser(%s)", name)
	for i := range f.Users {
		if f.Users[i].Name == name {
			u := f.Users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", accounts.ErrUserNotFound, name)
}

func (f *Fake) LookupUserID(uid int) (*accounts.User, error) {
	f.record("LookupUserID(%d)", uid)
	for i := range f.Users {
		if f.Users[i].UID == uid {
			u := f.Users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: uid %d", accounts.ErrUserNotFound, uid)
}

func (f *Fake) LookupGroup(name string) (*accounts.Group, error) {
	f.record("LookupGroup(%s)", name)
	for i := range f.Groups {
		if f.Groups[i].Name == name {
			g := f.Groups[i]
			return &g, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", accounts.ErrGroupNotFound, name)
}

func (f *Fake) LookupGroupID(gid int) (*accounts.Group, error) {
	f.record("LookupGroupID(%d)", gid)
	for i := range f.Groups {
		if f.Groups[i].GID == gid {
			g := f.Groups[i]
			return &g, nil
		}
	}
	return nil, fmt.Errorf("%w: gid %d", accounts.ErrGroupNotFound, gid)
}

func (f *Fake) GroupList(user string, primary int) ([]int, error) {
	f.record("GroupList(%s,%d)", user, primary)
	if f.GroupListErr != nil {
		return nil, f.GroupListErr
	}
	gids := []int{primary}
	for _, g := range f.Groups {
		if g.GID == primary {
			continue
		}
		for _, m := range g.Members {
			if m == user {
				gids = append(gids, g.GID)
				break
			}
		}
	}
	return gids, nil
}

// Reset forgets recorded calls.
func (f *Fake) Reset() {
	f.Calls = nil
}

// WriteFiles lays out etc/passwd and etc/group under a temporary root.
func WriteFiles(t testing.TB, passwd, group string) hostfs.Root {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "etc"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, hostfs.EtcPasswdRel), []byte(passwd), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, hostfs.EtcGroupRel), []byte(group), 0o644); err != nil {
		t.Fatal(err)
	}
	return hostfs.Root(dir)
}
