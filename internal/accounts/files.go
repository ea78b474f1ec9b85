package accounts

import (
	"fmt"

	"github.com/hnrobert/suexrs/internal/hostfs"
)

// Files reads passwd and group files under Root on every call.
type Files struct {
	Root hostfs.Root
}

func NewFiles(root hostfs.Root) *Files {
	return &Files{Root: root}
}

func (f *Files) Name() string {
	return SourceFiles
}

func (f *Files) LookupUser(name string) (*User, error) {
	pw, err := LoadPasswd(f.Root)
	if err != nil {
		return nil, err
	}
	e := pw.Find(name)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}
	return e.User(), nil
}

func (f *Files) LookupUserID(uid int) (*User, error) {
	pw, err := LoadPasswd(f.Root)
	if err != nil {
		return nil, err
	}
	e := pw.FindByUID(uid)
	if e == nil {
		return nil, fmt.Errorf("%w: uid %d", ErrUserNotFound, uid)
	}
	return e.User(), nil
}

func (f *Files) LookupGroup(name string) (*Group, error) {
	gr, err := LoadGroup(f.Root)
	if err != nil {
		return nil, err
	}
	e := gr.Find(name)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}
	return e.Group(), nil
}

func (f *Files) LookupGroupID(gid int) (*Group, error) {
	gr, err := LoadGroup(f.Root)
	if err != nil {
		return nil, err
	}
	e := gr.FindByGID(gid)
	if e == nil {
		return nil, fmt.Errorf("%w: gid %d", ErrGroupNotFound, gid)
	}
	return e.Group(), nil
}

func (f *Files) GroupList(user string, primary int) ([]int, error) {
	gr, err := LoadGroup(f.Root)
	if err != nil {
		return nil, err
	}
	return gr.GroupList(user, primary), nil
}
