package accounts

import (
	"bytes"
	"strings"

	"github.com/hnrobert/suexrs/internal/hostfs"
)

type GroupFile struct {
	pf parsedFile[GroupEntry]
}

func LoadGroup(root hostfs.Root) (*GroupFile, error) {
	b, err := root.ReadFile(hostfs.EtcGroupRel)
	if err != nil {
		return nil, err
	}
	return ParseGroup(b)
}

func ParseGroup(b []byte) (*GroupFile, error) {
	lines, err := readLines(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	var pf parsedFile[GroupEntry]
	for _, line := range lines {
		if skipLine(line) {
			continue
		}
		parts := parseColonLine(line)
		if len(parts) < 4 {
			continue
		}
		gid, err := atoi(parts[2], "group.gid")
		if err != nil {
			return nil, err
		}
		members := []string{}
		for _, m := range strings.Split(parts[3], ",") {
			if m = strings.TrimSpace(m); m != "" {
				members = append(members, m)
			}
		}
		pf.entries = append(pf.entries, &GroupEntry{Name: parts[0], Passwd: parts[1], GID: gid, Members: members})
	}
	return &GroupFile{pf: pf}, nil
}

func (f *GroupFile) Find(name string) *GroupEntry {
	for _, e := range f.pf.entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (f *GroupFile) FindByGID(gid int) *GroupEntry {
	for _, e := range f.pf.entries {
		if e.GID == gid {
			return e
		}
	}
	return nil
}

// List returns the entries in file order.
func (f *GroupFile) List() []GroupEntry {
	out := make([]GroupEntry, 0, len(f.pf.entries))
	for _, e := range f.pf.entries {
		out = append(out, *e)
	}
	return out
}

// GroupList follows getgrouplist(3): primary first, then every group that
// lists user as a member, in file order, without duplicates.
func (f *GroupFile) GroupList(user string, primary int) []int {
	gids := []int{primary}
	seen := map[int]bool{primary: true}
	for _, e := range f.pf.entries {
		if seen[e.GID] || !e.HasMember(user) {
			continue
		}
		seen[e.GID] = true
		gids = append(gids, e.GID)
	}
	return gids
}
