package accounts

import (
	"bytes"

	"github.com/hnrobert/suexrs/internal/hostfs"
)

type PasswdFile struct {
	pf parsedFile[PasswdEntry]
}

func LoadPasswd(root hostfs.Root) (*PasswdFile, error) {
	b, err := root.ReadFile(hostfs.EtcPasswdRel)
	if err != nil {
		return nil, err
	}
	return ParsePasswd(b)
}

func ParsePasswd(b []byte) (*PasswdFile, error) {
	lines, err := readLines(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	var pf parsedFile[PasswdEntry]
	for _, line := range lines {
		if skipLine(line) {
			continue
		}
		parts := parseColonLine(line)
		if len(parts) < 7 {
			continue
		}
		uid, err := atoi(parts[2], "passwd.uid")
		if err != nil {
			return nil, err
		}
		gid, err := atoi(parts[3], "passwd.gid")
		if err != nil {
			return nil, err
		}
		pf.entries = append(pf.entries, &PasswdEntry{
			Name:   parts[0],
			Passwd: parts[1],
			UID:    uid,
			GID:    gid,
			Gecos:  parts[4],
			Home:   parts[5],
			Shell:  parts[6],
		})
	}

	return &PasswdFile{pf: pf}, nil
}

// Find returns the first entry named name, like getpwnam.
func (f *PasswdFile) Find(name string) *PasswdEntry {
	for _, e := range f.pf.entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// FindByUID returns the first entry with uid, like getpwuid.
func (f *PasswdFile) FindByUID(uid int) *PasswdEntry {
	for _, e := range f.pf.entries {
		if e.UID == uid {
			return e
		}
	}
	return nil
}

func (f *PasswdFile) List() []PasswdEntry {
	out := make([]PasswdEntry, 0, len(f.pf.entries))
	for _, e := range f.pf.entries {
		out = append(out, *e)
	}
	return out
}
