//go:build unix && !linux

package transition

import (
	"syscall"

	"golang.org/x/sys/unix"
)

type unixSyscalls struct{}

// System returns the process credential calls. As root, setgid and setuid
// replace the real, effective and saved IDs together.
func System() Syscalls {
	return unixSyscalls{}
}

func (unixSyscalls) Setgroups(gids []int) error {
	return syscall.Setgroups(gids)
}

func (unixSyscalls) Setgid(gid int) error {
	return syscall.Setgid(gid)
}

func (unixSyscalls) Setuid(uid int) error {
	return syscall.Setuid(uid)
}

// Credentials cannot see saved IDs portably; they are reported equal to the
// effective ones.
func (unixSyscalls) Credentials() (Credentials, error) {
	groups, err := unix.Getgroups()
	if err != nil {
		return Credentials{}, err
	}
	euid, egid := unix.Geteuid(), unix.Getegid()
	return Credentials{
		RUID: unix.Getuid(), EUID: euid, SUID: euid,
		RGID: unix.Getgid(), EGID: egid, SGID: egid,
		Groups: groups,
	}, nil
}
