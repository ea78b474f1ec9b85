//go:build linux

package transition

import (
	"syscall"

	"golang.org/x/sys/unix"
)

type linuxSyscalls struct{}

// System returns the process credential calls. The syscall package applies
// them to every thread of the runtime, not just the calling one.
func System() Syscalls {
	return linuxSyscalls{}
}

func (linuxSyscalls) Setgroups(gids []int) error {
	return syscall.Setgroups(gids)
}

func (linuxSyscalls) Setgid(gid int) error {
	return syscall.Setresgid(gid, gid, gid)
}

func (linuxSyscalls) Setuid(uid int) error {
	return syscall.Setresuid(uid, uid, uid)
}

func (linuxSyscalls) Credentials() (Credentials, error) {
	var c Credentials
	c.RUID, c.EUID, c.SUID = unix.Getresuid()
	c.RGID, c.EGID, c.SGID = unix.Getresgid()
	groups, err := unix.Getgroups()
	if err != nil {
		return Credentials{}, err
	}
	c.Groups = groups
	return c, nil
}
