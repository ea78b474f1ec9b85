// Package accounts answers identity questions about local accounts: users by
// name or UID, groups by name or GID, and the full group list of a user.
//
// Two sources implement Database:
//
//	nss    the system resolver, through os/user
//	files  /etc/passwd and /etc/group parsed directly
//
// Nothing is cached. Every call goes back to the source.
package accounts
