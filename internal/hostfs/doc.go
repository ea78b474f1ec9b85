// Package hostfs maps identity database files under a root directory.
//
// Production code always reads from SystemRoot:
//
//	/etc/passwd
//	/etc/group
//
// Tests point a Root at a fixture tree instead.
package hostfs
