// Package auth decides whether the invoking user may switch identities at
// all, and issues the Privileged token the transition engine requires.
//
// The rule is fixed: the caller is root, or the caller's group list contains
// the "suexrs" group. Every lookup failure is a denial.
package auth
