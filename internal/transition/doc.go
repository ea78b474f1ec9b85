// Package transition switches the process to a resolved identity.
//
// The order is fixed: supplementary groups, then GID, then UID. Each step
// needs privileges the next one gives up, so a failed step ends the sequence
// and nothing is rolled back. After the UID step the credentials are read
// back and compared with what was requested.
package transition
