//go:build unix

package launch

import (
	"os"
	"syscall"
)

var (
	forwardedSignals = []os.Signal{syscall.SIGTERM, syscall.SIGHUP, syscall.SIGUSR1, syscall.SIGUSR2}
	absorbedSignals  = []os.Signal{syscall.SIGINT, syscall.SIGQUIT}
)

func signalName(ps *os.ProcessState) string {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ws.Signal().String()
	}
	return "unknown"
}
