//go:build !unix

package launch

import "os"

var (
	forwardedSignals []os.Signal
	absorbedSignals  = []os.Signal{os.Interrupt}
)

func signalName(*os.ProcessState) string {
	return "unknown"
}
