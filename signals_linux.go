package learnvk

import (
	"os"
	"syscall"
)

// signals that close the window like its close button does
func signals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
}
