//go:build !linux

package learnvk

import (
	"os"
)

func signals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
