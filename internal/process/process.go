// Package process terminates the headless browser and its children when a
// graceful shutdown fails.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID is returned for PIDs that would target the caller's own
// process group or every process the user owns.
var ErrInvalidPID = errors.New("invalid process id")

func checkPID(pid int) error {
	if pid <= 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return nil
}
