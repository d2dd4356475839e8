package driver

import (
	"errors"
	"fmt"
)

// ErrNoData reports that no inbound data arrived within the receive timeout.
// This is the normal quiet-interface case, not a fault; callers may retry.
var ErrNoData = errors.New("no data within receive timeout")

// FatalError marks an unrecoverable driver fault: a failed device
// acquisition, or a failed or short hardware write. The core only propagates
// it; the process boundary is expected to close the device and exit
// non-zero.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("driver %s: %s", e.Op, e.Err.Error())
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err carries a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
