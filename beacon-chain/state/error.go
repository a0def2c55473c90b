package state

import (
	"fmt"

	"github.com/gridbox-network/grysm/runtime/version"
	"github.com/pkg/errors"
)

// ErrNilValidatorsInState returns when accessing validators in the state while the state has a
// nil slice for the validators field.
var ErrNilValidatorsInState = errors.New("state has nil validator slice")

// ErrNotSupported surfaces an accessor invoked on a state version that does not
// carry the requested field.
func ErrNotSupported(funcName string, ver int) error {
	return errors.Wrap(errNotSupported, fmt.Sprintf("%s is not supported for %s", funcName, version.String(ver)))
}

var errNotSupported = errors.New("not supported")

// IsNotSupported checks whether err signals a version-gated accessor mismatch.
func IsNotSupported(err error) bool {
	return errors.Is(err, errNotSupported)
}
