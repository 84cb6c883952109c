// Package portmatch guards against ports that moved between listing and opening.
package portmatch

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

// ErrPortChanged is returned when the port list changed between listing and opening.
var ErrPortChanged = errors.New("MIDI port list changed")

// Check verifies that names, a fresh listing, still has port.Name at port.Index.
func Check(port contracts.Port, names []string) error {
	if port.Index < 0 || port.Index >= len(names) {
		return fmt.Errorf("%w: %q (index %d, %d ports)", ErrPortChanged, port.Name, port.Index, len(names))
	}
	if got := names[port.Index]; got != port.Name {
		return fmt.Errorf("%w: index %d is now %q, not %q", ErrPortChanged, port.Index, got, port.Name)
	}
	return nil
}
