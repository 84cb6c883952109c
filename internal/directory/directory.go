// Package directory enumerates the MIDI ports a driver exposes.
//
// Every call queries the driver again: devices can be plugged and unplugged at any time,
// so a listing is a snapshot and indices are only valid within it.
package directory

import (
	"fmt"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

// List returns the ports of drv in the given direction, in driver order.
// Index is set to the position in the returned slice.
func List(drv contracts.Driver, dir contracts.Direction) ([]contracts.Port, error) {
	var (
		ports []contracts.Port
		err   error
	)
	switch dir {
	case contracts.Input:
		ports, err = drv.Ins()
	case contracts.Output:
		ports, err = drv.Outs()
	default:
		return nil, fmt.Errorf("%w: unknown direction %d", contracts.ErrDeviceDirectory, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s ports: %v", contracts.ErrDeviceDirectory, dir, err)
	}

	out := make([]contracts.Port, len(ports))
	for i, p := range ports {
		out[i] = contracts.Port{Index: i, Name: p.Name, Direction: dir}
	}
	return out, nil
}

// Listing holds one snapshot of both directions.
type Listing struct {
	Inputs  []contracts.Port
	Outputs []contracts.Port
}

// ListAll enumerates inputs, then outputs.
func ListAll(drv contracts.Driver) (Listing, error) {
	ins, err := List(drv, contracts.Input)
	if err != nil {
		return Listing{}, err
	}
	outs, err := List(drv, contracts.Output)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Inputs: ins, Outputs: outs}, nil
}
