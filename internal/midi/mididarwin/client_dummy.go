//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

// ErrUnavailable is returned when CoreMIDI is requested outside macOS.
var ErrUnavailable = errors.New("CoreMIDI is only available on macOS")

// NewDriver fails on every platform but macOS.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	options.Logger.Warn("CoreMIDI backend requested on a non-macOS system")
	return nil, ErrUnavailable
}
