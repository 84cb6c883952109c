//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

// ErrUnavailable is returned when winmm is requested outside Windows.
var ErrUnavailable = errors.New("winmm is only available on Windows")

// NewDriver fails on every platform but Windows.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	options.Logger.Warn("winmm backend requested on a non-Windows system")
	return nil, ErrUnavailable
}
