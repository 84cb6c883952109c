package contracts

import "errors"

// Error kinds surfaced by the client. Returned errors wrap one of these and can be
// matched with errors.Is.
var (
	ErrDeviceDirectory   = errors.New("error listing MIDI ports")
	ErrNoDeviceSpecified = errors.New("no device specified")
	ErrOutOfRange        = errors.New("device id out of range")
	ErrDeviceNotFound    = errors.New("device not found")
	ErrInvalidByteToken  = errors.New("invalid byte")
	ErrByteOutOfRange    = errors.New("byte out of range")
	ErrFileNotFound      = errors.New("file not found")
	ErrTransport         = errors.New("MIDI transport error")
)
