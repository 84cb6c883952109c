package contracts

import (
	"context"
	"iter"
)

// ClientMIDI defines an interface for MIDI client operations.
type ClientMIDI interface {
	// ListPorts returns a fresh snapshot of the ports in the given direction.
	ListPorts(dir Direction) ([]Port, error)
	// ResolvePort picks exactly one port of the given direction for a user selector
	// (index, case-insensitive name prefix, then case-insensitive substring).
	ResolvePort(selector string, dir Direction) (Port, error)
	// Send transmits msg as a single message to an output port.
	Send(ctx context.Context, port Port, msg []byte) error
	// SendSysEx streams the frames of buf to an output port, pausing between frames.
	// progress, if not nil, receives the size of each frame after it was sent.
	SendSysEx(ctx context.Context, port Port, buf []byte, frames iter.Seq[SysExFrame], progress func(n int)) error
	// Receive delivers every message of an input port to sink until ctx is done.
	Receive(ctx context.Context, port Port, sink func(msg []byte)) error
	// Close releases the underlying driver.
	Close() error
}
