package contracts

// Driver abstracts the MIDI subsystem of the host (rtmidi, CoreMIDI, winmm, ...).
type Driver interface {
	Ins() ([]Port, error)               // Lists the input ports.
	Outs() ([]Port, error)              // Lists the output ports.
	OpenIn(port Port) (InPort, error)   // Opens an input port from a previous listing.
	OpenOut(port Port) (OutPort, error) // Opens an output port from a previous listing.
	Close() error                       // Releases the driver.
}

// OutPort is an opened output port.
type OutPort interface {
	Send(msg []byte) error // Sends one complete message.
	Close() error          // Closes the port.
}

// InPort is an opened input port.
//
// Listen registers onMsg for every incoming message, with no message class filtered out.
// onMsg and onErr may be invoked from a goroutine or thread owned by the driver and must
// not block. The slice passed to onMsg is only valid for the duration of the call.
type InPort interface {
	Listen(onMsg func(msg []byte), onErr func(err error)) error
	Close() error
}
