package contracts

// Direction tells whether a port delivers messages to us or accepts messages from us.
type Direction int

const (
	// Input ports deliver messages from a device.
	Input Direction = iota
	// Output ports accept messages for a device.
	Output
)

// String returns the human-readable name of the direction.
func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "unknown"
	}
}

// Port is a MIDI endpoint as seen in one enumeration snapshot.
// Index is only meaningful for the snapshot that produced it.
type Port struct {
	Index     int       // Position in the enumeration.
	Name      string    // Name reported by the MIDI subsystem.
	Direction Direction // Input or Output.
}

// SysExFrame is an inclusive byte range of a buffer that starts with 0xF0 and ends with 0xF7.
type SysExFrame struct {
	Start int // Index of the 0xF0 byte.
	End   int // Index of the 0xF7 byte.
}

// Len returns the number of bytes in the frame, delimiters included.
func (f SysExFrame) Len() int {
	return f.End - f.Start + 1
}

// Bytes returns the frame as a sub-slice of buf.
func (f SysExFrame) Bytes(buf []byte) []byte {
	return buf[f.Start : f.End+1]
}

const (
	// SysExStart opens a System Exclusive message.
	SysExStart byte = 0xF0
	// SysExEnd closes a System Exclusive message.
	SysExEnd byte = 0xF7
)
