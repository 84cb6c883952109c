package midi

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/leandrodaf/midiutil/internal/midi/mididarwin"
	"github.com/leandrodaf/midiutil/internal/midi/midirtmidi"
	"github.com/leandrodaf/midiutil/internal/midi/midiwindows"
	"github.com/leandrodaf/midiutil/sdk/contracts"
)

var (
	// ErrUnsupportedOS is returned when the native backend is requested on an operating system without one.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// ErrUnknownBackend is returned for backend names that are not registered.
	ErrUnknownBackend = errors.New("unknown MIDI backend")
)

type driverInitializer func(*contracts.ClientOptions) (contracts.Driver, error)

// driverInitializers maps backend names to driver initializers.
var driverInitializers = map[string]driverInitializer{
	"rtmidi":   midirtmidi.NewDriver,  // ALSA, JACK, CoreMIDI or WinMM through rtmidi.
	"coremidi": mididarwin.NewDriver,  // macOS (Darwin) CoreMIDI.
	"winmm":    midiwindows.NewDriver, // Windows multimedia API.
}

// nativeBackends maps OS names to the backend talking to the OS API directly.
var nativeBackends = map[string]string{
	"darwin":  "coremidi",
	"windows": "winmm",
}

// Backends returns the names accepted by contracts.WithBackend.
func Backends() []string {
	names := make([]string, 0, len(driverInitializers)+1)
	for name := range driverInitializers {
		names = append(names, name)
	}
	names = append(names, "native")
	sort.Strings(names)
	return names
}

// NewDriver opens the driver selected by opts: opts.Driver if set, otherwise the named backend.
// "native" picks the backend of the current operating system, returning ErrUnsupportedOS
// where there is none.
//
// opts *contracts.ClientOptions: Configuration options for the MIDI client.
//
// Returns:
//   - contracts.Driver: The MIDI driver.
//   - error: An error if the backend is unknown or unsupported, or if initialization fails.
func NewDriver(opts *contracts.ClientOptions) (contracts.Driver, error) {
	if opts.Driver != nil {
		return opts.Driver, nil
	}

	name := strings.ToLower(opts.Backend)
	if name == "native" {
		native, ok := nativeBackends[runtime.GOOS]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
		}
		name = native
	}
	if initializer, exists := driverInitializers[name]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownBackend, opts.Backend, strings.Join(Backends(), ", "))
}
