package midi

import (
	"github.com/leandrodaf/midiutil/internal/logger"
	"github.com/leandrodaf/midiutil/internal/transport"
	"github.com/leandrodaf/midiutil/sdk/contracts"
)

// DefaultBackend is used when no backend is selected.
const DefaultBackend = "rtmidi"

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify ClientOptions.
//
// Returns:
//   - contracts.ClientOptions: A structure containing the finalized client options with defaults applied.
//   - error: An error if there was an issue applying the options.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	if options.Backend == "" {
		options.Backend = DefaultBackend
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: "GO MIDI Client"}
	}
	if options.Pacing <= 0 {
		options.Pacing = transport.DefaultPacing
	}
	if options.ReceiveBuffer <= 0 {
		options.ReceiveBuffer = transport.DefaultReceiveBuffer
	}

	options.Logger.SetLevel(options.LogLevel) // Set the logger to the specified log level
	return *options, nil
}
