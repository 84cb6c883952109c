package contracts

import "time"

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// ClientOptions defines the configuration options for the MIDI client.
type ClientOptions struct {
	Logger         Logger          // Logger for logging events and errors.
	LogLevel       LogLevel        // Level of logging to use.
	LogFilePath    string          // File path for logging if file logging is enabled.
	Backend        string          // Name of the MIDI backend ("rtmidi", "coremidi", "winmm", "native").
	Driver         Driver          // Preconfigured driver; takes precedence over Backend.
	CoreMIDIConfig *CoreMIDIConfig // Configuration specific to CoreMIDI.
	Pacing         time.Duration   // Pause after each SysEx frame.
	ReceiveBuffer  int             // Number of incoming messages buffered between driver and sink.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the MIDI client.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the MIDI client.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFilePath directs the default logger to a file.
func WithLogFilePath(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithBackend selects the MIDI backend by name.
func WithBackend(name string) Option {
	return func(opts *ClientOptions) {
		opts.Backend = name
	}
}

// WithDriver makes the client use d instead of opening a backend.
// The client takes ownership of d and closes it on Close.
func WithDriver(d Driver) Option {
	return func(opts *ClientOptions) {
		opts.Driver = d
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration for the MIDI client.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &config
	}
}

// WithPacing sets the pause inserted after each SysEx frame.
func WithPacing(d time.Duration) Option {
	return func(opts *ClientOptions) {
		opts.Pacing = d
	}
}

// WithReceiveBuffer sets how many incoming messages may wait for the sink.
func WithReceiveBuffer(n int) Option {
	return func(opts *ClientOptions) {
		opts.ReceiveBuffer = n
	}
}
