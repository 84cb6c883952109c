//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/midiutil/internal/midi/portmatch"
	"github.com/leandrodaf/midiutil/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
	ErrCreateOutputPort    = errors.New("error creating output port")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// Driver talks to CoreMIDI. Sources are listed as inputs and destinations as outputs.
type Driver struct {
	logger contracts.Logger
	client coremidi.Client
	name   string
}

// NewDriver creates the CoreMIDI client all ports are opened through.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Debug("CoreMIDI client successfully created",
		options.Logger.Field().String("client", options.CoreMIDIConfig.ClientName))

	return &Driver{logger: options.Logger, client: client, name: options.CoreMIDIConfig.ClientName}, nil
}

func sourceNames(sources []coremidi.Source) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	return names
}

func destinationNames(destinations []coremidi.Destination) []string {
	names := make([]string, len(destinations))
	for i, d := range destinations {
		names[i] = d.Name()
	}
	return names
}

func toPorts(names []string, dir contracts.Direction) []contracts.Port {
	ports := make([]contracts.Port, len(names))
	for i, n := range names {
		ports[i] = contracts.Port{Index: i, Name: n, Direction: dir}
	}
	return ports
}

// Ins lists the CoreMIDI sources.
func (d *Driver) Ins() ([]contracts.Port, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	return toPorts(sourceNames(sources), contracts.Input), nil
}

// Outs lists the CoreMIDI destinations.
func (d *Driver) Outs() ([]contracts.Port, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	return toPorts(destinationNames(destinations), contracts.Output), nil
}

// OpenOut creates an output port bound to the destination at port.Index.
func (d *Driver) OpenOut(port contracts.Port) (contracts.OutPort, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	if err := portmatch.Check(port, destinationNames(destinations)); err != nil {
		return nil, err
	}
	out, err := coremidi.NewOutputPort(d.client, d.name+" output")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}
	return &outPort{port: out, destination: destinations[port.Index]}, nil
}

// OpenIn remembers the source at port.Index; the input port is created on Listen.
func (d *Driver) OpenIn(port contracts.Port) (contracts.InPort, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if err := portmatch.Check(port, sourceNames(sources)); err != nil {
		return nil, err
	}
	return &inPort{driver: d, source: sources[port.Index], name: port.Name}, nil
}

// Close is a no-op: CoreMIDI releases the client when the process exits.
func (d *Driver) Close() error {
	return nil
}

type outPort struct {
	mu          sync.Mutex
	port        coremidi.OutputPort
	destination coremidi.Destination
	closed      bool
}

func (o *outPort) Send(msg []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return errors.New("send on closed output port")
	}
	packet := coremidi.NewPacket(msg, 0)
	return packet.Send(&o.port, &o.destination)
}

func (o *outPort) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}

// inPort handles connections to one CoreMIDI source, and ensures safe
// concurrency handling of the packets CoreMIDI delivers on its own thread.
type inPort struct {
	driver   *Driver
	source   coremidi.Source
	name     string
	mu       sync.Mutex
	portConn internalPortConnection
	closed   atomic.Bool
	wg       sync.WaitGroup // in-flight packet callbacks
	stopOnce sync.Once
}

func (i *inPort) Listen(onMsg func(msg []byte), onErr func(err error)) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.portConn != nil {
		return fmt.Errorf("%q is already listening", i.name)
	}

	port, err := coremidi.NewInputPort(i.driver.client, i.driver.name+" input", func(source coremidi.Source, packet coremidi.Packet) {
		if i.closed.Load() {
			return
		}
		i.wg.Add(1)
		defer i.wg.Done()
		onMsg(packet.Data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	conn, err := port.Connect(i.source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}
	i.portConn = conn
	i.driver.logger.Debug("MIDI source connected", i.driver.logger.Field().String("port", i.name))
	return nil
}

// Close disconnects from the source and waits for running callbacks to return.
// It only executes once, even if called multiple times.
func (i *inPort) Close() error {
	i.stopOnce.Do(func() {
		i.closed.Store(true)
		i.mu.Lock()
		defer i.mu.Unlock()
		if i.portConn != nil {
			i.portConn.Disconnect()
			i.portConn = nil
		}
		i.wg.Wait()
	})
	return nil
}
