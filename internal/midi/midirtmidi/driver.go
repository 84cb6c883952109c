// Package midirtmidi is the portable backend, built on gomidi and the rtmidi C++ library.
package midirtmidi

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/midiutil/internal/midi/portmatch"
	"github.com/leandrodaf/midiutil/sdk/contracts"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// sysExBufferSize is large enough for common bulk dumps received in one piece.
const sysExBufferSize = 1 << 16

// Driver implements contracts.Driver with rtmidi.
type Driver struct {
	logger contracts.Logger
	drv    *rtmididrv.Driver
}

// NewDriver opens the rtmidi driver.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	options.Logger.Debug("rtmidi driver opened", options.Logger.Field().String("driver", drv.String()))
	return &Driver{logger: options.Logger, drv: drv}, nil
}

// Ins lists the rtmidi input ports.
func (d *Driver) Ins() ([]contracts.Port, error) {
	ins, err := d.drv.Ins()
	if err != nil {
		return nil, err
	}
	ports := make([]contracts.Port, len(ins))
	for i, in := range ins {
		ports[i] = contracts.Port{Index: i, Name: in.String(), Direction: contracts.Input}
	}
	return ports, nil
}

// Outs lists the rtmidi output ports.
func (d *Driver) Outs() ([]contracts.Port, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, err
	}
	ports := make([]contracts.Port, len(outs))
	for i, out := range outs {
		ports[i] = contracts.Port{Index: i, Name: out.String(), Direction: contracts.Output}
	}
	return ports, nil
}

// OpenOut opens the output port at port.Index, provided it still carries port.Name.
func (d *Driver) OpenOut(port contracts.Port) (contracts.OutPort, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, err
	}
	if err := portmatch.Check(port, portNames(outs)); err != nil {
		return nil, err
	}
	out := outs[port.Index]
	if err := out.Open(); err != nil {
		return nil, fmt.Errorf("open %q: %w", port.Name, err)
	}
	return &outPort{out: out}, nil
}

// OpenIn opens the input port at port.Index, provided it still carries port.Name.
func (d *Driver) OpenIn(port contracts.Port) (contracts.InPort, error) {
	ins, err := d.drv.Ins()
	if err != nil {
		return nil, err
	}
	if err := portmatch.Check(port, portNames(ins)); err != nil {
		return nil, err
	}
	in := ins[port.Index]
	if err := in.Open(); err != nil {
		return nil, fmt.Errorf("open %q: %w", port.Name, err)
	}
	return &inPort{in: in, logger: d.logger}, nil
}

// Close shuts down the rtmidi driver and every port it opened.
func (d *Driver) Close() error {
	return d.drv.Close()
}

func portNames[P fmt.Stringer](ports []P) []string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}
	return names
}

type outPort struct {
	out drivers.Out
}

func (o *outPort) Send(msg []byte) error {
	return o.out.Send(msg)
}

func (o *outPort) Close() error {
	return o.out.Close()
}

type inPort struct {
	mu     sync.Mutex
	in     drivers.In
	logger contracts.Logger
	stop   func()
}

// Listen turns off every rtmidi input filter: SysEx, MIDI time code/clock and active
// sensing are all delivered.
func (i *inPort) Listen(onMsg func(msg []byte), onErr func(err error)) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.stop != nil {
		return fmt.Errorf("%q is already listening", i.in.String())
	}
	stop, err := i.in.Listen(func(msg []byte, _ int32) {
		onMsg(msg)
	}, drivers.ListenConfig{
		TimeCode:        true,
		ActiveSense:     true,
		SysEx:           true,
		SysExBufferSize: sysExBufferSize,
		OnErr: func(err error) {
			i.logger.Warn("rtmidi listener error", i.logger.Field().String("port", i.in.String()), i.logger.Field().Error("error", err))
			if onErr != nil {
				onErr(err)
			}
		},
	})
	if err != nil {
		return err
	}
	i.stop = stop
	return nil
}

func (i *inPort) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.stop != nil {
		i.stop()
		i.stop = nil
	}
	return i.in.Close()
}
