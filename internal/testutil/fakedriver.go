// Package testutil provides an in-memory MIDI driver for tests.
package testutil

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

// FakeDriver is a contracts.Driver backed by fixed port names. It records every
// message sent to its output ports and lets tests inject incoming messages.
type FakeDriver struct {
	mu sync.Mutex

	InNames  []string
	OutNames []string

	InsErr  error // Returned by Ins.
	OutsErr error // Returned by Outs.
	OpenErr error // Returned by OpenIn and OpenOut.
	SendErr error // Returned by Send once SendErrAfter messages went through.

	SendErrAfter int

	sent   []SentMessage
	opened []contracts.Port
	outs   []*FakeOut
	ins    []*FakeIn
	closed bool
}

// SentMessage is one message recorded by FakeDriver.
type SentMessage struct {
	Port string
	Data []byte
}

// NewFakeDriver returns a driver exposing the given input and output port names.
func NewFakeDriver(ins, outs []string) *FakeDriver {
	return &FakeDriver{InNames: ins, OutNames: outs}
}

func (d *FakeDriver) Ins() ([]contracts.Port, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.InsErr != nil {
		return nil, d.InsErr
	}
	return ports(d.InNames, contracts.Input), nil
}

func (d *FakeDriver) Outs() ([]contracts.Port, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.OutsErr != nil {
		return nil, d.OutsErr
	}
	return ports(d.OutNames, contracts.Output), nil
}

func ports(names []string, dir contracts.Direction) []contracts.Port {
	out := make([]contracts.Port, len(names))
	for i, name := range names {
		out[i] = contracts.Port{Index: i, Name: name, Direction: dir}
	}
	return out
}

func (d *FakeDriver) OpenIn(port contracts.Port) (contracts.InPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(port, d.InNames); err != nil {
		return nil, err
	}
	in := &FakeIn{name: port.Name, listening: make(chan struct{})}
	d.ins = append(d.ins, in)
	d.opened = append(d.opened, port)
	return in, nil
}

func (d *FakeDriver) OpenOut(port contracts.Port) (contracts.OutPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(port, d.OutNames); err != nil {
		return nil, err
	}
	out := &FakeOut{drv: d, name: port.Name}
	d.outs = append(d.outs, out)
	d.opened = append(d.opened, port)
	return out, nil
}

func (d *FakeDriver) checkOpen(port contracts.Port, names []string) error {
	if d.OpenErr != nil {
		return d.OpenErr
	}
	if port.Index < 0 || port.Index >= len(names) || names[port.Index] != port.Name {
		return fmt.Errorf("fake: no port %q at %d", port.Name, port.Index)
	}
	return nil
}

func (d *FakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Sent returns the messages sent so far, in order.
func (d *FakeDriver) Sent() []SentMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]SentMessage(nil), d.sent...)
}

// Opened returns every port opened so far, in order.
func (d *FakeDriver) Opened() []contracts.Port {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]contracts.Port(nil), d.opened...)
}

// OpenedOuts returns the output ports opened so far.
func (d *FakeDriver) OpenedOuts() []*FakeOut {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*FakeOut(nil), d.outs...)
}

// LastIn returns the most recently opened input port, or nil.
func (d *FakeDriver) LastIn() *FakeIn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.ins) == 0 {
		return nil
	}
	return d.ins[len(d.ins)-1]
}

// Closed reports whether Close was called.
func (d *FakeDriver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// FakeOut is an output port of FakeDriver.
type FakeOut struct {
	drv    *FakeDriver
	name   string
	closed bool
}

func (o *FakeOut) Send(msg []byte) error {
	d := o.drv
	d.mu.Lock()
	defer d.mu.Unlock()
	if o.closed {
		return fmt.Errorf("fake: send on closed port %q", o.name)
	}
	if d.SendErr != nil && len(d.sent) >= d.SendErrAfter {
		return d.SendErr
	}
	d.sent = append(d.sent, SentMessage{Port: o.name, Data: append([]byte(nil), msg...)})
	return nil
}

func (o *FakeOut) Close() error {
	o.drv.mu.Lock()
	defer o.drv.mu.Unlock()
	o.closed = true
	return nil
}

// IsClosed reports whether the port was closed.
func (o *FakeOut) IsClosed() bool {
	o.drv.mu.Lock()
	defer o.drv.mu.Unlock()
	return o.closed
}

// FakeIn is an input port of FakeDriver.
type FakeIn struct {
	mu        sync.Mutex
	name      string
	onMsg     func([]byte)
	onErr     func(error)
	listening chan struct{}
	closed    bool
}

func (i *FakeIn) Listen(onMsg func([]byte), onErr func(error)) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.onMsg != nil {
		return fmt.Errorf("fake: %q already listening", i.name)
	}
	i.onMsg, i.onErr = onMsg, onErr
	close(i.listening)
	return nil
}

func (i *FakeIn) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	return nil
}

// Listening is closed once a handler is registered.
func (i *FakeIn) Listening() <-chan struct{} {
	return i.listening
}

// Emit delivers msg as if it came from the device. Messages after Close are dropped.
func (i *FakeIn) Emit(msg []byte) {
	i.mu.Lock()
	onMsg, closed := i.onMsg, i.closed
	i.mu.Unlock()
	if onMsg == nil || closed {
		return
	}
	onMsg(msg)
}

// Fail reports an asynchronous driver error.
func (i *FakeIn) Fail(err error) {
	i.mu.Lock()
	onErr := i.onErr
	i.mu.Unlock()
	if onErr != nil {
		onErr(err)
	}
}

// IsClosed reports whether the port was closed.
func (i *FakeIn) IsClosed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.closed
}
