//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/leandrodaf/midiutil/internal/midi/midiwire"
	"github.com/leandrodaf/midiutil/internal/midi/portmatch"
	"github.com/leandrodaf/midiutil/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type (
	HMIDIIN  windows.Handle
	HMIDIOUT windows.Handle
)

// Constants for callback flags
const (
	CALLBACK_NULL     = 0x00000000 // No callback
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_LONGDATA  = 0x3C4 // System exclusive buffer received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

// MHDR_DONE is set by the driver once a long buffer has been played.
const MHDR_DONE = 0x00000001

// Struct representing MIDI input device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Struct representing MIDI output device capabilities
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// midiHdr mirrors MIDIHDR, the header of a long (SysEx) buffer.
type midiHdr struct {
	lpData          *byte
	dwBufferLength  uint32
	dwBytesRecorded uint32
	dwUser          uintptr
	dwFlags         uint32
	lpNext          uintptr
	reserved        uintptr
	dwOffset        uint32
	dwReserved      [8]uintptr
}

// Load the winmm.dll library and required functions
var (
	winmm                      = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs       = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps       = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen             = winmm.NewProc("midiInOpen")
	procMidiInStart            = winmm.NewProc("midiInStart")
	procMidiInStop             = winmm.NewProc("midiInStop")
	procMidiInReset            = winmm.NewProc("midiInReset")
	procMidiInClose            = winmm.NewProc("midiInClose")
	procMidiOutGetNumDevs      = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps      = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen            = winmm.NewProc("midiOutOpen")
	procMidiOutClose           = winmm.NewProc("midiOutClose")
	procMidiOutShortMsg        = winmm.NewProc("midiOutShortMsg")
	procMidiOutLongMsg         = winmm.NewProc("midiOutLongMsg")
	procMidiOutPrepareHeader   = winmm.NewProc("midiOutPrepareHeader")
	procMidiOutUnprepareHeader = winmm.NewProc("midiOutUnprepareHeader")
)

// inputs maps the instance value handed to midiInOpen back to its port.
var (
	inputs sync.Map // uintptr -> *inPort
	nextID atomic.Uintptr
)

var callback = windows.NewCallback(midiInCallback)

func mmError(call string, r uintptr) error {
	return fmt.Errorf("%s failed: MMRESULT %d", call, r)
}

// Driver talks to the Windows multimedia MIDI API.
type Driver struct {
	logger contracts.Logger
}

// NewDriver creates a winmm driver.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	if err := winmm.Load(); err != nil {
		return nil, fmt.Errorf("load winmm.dll: %w", err)
	}
	options.Logger.Debug("winmm MIDI driver created")
	return &Driver{logger: options.Logger}, nil
}

func (d *Driver) inNames() []string {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	names := make([]string, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(uintptr(i), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if r1 != 0 {
			d.logger.Warn("failed to get information for MIDI input", d.logger.Field().Int("device", int(i)))
			names = append(names, "")
			continue
		}
		names = append(names, windows.UTF16ToString(caps.szPname[:]))
	}
	return names
}

func (d *Driver) outNames() []string {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)
	names := make([]string, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(uintptr(i), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if r1 != 0 {
			d.logger.Warn("failed to get information for MIDI output", d.logger.Field().Int("device", int(i)))
			names = append(names, "")
			continue
		}
		names = append(names, windows.UTF16ToString(caps.szPname[:]))
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

// Ins lists the MIDI input devices.
func (d *Driver) Ins() ([]contracts.Port, error) {
	return toPorts(d.inNames(), contracts.Input), nil
}

// Outs lists the MIDI output devices.
func (d *Driver) Outs() ([]contracts.Port, error) {
	return toPorts(d.outNames(), contracts.Output), nil
}

// OpenOut opens the output device at port.Index.
func (d *Driver) OpenOut(port contracts.Port) (contracts.OutPort, error) {
	if err := portmatch.Check(port, d.outNames()); err != nil {
		return nil, err
	}
	var handle HMIDIOUT
	r1, _, _ := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&handle)),
		uintptr(port.Index),
		0,
		0,
		CALLBACK_NULL,
	)
	if r1 != 0 {
		return nil, mmError("midiOutOpen", r1)
	}
	d.logger.Debug("MIDI output opened", d.logger.Field().String("port", port.Name))
	return &outPort{handle: handle}, nil
}

// OpenIn opens the input device at port.Index. Capture starts with Listen.
func (d *Driver) OpenIn(port contracts.Port) (contracts.InPort, error) {
	if err := portmatch.Check(port, d.inNames()); err != nil {
		return nil, err
	}
	in := &inPort{logger: d.logger, name: port.Name, id: nextID.Add(1)}
	inputs.Store(in.id, in)

	r1, _, _ := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&in.handle)),
		uintptr(port.Index),
		callback,
		in.id,
		CALLBACK_FUNCTION|MIDI_IO_STATUS,
	)
	if r1 != 0 {
		inputs.Delete(in.id)
		return nil, mmError("midiInOpen", r1)
	}
	d.logger.Debug("MIDI input opened", d.logger.Field().String("port", port.Name))
	return in, nil
}

// Close has nothing to release; every handle belongs to a port.
func (d *Driver) Close() error {
	return nil
}

type outPort struct {
	mu     sync.Mutex
	handle HMIDIOUT
}

// Send uses midiOutShortMsg for channel and system common/real-time messages and a
// prepared long buffer for everything else (SysEx).
func (o *outPort) Send(msg []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.handle == 0 {
		return errors.New("send on closed output port")
	}
	if word, ok := midiwire.PackShort(msg); ok {
		if r1, _, _ := procMidiOutShortMsg.Call(uintptr(o.handle), uintptr(word)); r1 != 0 {
			return mmError("midiOutShortMsg", r1)
		}
		return nil
	}
	return o.sendLong(msg)
}

func (o *outPort) sendLong(msg []byte) error {
	if len(msg) == 0 {
		return nil
	}
	data := append([]byte(nil), msg...)
	hdr := &midiHdr{lpData: &data[0], dwBufferLength: uint32(len(data))}
	size := unsafe.Sizeof(*hdr)

	if r1, _, _ := procMidiOutPrepareHeader.Call(uintptr(o.handle), uintptr(unsafe.Pointer(hdr)), size); r1 != 0 {
		return mmError("midiOutPrepareHeader", r1)
	}
	r1, _, _ := procMidiOutLongMsg.Call(uintptr(o.handle), uintptr(unsafe.Pointer(hdr)), size)
	if r1 == 0 {
		for atomic.LoadUint32(&hdr.dwFlags)&MHDR_DONE == 0 {
			time.Sleep(time.Millisecond)
		}
	}
	procMidiOutUnprepareHeader.Call(uintptr(o.handle), uintptr(unsafe.Pointer(hdr)), size)
	runtime.KeepAlive(data)
	if r1 != 0 {
		return mmError("midiOutLongMsg", r1)
	}
	return nil
}

func (o *outPort) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.handle == 0 {
		return nil
	}
	r1, _, _ := procMidiOutClose.Call(uintptr(o.handle))
	o.handle = 0
	if r1 != 0 {
		return mmError("midiOutClose", r1)
	}
	return nil
}

// inPort receives short messages through the winmm callback. SysEx input needs
// rtmidi; no long buffers are queued here.
type inPort struct {
	mu        sync.Mutex
	logger    contracts.Logger
	name      string
	id        uintptr
	handle    HMIDIIN
	onMsg     atomic.Value // func([]byte)
	onErr     atomic.Value // func(error)
	capturing bool
}

func (i *inPort) Listen(onMsg func(msg []byte), onErr func(err error)) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.capturing {
		return fmt.Errorf("%q is already listening", i.name)
	}
	if i.handle == 0 {
		return errors.New("invalid MIDI device handle")
	}
	i.onMsg.Store(onMsg)
	if onErr != nil {
		i.onErr.Store(onErr)
	}
	if r1, _, _ := procMidiInStart.Call(uintptr(i.handle)); r1 != 0 {
		return mmError("midiInStart", r1)
	}
	i.capturing = true
	i.logger.Debug("MIDI capture started", i.logger.Field().String("port", i.name))
	return nil
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	v, ok := inputs.Load(dwInstance)
	if !ok {
		return 0
	}
	in := v.(*inPort)

	switch wMsg {
	case MIM_DATA:
		msg := midiwire.UnpackShort(uint32(dwParam1))
		if msg == nil {
			return 0
		}
		if onMsg, ok := in.onMsg.Load().(func([]byte)); ok {
			onMsg(msg)
		}
	case MIM_ERROR:
		in.logger.Warn("invalid MIDI message received", in.logger.Field().Uint64("data", uint64(dwParam1)))
	case MIM_LONGERROR:
		if onErr, ok := in.onErr.Load().(func(error)); ok {
			onErr(errors.New("incomplete or invalid SysEx message received"))
		}
	case MIM_OPEN, MIM_CLOSE, MIM_LONGDATA, MIM_MOREDATA:
	}
	return 0
}

// Close stops the capture and releases the device.
func (i *inPort) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	defer inputs.Delete(i.id)
	if i.handle == 0 {
		return nil
	}
	if i.capturing {
		procMidiInStop.Call(uintptr(i.handle))
		i.capturing = false
	}
	procMidiInReset.Call(uintptr(i.handle))
	r1, _, _ := procMidiInClose.Call(uintptr(i.handle))
	i.handle = 0
	if r1 != 0 {
		return mmError("midiInClose", r1)
	}
	return nil
}
