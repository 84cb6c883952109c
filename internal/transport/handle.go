package transport

import (
	"fmt"
	"io"
	"sync"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

type state int

const (
	stateUnopened state = iota
	stateOpen
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateUnopened:
		return "unopened"
	case stateOpen:
		return "open"
	case stateClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// handle tracks one opened port through Unopened -> Open -> Closed. It never reopens.
type handle struct {
	mu     sync.Mutex
	port   contracts.Port
	state  state
	closer io.Closer
}

func newHandle(port contracts.Port) *handle {
	return &handle{port: port}
}

func (h *handle) open(open func() (io.Closer, error)) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != stateUnopened {
		return fmt.Errorf("%w: port %q is %s", contracts.ErrTransport, h.port.Name, h.state)
	}
	c, err := open()
	if err != nil {
		h.state = stateClosed
		return fmt.Errorf("%w: open %s port %q: %v", contracts.ErrTransport, h.port.Direction, h.port.Name, err)
	}
	h.closer = c
	h.state = stateOpen
	return nil
}

// close is safe to call more than once; only the first call reaches the driver.
func (h *handle) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != stateOpen {
		h.state = stateClosed
		return nil
	}
	h.state = stateClosed
	if err := h.closer.Close(); err != nil {
		return fmt.Errorf("%w: close port %q: %v", contracts.ErrTransport, h.port.Name, err)
	}
	return nil
}

func (h *handle) current() state {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}
