// Package transport opens resolved ports and moves bytes through them.
//
// Every operation owns its port for its whole duration: it opens the port, does its work
// and closes the port again, on success as well as on the first error. Nothing is retried.
package transport

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

const (
	// DefaultPacing is the pause after each SysEx frame. Slower devices overrun their
	// receive buffers when dumps are sent back to back.
	DefaultPacing = 50 * time.Millisecond
	// DefaultReceiveBuffer is the number of incoming messages that may wait for the sink.
	DefaultReceiveBuffer = 1024
)

// Transport performs send and receive operations on the ports of one driver.
type Transport struct {
	drv        contracts.Driver
	logger     contracts.Logger
	pacing     time.Duration
	bufferSize int
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option configures a Transport.
type Option func(*Transport)

// WithPacing overrides DefaultPacing. Values <= 0 are ignored.
func WithPacing(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.pacing = d
		}
	}
}

// WithReceiveBuffer overrides DefaultReceiveBuffer. Values <= 0 are ignored.
func WithReceiveBuffer(n int) Option {
	return func(t *Transport) {
		if n > 0 {
			t.bufferSize = n
		}
	}
}

// WithSleep replaces the function used to pause between SysEx frames.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(t *Transport) {
		if sleep != nil {
			t.sleep = sleep
		}
	}
}

// New returns a Transport for drv.
func New(drv contracts.Driver, logger contracts.Logger, opts ...Option) *Transport {
	t := &Transport{
		drv:        drv,
		logger:     logger,
		pacing:     DefaultPacing,
		bufferSize: DefaultReceiveBuffer,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Pacing returns the pause inserted after each SysEx frame.
func (t *Transport) Pacing() time.Duration {
	return t.pacing
}

func (t *Transport) openOut(port contracts.Port) (contracts.OutPort, *handle, error) {
	if port.Direction != contracts.Output {
		return nil, nil, fmt.Errorf("%w: %q is not an output port", contracts.ErrTransport, port.Name)
	}
	var out contracts.OutPort
	h := newHandle(port)
	err := h.open(func() (io.Closer, error) {
		var err error
		out, err = t.drv.OpenOut(port)
		return out, err
	})
	if err != nil {
		t.logger.Error("failed to open output port", t.portField(port), t.logger.Field().Error("error", err))
		return nil, nil, err
	}
	t.logger.Debug("output port opened", t.portField(port), t.logger.Field().Int("index", port.Index))
	return out, h, nil
}

func (t *Transport) openIn(port contracts.Port) (contracts.InPort, *handle, error) {
	if port.Direction != contracts.Input {
		return nil, nil, fmt.Errorf("%w: %q is not an input port", contracts.ErrTransport, port.Name)
	}
	var in contracts.InPort
	h := newHandle(port)
	err := h.open(func() (io.Closer, error) {
		var err error
		in, err = t.drv.OpenIn(port)
		return in, err
	})
	if err != nil {
		t.logger.Error("failed to open input port", t.portField(port), t.logger.Field().Error("error", err))
		return nil, nil, err
	}
	t.logger.Debug("input port opened", t.portField(port), t.logger.Field().Int("index", port.Index))
	return in, h, nil
}

func (t *Transport) portField(port contracts.Port) contracts.Field {
	return t.logger.Field().String("port", port.Name)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
