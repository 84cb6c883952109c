package transport

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"

	"github.com/leandrodaf/midiutil/sdk/contracts"
	"go.uber.org/multierr"
)

// Receive opens port and hands every incoming message to sink until ctx is done.
//
// The driver callback only copies the message into a buffered channel; sink runs on the
// calling goroutine. When the buffer is full the message is dropped and a warning logged,
// so a slow sink never stalls the driver thread. Cancellation is not an error.
func (t *Transport) Receive(ctx context.Context, port contracts.Port, sink func(msg []byte)) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, h, err := t.openIn(port)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, h.close()) }()

	msgs := make(chan []byte, t.bufferSize)
	errs := make(chan error, 1)
	var dropped atomic.Uint64

	onMsg := func(msg []byte) {
		select {
		case msgs <- bytes.Clone(msg):
		default:
			n := dropped.Add(1)
			t.logger.Warn("receive buffer full; dropping MIDI message",
				t.portField(port),
				t.logger.Field().Uint64("dropped", n))
		}
	}
	onErr := func(err error) {
		select {
		case errs <- err:
		default:
		}
	}

	if err := in.Listen(onMsg, onErr); err != nil {
		return fmt.Errorf("%w: listen on %q: %v", contracts.ErrTransport, port.Name, err)
	}
	t.logger.Info("receiving MIDI messages", t.portField(port))

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("receive loop stopped", t.portField(port), t.logger.Field().Uint64("dropped", dropped.Load()))
			return nil
		case err := <-errs:
			t.logger.Error("MIDI input failed", t.portField(port), t.logger.Field().Error("error", err))
			return fmt.Errorf("%w: receive from %q: %v", contracts.ErrTransport, port.Name, err)
		case msg := <-msgs:
			sink(msg)
		}
	}
}
