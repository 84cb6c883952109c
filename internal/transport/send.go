package transport

import (
	"context"
	"fmt"
	"iter"

	"github.com/leandrodaf/midiutil/sdk/contracts"
	"go.uber.org/multierr"
)

// Send transmits msg to port as a single message.
func (t *Transport) Send(ctx context.Context, port contracts.Port, msg []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, h, err := t.openOut(port)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, h.close()) }()

	if err := out.Send(msg); err != nil {
		t.logger.Error("failed to send MIDI message", t.portField(port), t.logger.Field().Error("error", err))
		return fmt.Errorf("%w: send to %q: %v", contracts.ErrTransport, port.Name, err)
	}
	t.logger.Debug("MIDI message sent", t.portField(port), t.logger.Field().Bytes("data", msg))
	return nil
}

// SendSysEx opens port once and sends every frame of buf in order, calling progress with
// the frame size after each frame and pausing for the pacing interval before going on.
// The first failure stops the stream; frames already sent are not repeated.
func (t *Transport) SendSysEx(ctx context.Context, port contracts.Port, buf []byte, frames iter.Seq[contracts.SysExFrame], progress func(n int)) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, h, err := t.openOut(port)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, h.close()) }()

	sent := 0
	for frame := range frames {
		data := frame.Bytes(buf)
		if err := out.Send(data); err != nil {
			t.logger.Error("failed to send SysEx frame",
				t.portField(port),
				t.logger.Field().Int("frame", sent),
				t.logger.Field().Error("error", err))
			return fmt.Errorf("%w: send SysEx frame %d (%d bytes) to %q: %v", contracts.ErrTransport, sent+1, len(data), port.Name, err)
		}
		sent++
		t.logger.Debug("SysEx frame sent",
			t.portField(port),
			t.logger.Field().Int("frame", sent),
			t.logger.Field().Int("bytes", len(data)))
		if progress != nil {
			progress(len(data))
		}
		if err := t.sleep(ctx, t.pacing); err != nil {
			return err
		}
	}
	t.logger.Info("SysEx stream complete", t.portField(port), t.logger.Field().Int("frames", sent))
	return nil
}
