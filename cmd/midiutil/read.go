package main

import (
	"context"
	"fmt"
	"io"

	"github.com/leandrodaf/midiutil/internal/codec"
	"github.com/leandrodaf/midiutil/sdk/contracts"
)

// runRead prints every incoming message until ctx is cancelled (Ctrl-C).
func (o *options) runRead(ctx context.Context, out io.Writer, client contracts.ClientMIDI, _ []string) error {
	if o.device == "" {
		return contracts.ErrNoDeviceSpecified
	}
	port, err := client.ResolvePort(o.device, contracts.Input)
	if err != nil {
		return err
	}
	mode := codec.ModeFor(o.hex)
	return client.Receive(ctx, port, func(msg []byte) {
		fmt.Fprintln(out, codec.Format(msg, mode))
	})
}
