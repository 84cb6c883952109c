package main

import (
	"context"
	"io"

	"github.com/leandrodaf/midiutil/internal/codec"
	"github.com/leandrodaf/midiutil/sdk/contracts"
)

func (o *options) runWrite(ctx context.Context, _ io.Writer, client contracts.ClientMIDI, args []string) error {
	if o.device == "" {
		return contracts.ErrNoDeviceSpecified
	}
	msg, err := codec.ParseTokens(args, codec.ModeFor(o.hex))
	if err != nil {
		return err
	}
	port, err := client.ResolvePort(o.device, contracts.Output)
	if err != nil {
		return err
	}
	return client.Send(ctx, port, msg)
}
