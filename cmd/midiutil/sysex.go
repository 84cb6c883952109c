package main

import (
	"context"
	"fmt"
	"io"

	"github.com/leandrodaf/midiutil/internal/codec"
	"github.com/leandrodaf/midiutil/sdk/contracts"
)

func (o *options) runSysEx(ctx context.Context, out io.Writer, client contracts.ClientMIDI, _ []string) error {
	if o.device == "" {
		return contracts.ErrNoDeviceSpecified
	}
	port, err := client.ResolvePort(o.device, contracts.Output)
	if err != nil {
		return err
	}
	buf, err := codec.ReadSysExFile(o.sysexFile)
	if err != nil {
		return err
	}

	sent := 0
	err = client.SendSysEx(ctx, port, buf, codec.SysExFrames(buf), func(n int) {
		sent++
		fmt.Fprintf(out, "Sent SysEx message %d (%d bytes) to %s\n", sent, n, port.Name)
	})
	if err != nil {
		return err
	}
	if sent == 0 {
		fmt.Fprintf(out, "No SysEx messages found in %s\n", o.sysexFile)
	}
	return nil
}
