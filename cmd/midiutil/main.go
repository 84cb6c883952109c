// Command midiutil lists MIDI ports, sends raw messages and SysEx dumps to an output
// port, and prints the messages arriving on an input port.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Stdout, os.Args[1:])
	stop()
	os.Exit(code)
}

// execute runs the command line and maps its outcome to an exit code.
// Errors are reported on out as a single "Error: ..." line.
func execute(ctx context.Context, out io.Writer, args []string, opts ...contracts.Option) int {
	if args == nil {
		args = []string{}
	}
	cmd := newRootCmd(out, opts...)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}
	return 0
}
