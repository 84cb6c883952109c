package main

import (
	"context"
	"fmt"
	"io"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

func runList(_ context.Context, out io.Writer, client contracts.ClientMIDI, _ []string) error {
	ins, err := client.ListPorts(contracts.Input)
	if err != nil {
		return err
	}
	outs, err := client.ListPorts(contracts.Output)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Available ports:")
	fmt.Fprintln(out)
	printPorts(out, "Input", ins)
	printPorts(out, "Output", outs)
	return nil
}

func printPorts(out io.Writer, title string, ports []contracts.Port) {
	fmt.Fprintf(out, "\t%s:\n", title)
	fmt.Fprintln(out, "\t\tID\tName")
	for _, p := range ports {
		fmt.Fprintf(out, "\t\t%d\t%s\n", p.Index, p.Name)
	}
	fmt.Fprintln(out)
}
