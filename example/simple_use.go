package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/midiutil/internal/logger"
	"github.com/leandrodaf/midiutil/sdk/contracts"
	"github.com/leandrodaf/midiutil/sdk/midi"
)

func main() {
	log := logger.NewConsoleLogger()

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		return
	}
	defer client.Close()

	devices, err := client.ListPorts(contracts.Input)
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI inputs:", devices)

	port, err := client.ResolvePort("0", contracts.Input)
	if err != nil {
		log.Error("Failed to select MIDI device", log.Field().Error("error", err))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Capturing MIDI events... Press Ctrl+C to exit.")
	err = client.Receive(ctx, port, func(msg []byte) {
		log.Info("MIDI Event", log.Field().String("port", port.Name), log.Field().Bytes("data", msg))
	})
	if err != nil {
		log.Error("Capture failed", log.Field().Error("error", err))
	}
}
