package midi

import (
	"context"
	"iter"

	"github.com/leandrodaf/midiutil/internal/directory"
	"github.com/leandrodaf/midiutil/internal/resolver"
	"github.com/leandrodaf/midiutil/internal/transport"
	"github.com/leandrodaf/midiutil/sdk/contracts"
)

// NewMIDIClient creates a new MIDI client with the specified options.
// It applies default options and initializes the client.
//
// opts ...contracts.Option: A variadic list of option functions to customize the client configuration.
//
// Returns:
//   - contracts.ClientMIDI: An instance of the MIDI client.
//   - error: An error, if any occurred during the creation of the client.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	drv, err := NewDriver(&options)
	if err != nil {
		return nil, err
	}

	return newClient(drv, &options), nil
}

// Client implements contracts.ClientMIDI on top of one driver.
type Client struct {
	logger    contracts.Logger
	driver    contracts.Driver
	transport *transport.Transport
	closed    bool
}

func newClient(drv contracts.Driver, options *contracts.ClientOptions) *Client {
	return &Client{
		logger: options.Logger,
		driver: drv,
		transport: transport.New(drv, options.Logger,
			transport.WithPacing(options.Pacing),
			transport.WithReceiveBuffer(options.ReceiveBuffer),
		),
	}
}

// ListPorts returns a fresh snapshot of the ports in dir.
func (c *Client) ListPorts(dir contracts.Direction) ([]contracts.Port, error) {
	ports, err := directory.List(c.driver, dir)
	if err != nil {
		c.logger.Error("failed to list MIDI ports", c.logger.Field().String("direction", dir.String()), c.logger.Field().Error("error", err))
		return nil, err
	}
	return ports, nil
}

// ResolvePort lists the ports in dir and picks the one selector designates.
func (c *Client) ResolvePort(selector string, dir contracts.Direction) (contracts.Port, error) {
	if selector == "" {
		return contracts.Port{}, contracts.ErrNoDeviceSpecified
	}
	ports, err := c.ListPorts(dir)
	if err != nil {
		return contracts.Port{}, err
	}
	port, err := resolver.Resolve(selector, ports)
	if err != nil {
		c.logger.Debug("device selector did not resolve",
			c.logger.Field().String("selector", selector),
			c.logger.Field().Int("ports", len(ports)),
			c.logger.Field().Error("error", err))
		return contracts.Port{}, err
	}
	c.logger.Info("MIDI device selected",
		c.logger.Field().String("selector", selector),
		c.logger.Field().Int("deviceID", port.Index),
		c.logger.Field().String("deviceName", port.Name))
	return port, nil
}

// Send transmits msg to an output port.
func (c *Client) Send(ctx context.Context, port contracts.Port, msg []byte) error {
	return c.transport.Send(ctx, port, msg)
}

// SendSysEx streams frames of buf to an output port with pacing.
func (c *Client) SendSysEx(ctx context.Context, port contracts.Port, buf []byte, frames iter.Seq[contracts.SysExFrame], progress func(n int)) error {
	return c.transport.SendSysEx(ctx, port, buf, frames, progress)
}

// Receive delivers the messages of an input port to sink until ctx is done.
func (c *Client) Receive(ctx context.Context, port contracts.Port, sink func(msg []byte)) error {
	return c.transport.Receive(ctx, port, sink)
}

// Close releases the driver. Later calls are no-ops.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.driver.Close()
}
