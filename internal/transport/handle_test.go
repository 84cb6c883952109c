package transport

import (
	"errors"
	"io"
	"testing"

	"github.com/leandrodaf/midiutil/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCloser struct {
	calls int
	err   error
}

func (c *countingCloser) Close() error {
	c.calls++
	return c.err
}

func TestHandle_Lifecycle(t *testing.T) {
	h := newHandle(usbOut)
	assert.Equal(t, stateUnopened, h.current())

	c := &countingCloser{}
	require.NoError(t, h.open(func() (io.Closer, error) { return c, nil }))
	assert.Equal(t, stateOpen, h.current())

	require.NoError(t, h.close())
	require.NoError(t, h.close())
	assert.Equal(t, stateClosed, h.current())
	assert.Equal(t, 1, c.calls, "the driver port is closed exactly once")

	err := h.open(func() (io.Closer, error) { return c, nil })
	assert.ErrorIs(t, err, contracts.ErrTransport, "a closed handle never reopens")
}

func TestHandle_OpenFailure(t *testing.T) {
	h := newHandle(usbOut)
	err := h.open(func() (io.Closer, error) { return nil, errors.New("busy") })
	assert.ErrorIs(t, err, contracts.ErrTransport)
	assert.Equal(t, stateClosed, h.current())
	assert.NoError(t, h.close())
}

func TestHandle_CloseFailure(t *testing.T) {
	h := newHandle(usbOut)
	require.NoError(t, h.open(func() (io.Closer, error) { return &countingCloser{err: errors.New("stuck")}, nil }))
	err := h.close()
	assert.ErrorIs(t, err, contracts.ErrTransport)
	assert.Equal(t, stateClosed, h.current())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unopened", stateUnopened.String())
	assert.Equal(t, "open", stateOpen.String())
	assert.Equal(t, "closed", stateClosed.String())
	assert.Equal(t, "invalid", state(9).String())
}
