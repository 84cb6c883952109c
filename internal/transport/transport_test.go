package transport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/leandrodaf/midiutil/internal/codec"
	"github.com/leandrodaf/midiutil/internal/logger"
	"github.com/leandrodaf/midiutil/internal/testutil"
	"github.com/leandrodaf/midiutil/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	usbOut = contracts.Port{Index: 0, Name: "USB MIDI Device", Direction: contracts.Output}
	usbIn  = contracts.Port{Index: 0, Name: "USB MIDI Device", Direction: contracts.Input}
)

// recordingSleep records the requested pauses instead of sleeping.
type recordingSleep struct {
	mu     sync.Mutex
	pauses []time.Duration
	sent   []int // number of messages sent when each pause started
	drv    *testutil.FakeDriver
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pauses = append(r.pauses, d)
	r.sent = append(r.sent, len(r.drv.Sent()))
	return ctx.Err()
}

func newFake() *testutil.FakeDriver {
	return testutil.NewFakeDriver([]string{"USB MIDI Device"}, []string{"USB MIDI Device", "Loop Out"})
}

func TestSend(t *testing.T) {
	drv := newFake()
	tr := New(drv, logger.NewNopLogger())

	msg, err := codec.ParseTokens([]string{"144", "60", "127"}, codec.Decimal)
	require.NoError(t, err)
	require.NoError(t, tr.Send(context.Background(), usbOut, msg))

	sent := drv.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []byte{0x90, 0x3C, 0x7F}, sent[0].Data)
	assert.Equal(t, "USB MIDI Device", sent[0].Port)

	outs := drv.OpenedOuts()
	require.Len(t, outs, 1)
	assert.True(t, outs[0].IsClosed(), "port must be released after sending")
}

func TestSend_Errors(t *testing.T) {
	t.Run("open failure", func(t *testing.T) {
		drv := newFake()
		drv.OpenErr = errors.New("device busy")
		err := New(drv, logger.NewNopLogger()).Send(context.Background(), usbOut, []byte{0xF8})
		require.Error(t, err)
		assert.ErrorIs(t, err, contracts.ErrTransport)
		assert.Contains(t, err.Error(), "device busy")
	})

	t.Run("send failure closes port", func(t *testing.T) {
		drv := newFake()
		drv.SendErr = errors.New("write failed")
		err := New(drv, logger.NewNopLogger()).Send(context.Background(), usbOut, []byte{0xF8})
		assert.ErrorIs(t, err, contracts.ErrTransport)
		outs := drv.OpenedOuts()
		require.Len(t, outs, 1)
		assert.True(t, outs[0].IsClosed())
	})

	t.Run("port vanished since listing", func(t *testing.T) {
		drv := newFake()
		drv.OutNames = []string{"Loop Out"}
		err := New(drv, logger.NewNopLogger()).Send(context.Background(), usbOut, []byte{0xF8})
		assert.ErrorIs(t, err, contracts.ErrTransport)
		assert.Empty(t, drv.Sent())
	})

	t.Run("input port", func(t *testing.T) {
		drv := newFake()
		err := New(drv, logger.NewNopLogger()).Send(context.Background(), usbIn, []byte{0xF8})
		assert.ErrorIs(t, err, contracts.ErrTransport)
		assert.Empty(t, drv.Opened())
	})

	t.Run("cancelled context", func(t *testing.T) {
		drv := newFake()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := New(drv, logger.NewNopLogger()).Send(ctx, usbOut, []byte{0xF8})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, drv.Opened())
	})
}

func TestSendSysEx_PacesEveryFrame(t *testing.T) {
	drv := newFake()
	rec := &recordingSleep{drv: drv}
	tr := New(drv, logger.NewNopLogger(), WithSleep(rec.sleep))

	buf := []byte{0xF0, 0x01, 0x02, 0xF7, 0xF0, 0x03, 0xF7}
	var progress []int
	err := tr.SendSysEx(context.Background(), usbOut, buf, codec.SysExFrames(buf), func(n int) {
		progress = append(progress, n)
	})
	require.NoError(t, err)

	sent := drv.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, []byte{0xF0, 0x01, 0x02, 0xF7}, sent[0].Data)
	assert.Equal(t, []byte{0xF0, 0x03, 0xF7}, sent[1].Data)
	assert.Equal(t, []int{4, 3}, progress)

	assert.Equal(t, []time.Duration{DefaultPacing, DefaultPacing}, rec.pauses)
	assert.Equal(t, []int{1, 2}, rec.sent, "each pause must follow its frame")

	require.Len(t, drv.OpenedOuts(), 1, "the port is opened once for the whole stream")
	assert.True(t, drv.OpenedOuts()[0].IsClosed())
}

func TestSendSysEx_CustomPacing(t *testing.T) {
	drv := newFake()
	rec := &recordingSleep{drv: drv}
	tr := New(drv, logger.NewNopLogger(), WithSleep(rec.sleep), WithPacing(10*time.Millisecond))
	assert.Equal(t, 10*time.Millisecond, tr.Pacing())

	buf := []byte{0xF0, 0xF7}
	require.NoError(t, tr.SendSysEx(context.Background(), usbOut, buf, codec.SysExFrames(buf), nil))
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, rec.pauses)
}

func TestSendSysEx_RealPause(t *testing.T) {
	drv := newFake()
	tr := New(drv, logger.NewNopLogger(), WithPacing(20*time.Millisecond))

	buf := []byte{0xF0, 0x01, 0xF7, 0xF0, 0x02, 0xF7}
	start := time.Now()
	require.NoError(t, tr.SendSysEx(context.Background(), usbOut, buf, codec.SysExFrames(buf), nil))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Len(t, drv.Sent(), 2)
}

func TestSendSysEx_StopsAtFirstFailure(t *testing.T) {
	drv := newFake()
	drv.SendErr = errors.New("buffer overrun")
	drv.SendErrAfter = 1
	rec := &recordingSleep{drv: drv}
	tr := New(drv, logger.NewNopLogger(), WithSleep(rec.sleep))

	buf := []byte{0xF0, 0x01, 0xF7, 0xF0, 0x02, 0xF7, 0xF0, 0x03, 0xF7}
	var progress []int
	err := tr.SendSysEx(context.Background(), usbOut, buf, codec.SysExFrames(buf), func(n int) {
		progress = append(progress, n)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrTransport)
	assert.Contains(t, err.Error(), "frame 2")
	assert.Len(t, drv.Sent(), 1)
	assert.Equal(t, []int{3}, progress)
	assert.True(t, drv.OpenedOuts()[0].IsClosed())
}

func TestSendSysEx_CancelDuringPause(t *testing.T) {
	drv := newFake()
	ctx, cancel := context.WithCancel(context.Background())
	tr := New(drv, logger.NewNopLogger(), WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}))

	buf := []byte{0xF0, 0x01, 0xF7, 0xF0, 0x02, 0xF7}
	err := tr.SendSysEx(ctx, usbOut, buf, codec.SysExFrames(buf), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, drv.Sent(), 1)
	assert.True(t, drv.OpenedOuts()[0].IsClosed())
}

func TestSendSysEx_NoFrames(t *testing.T) {
	drv := newFake()
	tr := New(drv, logger.NewNopLogger())
	buf := []byte{0x01, 0x02}
	require.NoError(t, tr.SendSysEx(context.Background(), usbOut, buf, codec.SysExFrames(buf), nil))
	assert.Empty(t, drv.Sent())
}

func TestReceive(t *testing.T) {
	drv := newFake()
	tr := New(drv, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []byte, 8)
	done := make(chan error, 1)
	go func() {
		done <- tr.Receive(ctx, usbIn, func(msg []byte) { got <- msg })
	}()

	in := waitForListener(t, drv)
	clock := []byte{0xF8}
	in.Emit([]byte{0x90, 0x3C, 0x7F})
	in.Emit(clock)
	in.Emit([]byte{0xFE})
	in.Emit([]byte{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7})
	clock[0] = 0x00 // the driver may reuse its buffer

	want := [][]byte{
		{0x90, 0x3C, 0x7F},
		{0xF8},
		{0xFE},
		{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7},
	}
	for _, w := range want {
		select {
		case msg := <-got:
			assert.Equal(t, w, msg)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for message")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("receive loop did not stop on cancellation")
	}
	assert.True(t, in.IsClosed())
}

func TestReceive_DriverError(t *testing.T) {
	drv := newFake()
	tr := New(drv, logger.NewNopLogger())

	done := make(chan error, 1)
	go func() {
		done <- tr.Receive(context.Background(), usbIn, func([]byte) {})
	}()

	in := waitForListener(t, drv)
	in.Fail(errors.New("device unplugged"))

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, contracts.ErrTransport)
		assert.Contains(t, err.Error(), "device unplugged")
	case <-time.After(2 * time.Second):
		t.Fatal("receive loop ignored the driver error")
	}
	assert.True(t, in.IsClosed())
}

func TestReceive_DropsWhenBufferFull(t *testing.T) {
	drv := newFake()
	tr := New(drv, logger.NewNopLogger(), WithReceiveBuffer(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release := make(chan struct{})
	got := make(chan []byte, 8)
	done := make(chan error, 1)
	go func() {
		done <- tr.Receive(ctx, usbIn, func(msg []byte) {
			<-release
			got <- msg
		})
	}()

	in := waitForListener(t, drv)
	for b := byte(1); b <= 5; b++ {
		in.Emit([]byte{b})
	}

	close(release)
	cancel()
	require.NoError(t, <-done)
	assert.LessOrEqual(t, len(got), 2, "at most the in-flight and one buffered message are delivered")
}

func TestReceive_OpenErrors(t *testing.T) {
	drv := newFake()
	drv.OpenErr = errors.New("no such device")
	err := New(drv, logger.NewNopLogger()).Receive(context.Background(), usbIn, func([]byte) {})
	assert.ErrorIs(t, err, contracts.ErrTransport)

	err = New(newFake(), logger.NewNopLogger()).Receive(context.Background(), usbOut, func([]byte) {})
	assert.ErrorIs(t, err, contracts.ErrTransport)
}

func waitForListener(t *testing.T, drv *testutil.FakeDriver) *testutil.FakeIn {
	t.Helper()
	var in *testutil.FakeIn
	require.Eventually(t, func() bool {
		in = drv.LastIn()
		return in != nil
	}, 2*time.Second, time.Millisecond)
	select {
	case <-in.Listening():
	case <-time.After(2 * time.Second):
		t.Fatal("listener never registered")
	}
	return in
}
