package directory

import (
	"errors"
	"testing"

	"github.com/leandrodaf/midiutil/internal/testutil"
	"github.com/leandrodaf/midiutil/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	drv := testutil.NewFakeDriver([]string{"Keys In"}, []string{"USB MIDI Device", "Loop Out"})

	outs, err := List(drv, contracts.Output)
	require.NoError(t, err)
	assert.Equal(t, []contracts.Port{
		{Index: 0, Name: "USB MIDI Device", Direction: contracts.Output},
		{Index: 1, Name: "Loop Out", Direction: contracts.Output},
	}, outs)

	ins, err := List(drv, contracts.Input)
	require.NoError(t, err)
	assert.Equal(t, []contracts.Port{{Index: 0, Name: "Keys In", Direction: contracts.Input}}, ins)
}

func TestList_SnapshotIsFresh(t *testing.T) {
	drv := testutil.NewFakeDriver(nil, []string{"A"})

	first, err := List(drv, contracts.Output)
	require.NoError(t, err)
	require.Len(t, first, 1)

	drv.OutNames = []string{"B", "A"}
	second, err := List(drv, contracts.Output)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "B", second[0].Name)
	assert.Equal(t, 1, second[1].Index)
}

func TestList_DriverFailure(t *testing.T) {
	drv := testutil.NewFakeDriver(nil, nil)
	drv.OutsErr = errors.New("alsa seq unavailable")

	_, err := List(drv, contracts.Output)
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrDeviceDirectory)
	assert.Contains(t, err.Error(), "alsa seq unavailable")

	_, err = List(drv, contracts.Direction(42))
	assert.ErrorIs(t, err, contracts.ErrDeviceDirectory)
}

func TestListAll(t *testing.T) {
	drv := testutil.NewFakeDriver([]string{"In A", "In B"}, []string{"Out A"})

	l, err := ListAll(drv)
	require.NoError(t, err)
	assert.Len(t, l.Inputs, 2)
	assert.Len(t, l.Outputs, 1)

	drv.InsErr = errors.New("gone")
	_, err = ListAll(drv)
	assert.ErrorIs(t, err, contracts.ErrDeviceDirectory)
}
