package pose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `scorer,model,model,model,model,model,model,model,model,model,model,model,model
bodyparts,nose,nose,nose,left_ear,left_ear,left_ear,right_ear,right_ear,right_ear,tail_base,tail_base,tail_base
coords,x,y,likelihood,x,y,likelihood,x,y,likelihood,x,y,likelihood
0,100.5,200.5,0.99,90.0,210.0,0.95,110.0,210.0,0.97,105.0,300.0,0.88
1,101.0,201.0,0.98,90.5,210.5,0.30,110.5,210.5,0.96,105.5,301.0,0.92
2,102.0,202.0,0.10,91.0,211.0,0.95,111.0,211.0,0.97,106.0,302.0,0.90
`

func TestReadParsesFramesAndThresholds(t *testing.T) {
	t.Parallel()
	r := NewReader(0.5, 30.0)

	frames, err := r.Read(strings.NewReader(sampleExport))
	require.NoError(t, err)
	require.Len(t, frames, 3)

	// Frame 0: everything confident.
	f0 := frames[0]
	assert.Equal(t, 0, f0.FrameIndex)
	assert.InDelta(t, 0.0, f0.TimeSeconds, 1e-9)
	assert.True(t, f0.Nose.Valid)
	assert.InDelta(t, 100.5, f0.Nose.X, 1e-9)
	assert.InDelta(t, 200.5, f0.Nose.Y, 1e-9)
	assert.True(t, f0.LeftEar.Valid)
	assert.True(t, f0.RightEar.Valid)
	assert.True(t, f0.TailBase.Valid)

	// Frame 1: left ear below the confidence gate.
	f1 := frames[1]
	assert.InDelta(t, 1.0/30.0, f1.TimeSeconds, 1e-9)
	assert.True(t, f1.Nose.Valid)
	assert.False(t, f1.LeftEar.Valid)

	// Frame 2: nose below the gate.
	assert.False(t, frames[2].Nose.Valid)
	assert.True(t, frames[2].TailBase.Valid)
}

func TestReadSkipsMalformedRows(t *testing.T) {
	t.Parallel()
	export := `scorer,model,model,model
bodyparts,nose,nose,nose
coords,x,y,likelihood
0,10.0,20.0,0.9
notanumber,1,2,0.9
2,12.0,22.0,0.9
`
	r := NewReader(0.5, 30.0)
	frames, err := r.Read(strings.NewReader(export))
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 0, frames[0].FrameIndex)
	assert.Equal(t, 2, frames[1].FrameIndex)
}

func TestReadUnparseableCoordinateInvalidatesPoint(t *testing.T) {
	t.Parallel()
	export := `scorer,model,model,model
bodyparts,nose,nose,nose
coords,x,y,likelihood
0,nan?,20.0,0.9
`
	r := NewReader(0.5, 30.0)
	frames, err := r.Read(strings.NewReader(export))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.False(t, frames[0].Nose.Valid)
}

func TestReadRejectsNonExportHeader(t *testing.T) {
	t.Parallel()
	r := NewReader(0.5, 30.0)
	_, err := r.Read(strings.NewReader("frame,x,y\n0,1,2\n"))
	assert.Error(t, err)
}

func TestReadIgnoresExtraBodyparts(t *testing.T) {
	t.Parallel()
	export := `scorer,model,model,model,model,model,model
bodyparts,nose,nose,nose,mid_back,mid_back,mid_back
coords,x,y,likelihood,x,y,likelihood
0,10.0,20.0,0.9,50.0,60.0,0.9
`
	r := NewReader(0.5, 30.0)
	frames, err := r.Read(strings.NewReader(export))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.True(t, frames[0].Nose.Valid)
	assert.False(t, frames[0].TailBase.Valid)
}

func TestNewReaderDefaultFPS(t *testing.T) {
	t.Parallel()
	r := NewReader(0.5, 0)
	assert.Equal(t, DefaultFPS, r.FPS)
}
