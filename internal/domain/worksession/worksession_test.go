package worksession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkSession(t *testing.T) {
	ws := NewWorkSession("WS-1", 10, 20)
	assert.Equal(t, StatusRunning, ws.Status())
	assert.Equal(t, uint(10), ws.TicketID())
	assert.Equal(t, uint(20), ws.TechnicianID())
	assert.True(t, ws.IsNonStopped())
}

func TestWorkSession_PauseResumeStop(t *testing.T) {
	ws := NewWorkSession("WS-1", 10, 20)

	segment, err := ws.Pause()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, segment, int64(0))
	assert.Equal(t, StatusPaused, ws.Status())

	_, err = ws.Pause()
	assert.Error(t, err, "cannot pause a session that is not running")

	require.NoError(t, ws.Resume())
	assert.Equal(t, StatusRunning, ws.Status())

	assert.Error(t, ws.Resume(), "cannot resume a session that is not paused")

	_, err = ws.Stop()
	require.NoError(t, err)
	assert.Equal(t, StatusStopped, ws.Status())
	assert.False(t, ws.IsNonStopped())
	require.NotNil(t, ws.StoppedAt())
}

func TestWorkSession_StopIsIdempotent(t *testing.T) {
	ws := NewWorkSession("WS-1", 10, 20)
	seg1, err := ws.Stop()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seg1, int64(0))

	seg2, err := ws.Stop()
	require.NoError(t, err)
	assert.Equal(t, int64(0), seg2, "re-stopping a STOPPED session returns current state")
}

func TestWorkSession_AccumulatedMinutesFloors(t *testing.T) {
	ws := Reconstruct(1, "WS-1", 10, 20, StatusPaused, time.Now(), time.Now(), 119, nil)
	assert.Equal(t, 1, ws.AccumulatedMinutes())
	assert.Equal(t, int64(119), ws.AccumulatedSeconds())
}
