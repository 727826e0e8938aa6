package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPart() []*TicketPart {
	part, err := NewTicketPart(1, FlagRed, 30, "")
	if err != nil {
		panic(err)
	}
	return []*TicketPart{part}
}

func TestNewTicket(t *testing.T) {
	tk, err := NewTicket("TCK-1", 1, "Fix brakes", 1, newTestPart())
	require.NoError(t, err)
	assert.Equal(t, StatusUnderReview, tk.Status())
	assert.Equal(t, FlagGreen, tk.FlagColor())
	assert.Nil(t, tk.TechnicianID())

	_, err = NewTicket("TCK-2", 1, "", 1, newTestPart())
	assert.Error(t, err)

	_, err = NewTicket("TCK-3", 1, "Fix brakes", 1, nil)
	assert.Error(t, err)
}

func TestTicket_ReviewApproveIsIdempotent(t *testing.T) {
	tk, err := NewTicket("TCK-1", 1, "Fix brakes", 1, newTestPart())
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, tk.ReviewApprove(7, now))
	assert.Equal(t, StatusNew, tk.Status())
	require.NotNil(t, tk.ApprovedByID())
	assert.Equal(t, uint(7), *tk.ApprovedByID())

	// Second approval by a different caller is a no-op: approved_by stays.
	require.NoError(t, tk.ReviewApprove(99, now.Add(time.Minute)))
	assert.Equal(t, uint(7), *tk.ApprovedByID())
}

func TestTicket_AssignRequiresReviewedOrNewStatus(t *testing.T) {
	tk, err := NewTicket("TCK-1", 1, "Fix brakes", 1, newTestPart())
	require.NoError(t, err)

	require.NoError(t, tk.Assign(5, time.Now()))
	assert.Equal(t, StatusAssigned, tk.Status())
	require.NotNil(t, tk.TechnicianID())
	assert.Equal(t, uint(5), *tk.TechnicianID())
	assert.True(t, tk.IsAssignedTechnician(5))
	assert.False(t, tk.IsAssignedTechnician(6))

	err = tk.Assign(5, time.Now())
	assert.Error(t, err, "assign should not fire twice from assigned")
}

func TestTicket_FullHappyPath(t *testing.T) {
	tk, err := NewTicket("TCK-1", 1, "Fix brakes", 1, newTestPart())
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, tk.ReviewApprove(1, now))
	require.NoError(t, tk.Assign(2, now))
	require.NoError(t, tk.StartWork(now))
	assert.Equal(t, StatusInProgress, tk.Status())
	require.NotNil(t, tk.StartedAt())

	require.NoError(t, tk.ToWaitingQC(now))
	assert.Equal(t, StatusWaitingQC, tk.Status())

	require.NoError(t, tk.QCPass(45, now))
	assert.Equal(t, StatusDone, tk.Status())
	assert.Equal(t, 45, tk.TotalDurationMinutes())
	require.NotNil(t, tk.FinishedAt())

	// QCPass on an already-done ticket is idempotent.
	require.NoError(t, tk.QCPass(999, now))
	assert.Equal(t, 45, tk.TotalDurationMinutes())
}

func TestTicket_QCFailReturnsToRework(t *testing.T) {
	tk, err := NewTicket("TCK-1", 1, "Fix brakes", 1, newTestPart())
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, tk.ReviewApprove(1, now))
	require.NoError(t, tk.Assign(2, now))
	require.NoError(t, tk.StartWork(now))
	require.NoError(t, tk.ToWaitingQC(now))
	require.NoError(t, tk.QCFail(now))
	assert.Equal(t, StatusRework, tk.Status())

	// Rework restarts start_work without resetting started_at.
	firstStarted := tk.StartedAt()
	require.NoError(t, tk.StartWork(now.Add(time.Hour)))
	assert.Equal(t, StatusInProgress, tk.Status())
	assert.Equal(t, firstStarted, tk.StartedAt())
}

func TestTicket_ManualMetricsRejectsDoneTicket(t *testing.T) {
	tk, err := NewTicket("TCK-1", 1, "Fix brakes", 1, newTestPart())
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, tk.ManualMetrics(FlagRed, 10, now))
	assert.Equal(t, FlagRed, tk.FlagColor())
	assert.Equal(t, 10, tk.XPAmount())
	assert.True(t, tk.IsManual())

	assert.Error(t, tk.ManualMetrics("not-a-color", 10, now))
	assert.Error(t, tk.ManualMetrics(FlagRed, -1, now))

	require.NoError(t, tk.ReviewApprove(1, now))
	require.NoError(t, tk.Assign(2, now))
	require.NoError(t, tk.StartWork(now))
	require.NoError(t, tk.ToWaitingQC(now))
	require.NoError(t, tk.QCPass(30, now))

	assert.Error(t, tk.ManualMetrics(FlagGreen, 5, now))
}

func TestCanFire(t *testing.T) {
	assert.True(t, CanFire(ActionReviewApprove, StatusUnderReview))
	assert.False(t, CanFire(ActionReviewApprove, StatusAssigned))
	assert.True(t, CanFire(ActionAssign, StatusNew))
	assert.True(t, CanFire(ActionStartWork, StatusRework))
	assert.False(t, CanFire(ActionStartWork, StatusDone))
	assert.False(t, CanFire(Action("not_a_real_action"), StatusNew))
}
