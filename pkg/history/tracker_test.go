package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerStartsFresh(t *testing.T) {
	tracker := Load(t.TempDir())

	assert.Empty(t, tracker.LastApplied())
	assert.False(t, tracker.Processed("20240101"))
	assert.NoError(t, tracker.CheckOrder("20240101"))
}

func TestTrackerRecordSuccessPersists(t *testing.T) {
	directory := t.TempDir()

	tracker := Load(directory)
	tracker.RecordSuccess("20240101")
	tracker.RecordSuccess("20240108")

	reloaded := Load(directory)
	assert.Equal(t, "20240108", reloaded.LastApplied())
	assert.True(t, reloaded.Processed("20240101"))
	assert.True(t, reloaded.Processed("20240108"))
}

func TestTrackerCheckOrder(t *testing.T) {
	tracker := Load(t.TempDir())
	tracker.RecordSuccess("20240108")

	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"earlier date rejected", "20240101", true},
		{"same date allowed", "20240108", false},
		{"later date allowed", "20240115", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := tracker.CheckOrder(test.date)
			if test.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrOutOfOrderSnapshot)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTrackerFailureClearedBySuccess(t *testing.T) {
	directory := t.TempDir()

	tracker := Load(directory)
	tracker.RecordFailure("20240101")
	assert.Contains(t, tracker.History.FailedDates, "20240101")

	tracker.RecordSuccess("20240101")
	assert.NotContains(t, tracker.History.FailedDates, "20240101")
	assert.True(t, tracker.Processed("20240101"))
}

func TestTrackerSuccessDoesNotRegressLastApplied(t *testing.T) {
	tracker := Load(t.TempDir())
	tracker.RecordSuccess("20240108")

	// Re-running an already applied date keeps the high-water mark
	tracker.RecordSuccess("20240108")
	assert.Equal(t, "20240108", tracker.LastApplied())
}
