//go:build !integration

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-categorizer/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:        "abc12345-6789-0000-0000-000000000000",
			ListID:    "42",
			Status:    model.RunStatusComplete,
			Total:     240,
			Attempted: 240,
			Succeeded: 231,
			CreatedAt: now,
			UpdatedAt: now.Add(2 * time.Minute),
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			ListID:    "7",
			TestMode:  true,
			Status:    model.RunStatusRunning,
			CreatedAt: now.Add(-1 * time.Hour),
			UpdatedAt: now.Add(-30 * time.Minute),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "SUCCEEDED")
	assert.Contains(t, output, "abc12345")
	assert.NotContains(t, output, "abc12345-6789")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "running")
	assert.Contains(t, output, "231")
	assert.Contains(t, output, "test")
	assert.Contains(t, output, "full")
	assert.Contains(t, output, "2025-06-15 10:30")
	assert.Contains(t, output, "2m0s")
}

func TestFormatRunsList_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatRunsList(&buf, nil)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Len(t, lines, 2)
}

func TestTruncateID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc12345-6789-0000", "abc12345"},
		{"abc12345", "abc12345"},
		{"short", "short"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateID(tt.in))
	}
}

// --- runReader Mock ---

type mockRunReader struct{ mock.Mock }

func (m *mockRunReader) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockRunReader) ListOutcomes(ctx context.Context, runID string) ([]model.ContactResult, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContactResult), args.Error(1)
}

func TestLoadRun(t *testing.T) {
	ctx := context.Background()
	rr := &mockRunReader{}
	run := &model.Run{ID: "r1", ListID: "42"}
	outcomes := []model.ContactResult{{ContactID: "101", Outcome: model.OutcomeSucceeded}}
	rr.On("GetRun", ctx, "r1").Return(run, nil)
	rr.On("ListOutcomes", ctx, "r1").Return(outcomes, nil)

	gotRun, gotOutcomes, err := loadRun(ctx, rr, "r1")
	require.NoError(t, err)
	assert.Equal(t, run, gotRun)
	assert.Equal(t, outcomes, gotOutcomes)
	rr.AssertExpectations(t)
}

func TestLoadRun_NotFound(t *testing.T) {
	ctx := context.Background()
	rr := &mockRunReader{}
	rr.On("GetRun", ctx, "missing").Return(nil, errors.New("run not found"))

	_, _, err := loadRun(ctx, rr, "missing")
	assert.Error(t, err)
	rr.AssertNotCalled(t, "ListOutcomes", mock.Anything, mock.Anything)
}
