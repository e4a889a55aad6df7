package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		runAt    string
		timezone string
	}{
		{name: "bad time", runAt: "25:00", timezone: "UTC"},
		{name: "bad format", runAt: "midnight", timezone: "UTC"},
		{name: "bad timezone", runAt: "00:00", timezone: "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(newNoopLogger(), tt.runAt, tt.timezone, false)
			require.Error(t, err)
		})
	}
}

func TestScheduler_NextRun(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	tests := []struct {
		name     string
		runAt    string
		timezone string
		now      time.Time
		want     time.Time
	}{
		{
			name:     "midnight utc later today",
			runAt:    "00:00",
			timezone: "UTC",
			now:      time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC),
			want:     time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "exactly at anchor schedules next day",
			runAt:    "00:00",
			timezone: "UTC",
			now:      time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			want:     time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "anchor later the same day",
			runAt:    "18:45",
			timezone: "UTC",
			now:      time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC),
			want:     time.Date(2025, 3, 1, 18, 45, 0, 0, time.UTC),
		},
		{
			name:     "anchor in another timezone",
			runAt:    "00:00",
			timezone: "Europe/Moscow",
			now:      time.Date(2025, 3, 1, 22, 0, 0, 0, time.UTC),
			want:     time.Date(2025, 3, 3, 0, 0, 0, 0, moscow),
		},
		{
			name:     "month rollover",
			runAt:    "00:00",
			timezone: "UTC",
			now:      time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC),
			want:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(newNoopLogger(), tt.runAt, tt.timezone, false)
			require.NoError(t, err)
			got := s.NextRun(tt.now)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestScheduler_Start_FiresTasksAndStops(t *testing.T) {
	s, err := New(newNoopLogger(), "00:00", "UTC", true)
	require.NoError(t, err)

	fire := make(chan time.Time)
	s.after = func(time.Duration) <-chan time.Time { return fire }

	var runs, failing atomic.Int32
	done := make(chan struct{}, 8)
	s.Register(Task{Name: "count", Run: func(context.Context) error {
		runs.Add(1)
		done <- struct{}{}
		return nil
	}})
	s.Register(Task{Name: "failing", Run: func(context.Context) error {
		failing.Add(1)
		return errors.New("boom")
	}})
	s.Register(Task{Name: "panicking", Run: func(context.Context) error {
		panic("unexpected")
	}})

	ctx, cancel := context.WithCancel(context.Background())
	go s.Start(ctx)

	waitRun := func() {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("task did not run")
		}
	}

	waitRun()
	fire <- time.Now()
	waitRun()

	cancel()
	s.Wait()

	assert.Equal(t, int32(2), runs.Load())
	assert.Equal(t, int32(2), failing.Load())
}
