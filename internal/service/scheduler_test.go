package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"07:30", "0 30 7 * * *", true},
		{"00:00", "0 0 0 * * *", true},
		{"23:59", "0 59 23 * * *", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"noon", "", false},
		{"7", "", false},
	}
	for _, tt := range tests {
		spec, err := buildDailySpec(tt.input)
		if tt.ok {
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, spec)
		} else {
			assert.Error(t, err, "input %q", tt.input)
		}
	}
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	s := NewScheduler(time.UTC)
	_, err := s.ScheduleInterval(0, func() {})
	assert.Error(t, err)
	_, err = s.ScheduleInterval(-time.Second, func() {})
	assert.Error(t, err)
}

func TestScheduler_RunsIntervalJob(t *testing.T) {
	s := NewScheduler(time.UTC)
	done := make(chan struct{})
	var once sync.Once

	_, err := s.ScheduleInterval(time.Second, func() {
		once.Do(func() { close(done) })
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("interval job never ran")
	}
}
