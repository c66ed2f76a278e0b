package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlashStore_PushAndDrainOnce(t *testing.T) {
	store := NewFlashStore(time.Minute)
	store.Push("sess-1", Flash{Text: "created", Kind: FlashSuccess})
	store.Push("sess-1", Flash{Text: "late", Kind: FlashWarning})

	flashes := store.Drain("sess-1")
	assert.Equal(t, []Flash{
		{Text: "created", Kind: FlashSuccess},
		{Text: "late", Kind: FlashWarning},
	}, flashes)

	// Flash messages display once only.
	assert.Nil(t, store.Drain("sess-1"))
}

func TestFlashStore_SessionsAreIsolated(t *testing.T) {
	store := NewFlashStore(time.Minute)
	store.Push("a", Flash{Text: "for a", Kind: FlashInfo})
	store.Push("b", Flash{Text: "for b", Kind: FlashInfo})

	assert.Equal(t, "for a", store.Drain("a")[0].Text)
	assert.Equal(t, "for b", store.Drain("b")[0].Text)
}

func TestFlashStore_IgnoresBlankSession(t *testing.T) {
	store := NewFlashStore(time.Minute)
	store.Push("", Flash{Text: "lost", Kind: FlashInfo})
	assert.Nil(t, store.Drain(""))
}

func TestFlashStore_SweepDropsExpiredQueues(t *testing.T) {
	store := NewFlashStore(10 * time.Minute)
	base := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	store.nowFn = func() time.Time { return base }

	store.Push("old", Flash{Text: "stale", Kind: FlashInfo})

	store.nowFn = func() time.Time { return base.Add(11 * time.Minute) }
	store.Push("fresh", Flash{Text: "new", Kind: FlashInfo})
	store.Sweep()

	assert.Nil(t, store.Drain("old"))
	assert.Len(t, store.Drain("fresh"), 1)
}
