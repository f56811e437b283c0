package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" High ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidPriority)

	_, err = ParsePriority("")
	assert.ErrorIs(t, err, ErrInvalidPriority)

	assert.Less(t, PriorityLow.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityHigh.Rank())
	assert.Equal(t, -1, Priority("x").Rank())
}

func TestPatchApplyTo(t *testing.T) {
	created := time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)
	orig := Task{
		ID:           "t1",
		Title:        "Buy milk",
		Description:  "two litres",
		Priority:     PriorityMedium,
		Project:      "Personal",
		ProjectColor: "bg-primary",
		DueDate:      Date{2026, time.October, 19},
		DueTime:      "9:00 AM",
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	t.Run("nil fields leave the task untouched", func(t *testing.T) {
		got, err := Patch{}.ApplyTo(orig)
		require.NoError(t, err)
		assert.Equal(t, orig, got)
		assert.True(t, Patch{}.IsEmpty())
	})

	t.Run("set fields are merged", func(t *testing.T) {
		p := Patch{
			Title:     ptr("  Buy oat milk "),
			Completed: ptr(true),
			Priority:  ptr(PriorityHigh),
			DueDate:   ptr(Date{}),
		}
		got, err := p.ApplyTo(orig)
		require.NoError(t, err)
		assert.False(t, p.IsEmpty())
		assert.Equal(t, "Buy oat milk", got.Title)
		assert.True(t, got.Completed)
		assert.Equal(t, PriorityHigh, got.Priority)
		assert.False(t, got.HasDue())
		assert.Equal(t, "two litres", got.Description)
		assert.Equal(t, created, got.UpdatedAt)
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		_, err := Patch{Title: ptr("   ")}.ApplyTo(orig)
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})

	t.Run("invalid priority is rejected", func(t *testing.T) {
		_, err := Patch{Priority: ptr(Priority("urgent"))}.ApplyTo(orig)
		assert.ErrorIs(t, err, ErrInvalidPriority)
	})
}

func TestTaskOverdue(t *testing.T) {
	today := Date{2026, time.October, 19}

	assert.True(t, Task{DueDate: today.AddDays(-1)}.Overdue(today))
	assert.False(t, Task{DueDate: today.AddDays(-1), Completed: true}.Overdue(today))
	assert.False(t, Task{DueDate: today}.Overdue(today))
	assert.False(t, Task{}.Overdue(today))
}
