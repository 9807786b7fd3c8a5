package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBorrowRecordActive(t *testing.T) {
	rec := BorrowRecord{BorrowedAt: time.Now()}
	assert.True(t, rec.Active())

	returned := time.Now()
	rec.ReturnedAt = &returned
	assert.False(t, rec.Active())
}

func TestBorrowRecordOverdueAt(t *testing.T) {
	borrowedAt := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	rec := BorrowRecord{BorrowedAt: borrowedAt}

	due := borrowedAt.Add(LoanPeriod)
	assert.Equal(t, due, rec.DueAt())

	tests := []struct {
		name    string
		now     time.Time
		overdue bool
	}{
		{"well before due", borrowedAt.Add(2 * 24 * time.Hour), false},
		{"one second before due", due.Add(-time.Second), false},
		{"exactly at due", due, false},
		{"one second past due", due.Add(time.Second), true},
		{"a day past due", due.Add(24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overdue, rec.OverdueAt(tt.now))
		})
	}
}
