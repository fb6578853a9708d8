package service

import (
	"code_quest_backend/internal/model"
	"code_quest_backend/internal/util"
	"errors"
	"fmt"
	"testing"
	"time"
)

func dateAt(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func userWithStreak(current, longest int, lastSolved *time.Time) *model.User {
	u := &model.User{
		CurrentStreak: current,
		LongestStreak: longest,
	}
	u.ID = 1
	u.LastSolvedDate = lastSolved
	return u
}

func TestAdvanceStreak(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.Local)
	yesterday := dateAt(2026, time.March, 9)
	threeDaysAgo := dateAt(2026, time.March, 7)
	today := dateAt(2026, time.March, 10)

	tests := []struct {
		name        string
		user        *model.User
		wantChanged bool
		wantCurrent int
		wantLongest int
	}{
		{"first ever solve", userWithStreak(0, 0, nil), true, 1, 1},
		{"consecutive day extends", userWithStreak(3, 5, &yesterday), true, 4, 5},
		{"gap resets to one", userWithStreak(3, 5, &threeDaysAgo), true, 1, 5},
		{"same day is a no-op", userWithStreak(3, 5, &today), false, 3, 5},
		{"longest follows current", userWithStreak(5, 5, &yesterday), true, 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := advanceStreak(tt.user, now)
			if changed != tt.wantChanged {
				t.Errorf("advanceStreak() = %v, want %v", changed, tt.wantChanged)
			}
			if tt.user.CurrentStreak != tt.wantCurrent {
				t.Errorf("CurrentStreak = %d, want %d", tt.user.CurrentStreak, tt.wantCurrent)
			}
			if tt.user.LongestStreak != tt.wantLongest {
				t.Errorf("LongestStreak = %d, want %d", tt.user.LongestStreak, tt.wantLongest)
			}
			if changed {
				if tt.user.LastSolvedDate == nil || !tt.user.LastSolvedDate.Equal(today) {
					t.Errorf("LastSolvedDate = %v, want %v", tt.user.LastSolvedDate, today)
				}
			}
		})
	}
}

func TestAdvanceStreakIgnoresTimeOfDay(t *testing.T) {
	// 昨天深夜通过，今天凌晨再通过，仍算连续
	lastSolved := time.Date(2026, time.March, 9, 23, 59, 0, 0, time.Local)
	user := userWithStreak(1, 1, &lastSolved)

	now := time.Date(2026, time.March, 10, 0, 1, 0, 0, time.Local)
	if !advanceStreak(user, now) {
		t.Fatal("advanceStreak() = false, want true")
	}
	if user.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", user.CurrentStreak)
	}
}

func TestIsRetryableConflict(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Error 1213: Deadlock found when trying to get lock"), true},
		{errors.New("Error 1205: Lock wait timeout exceeded"), true},
		{errors.New("Error 1062: Duplicate entry"), false},
		{fmt.Errorf("wrapped: %w", util.ErrChallengeNotFound), false},
	}

	for _, tt := range tests {
		if got := isRetryableConflict(tt.err); got != tt.want {
			t.Errorf("isRetryableConflict(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
