package service

import (
	"code_quest_backend/internal/model"
	"code_quest_backend/internal/util"
	"code_quest_backend/pkg/logger"
	"context"
	"errors"
	"os"
	"testing"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeChallengeStore struct {
	challenge *model.Challenge
	err       error
}

func (f *fakeChallengeStore) FindByIDWithCases(_ uint) (*model.Challenge, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.challenge, nil
}

type fakeRecorder struct {
	created []model.Submission
}

func (f *fakeRecorder) Create(submission *model.Submission) error {
	f.created = append(f.created, *submission)
	return nil
}

type fakeProgression struct {
	dailyOnly bool
	delta     *ProgressionDelta
	err       error
	calls     int
	lastDaily bool
}

func (f *fakeProgression) RequiresDailyChallenge() bool { return f.dailyOnly }

func (f *fakeProgression) ApplyPass(_ uint, _ *model.Challenge, isDailyToday bool) (*ProgressionDelta, error) {
	f.calls++
	f.lastDaily = isDailyToday
	if f.err != nil {
		return nil, f.err
	}
	return f.delta, nil
}

type fakeBadgeAwarder struct {
	badges []model.Badge
	calls  int
}

func (f *fakeBadgeAwarder) EvaluateBadges(_ uint) ([]model.Badge, error) {
	f.calls++
	return f.badges, nil
}

type fakeDailyChecker struct {
	isToday bool
	calls   int
}

func (f *fakeDailyChecker) IsTodaysChallenge(_ context.Context, _ uint) (bool, error) {
	f.calls++
	return f.isToday, nil
}

type submitFixture struct {
	svc         *GradingService
	recorder    *fakeRecorder
	progression *fakeProgression
	badges      *fakeBadgeAwarder
	daily       *fakeDailyChecker
}

func newSubmitFixture(runner CodeRunner, challenge *model.Challenge, progression *fakeProgression) *submitFixture {
	f := &submitFixture{
		recorder:    &fakeRecorder{},
		progression: progression,
		badges:      &fakeBadgeAwarder{},
		daily:       &fakeDailyChecker{},
	}
	f.svc = NewGradingService(
		runner,
		&fakeChallengeStore{challenge: challenge},
		f.recorder,
		f.progression,
		f.badges,
		f.daily,
	)
	return f
}

func TestSubmitFirstSolveAwardsPointsAndRecords(t *testing.T) {
	ch := newTestChallenge([]string{"python"}, model.TestCase{Input: "1 2", ExpectedOutput: "3"})
	runner := &fakeRunner{outputs: []RunResult{{Stdout: "3\n"}}}
	progression := &fakeProgression{
		delta: &ProgressionDelta{PointsAwarded: 100, FirstTimeSolve: true, CurrentStreak: 1},
	}
	fx := newSubmitFixture(runner, ch, progression)
	fx.badges.badges = []model.Badge{{Name: "Rising Star"}}

	result, err := fx.svc.Submit(context.Background(), 7, ch.ID, "python", "code")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if result.Status != model.SubmissionPassed {
		t.Errorf("Status = %v, want PASSED", result.Status)
	}
	if result.PointsEarned != 100 || !result.FirstTimeSolve || result.CurrentStreak != 1 {
		t.Errorf("delta not reflected: %+v", result)
	}
	if len(result.NewBadges) != 1 {
		t.Errorf("NewBadges = %d, want 1", len(result.NewBadges))
	}
	if progression.calls != 1 {
		t.Errorf("progression calls = %d, want 1", progression.calls)
	}
	if fx.badges.calls != 1 {
		t.Errorf("badge evaluations = %d, want 1", fx.badges.calls)
	}

	if len(fx.recorder.created) != 1 {
		t.Fatalf("submissions recorded = %d, want 1", len(fx.recorder.created))
	}
	rec := fx.recorder.created[0]
	if rec.UserID != 7 || rec.ChallengeID != ch.ID || rec.Language != "python" || rec.Code != "code" {
		t.Errorf("recorded submission = %+v", rec)
	}
	if rec.Status != model.SubmissionPassed || rec.PointsEarned != 100 || rec.PassedCases != 1 || rec.TotalCases != 1 {
		t.Errorf("recorded verdict = %+v", rec)
	}
}

func TestSubmitResolveIsIdempotentButStillRecorded(t *testing.T) {
	ch := newTestChallenge([]string{"python"}, model.TestCase{Input: "1 2", ExpectedOutput: "3"})
	runner := &fakeRunner{outputs: []RunResult{{Stdout: "3"}, {Stdout: "3"}}}
	// 已通过的挑战再次通过：不加分、不进完成集合
	progression := &fakeProgression{
		delta: &ProgressionDelta{PointsAwarded: 0, FirstTimeSolve: false, CurrentStreak: 2},
	}
	fx := newSubmitFixture(runner, ch, progression)

	for i := 0; i < 2; i++ {
		result, err := fx.svc.Submit(context.Background(), 7, ch.ID, "python", "code")
		if err != nil {
			t.Fatalf("Submit() #%d error = %v", i+1, err)
		}
		if result.PointsEarned != 0 || result.FirstTimeSolve {
			t.Errorf("Submit() #%d awarded on re-solve: %+v", i+1, result)
		}
	}

	// 提交记录只增不改：每次评测都新增一条
	if len(fx.recorder.created) != 2 {
		t.Fatalf("submissions recorded = %d, want 2", len(fx.recorder.created))
	}
	for i, rec := range fx.recorder.created {
		if rec.Status != model.SubmissionPassed || rec.PointsEarned != 0 {
			t.Errorf("record #%d = %+v", i+1, rec)
		}
	}
	if progression.calls != 2 {
		t.Errorf("progression calls = %d, want 2", progression.calls)
	}
}

func TestSubmitFailedVerdictStillRecorded(t *testing.T) {
	ch := newTestChallenge([]string{"python"}, model.TestCase{Input: "1 2", ExpectedOutput: "3"})
	runner := &fakeRunner{outputs: []RunResult{{Stdout: "4"}}}
	progression := &fakeProgression{}
	fx := newSubmitFixture(runner, ch, progression)

	result, err := fx.svc.Submit(context.Background(), 7, ch.ID, "python", "code")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if result.Status != model.SubmissionFailed {
		t.Errorf("Status = %v, want FAILED", result.Status)
	}
	if progression.calls != 0 {
		t.Errorf("progression calls = %d, want 0 on FAILED", progression.calls)
	}
	if fx.badges.calls != 0 {
		t.Errorf("badge evaluations = %d, want 0 on FAILED", fx.badges.calls)
	}

	if len(fx.recorder.created) != 1 {
		t.Fatalf("submissions recorded = %d, want 1", len(fx.recorder.created))
	}
	rec := fx.recorder.created[0]
	if rec.Status != model.SubmissionFailed || rec.PointsEarned != 0 || rec.PassedCases != 0 {
		t.Errorf("recorded verdict = %+v", rec)
	}
}

func TestSubmitRunnerFailureLeavesNoRecord(t *testing.T) {
	ch := newTestChallenge([]string{"python"}, model.TestCase{Input: "1 2", ExpectedOutput: "3"})
	runner := &fakeRunner{failAt: 1}
	progression := &fakeProgression{}
	fx := newSubmitFixture(runner, ch, progression)

	_, err := fx.svc.Submit(context.Background(), 7, ch.ID, "python", "code")
	if !errors.Is(err, util.ErrExecutionService) {
		t.Fatalf("Submit() error = %v, want ErrExecutionService", err)
	}

	if len(fx.recorder.created) != 0 {
		t.Errorf("submissions recorded = %d, want 0 on aborted grading", len(fx.recorder.created))
	}
	if progression.calls != 0 {
		t.Errorf("progression calls = %d, want 0", progression.calls)
	}
}

func TestSubmitProgressionFailureStillReturnsVerdict(t *testing.T) {
	ch := newTestChallenge([]string{"python"}, model.TestCase{Input: "1 2", ExpectedOutput: "3"})
	runner := &fakeRunner{outputs: []RunResult{{Stdout: "3"}}}
	progression := &fakeProgression{err: util.ErrProgressionConflict}
	fx := newSubmitFixture(runner, ch, progression)

	result, err := fx.svc.Submit(context.Background(), 7, ch.ID, "python", "code")
	if err != nil {
		t.Fatalf("Submit() error = %v, want nil despite progression failure", err)
	}

	if result.Status != model.SubmissionPassed {
		t.Errorf("Status = %v, want PASSED", result.Status)
	}
	if result.PointsEarned != 0 {
		t.Errorf("PointsEarned = %d, want 0 when progression failed", result.PointsEarned)
	}
	if fx.badges.calls != 0 {
		t.Errorf("badge evaluations = %d, want 0 when progression failed", fx.badges.calls)
	}
	// 评测记录照常落库
	if len(fx.recorder.created) != 1 {
		t.Errorf("submissions recorded = %d, want 1", len(fx.recorder.created))
	}
}

func TestSubmitDailyLookupGatedByStreakPolicy(t *testing.T) {
	ch := newTestChallenge([]string{"python"}, model.TestCase{Input: "1 2", ExpectedOutput: "3"})

	t.Run("any-pass policy skips daily lookup", func(t *testing.T) {
		runner := &fakeRunner{outputs: []RunResult{{Stdout: "3"}}}
		progression := &fakeProgression{dailyOnly: false, delta: &ProgressionDelta{}}
		fx := newSubmitFixture(runner, ch, progression)

		if _, err := fx.svc.Submit(context.Background(), 7, ch.ID, "python", "code"); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if fx.daily.calls != 0 {
			t.Errorf("daily lookups = %d, want 0", fx.daily.calls)
		}
		if progression.lastDaily {
			t.Error("isDailyToday = true, want false")
		}
	})

	t.Run("daily-only policy checks and forwards", func(t *testing.T) {
		runner := &fakeRunner{outputs: []RunResult{{Stdout: "3"}}}
		progression := &fakeProgression{dailyOnly: true, delta: &ProgressionDelta{}}
		fx := newSubmitFixture(runner, ch, progression)
		fx.daily.isToday = true

		if _, err := fx.svc.Submit(context.Background(), 7, ch.ID, "python", "code"); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if fx.daily.calls != 1 {
			t.Errorf("daily lookups = %d, want 1", fx.daily.calls)
		}
		if !progression.lastDaily {
			t.Error("isDailyToday = false, want true")
		}
	})
}
