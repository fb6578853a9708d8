package service

import (
	"code_quest_backend/internal/model"
	"code_quest_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeRunner 按脚本返回输出，记录每次调用的 stdin
type fakeRunner struct {
	outputs []RunResult
	failAt  int // 第几次调用开始报错，0 表示不报错
	stdins  []string
}

func (f *fakeRunner) Execute(_ context.Context, _, _, stdin string) (*RunResult, error) {
	call := len(f.stdins) + 1
	if f.failAt > 0 && call >= f.failAt {
		return nil, fmt.Errorf("%w: connection refused", util.ErrExecutionService)
	}
	f.stdins = append(f.stdins, stdin)
	out := f.outputs[call-1]
	return &out, nil
}

func newTestChallenge(languages []string, cases ...model.TestCase) *model.Challenge {
	ch := &model.Challenge{
		Title:            "Sum Two Numbers",
		Points:           100,
		AllowedLanguages: languages,
		TestCases:        cases,
	}
	ch.ID = 1
	return ch
}

func TestCompareOutput(t *testing.T) {
	tests := []struct {
		name       string
		stdout     string
		stderr     string
		expected   string
		wantPass   bool
		wantActual string
	}{
		{"exact match", "42", "", "42", true, "42"},
		{"trailing newline ignored", "42\n", "", "42", true, "42"},
		{"leading whitespace ignored", "  42", "", "42\n", true, "42"},
		{"internal whitespace differs", "4 2", "", "42", false, "4 2"},
		{"wrong answer", "41", "", "42", false, "41"},
		{"stderr fails even with matching stdout", "42", "Exception in thread main", "42", false, "Exception in thread main"},
		{"both empty", "", "", "", true, ""},
		{"empty stdout nonempty expected", "", "", "42", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, actual := compareOutput(tt.stdout, tt.stderr, tt.expected)
			if pass != tt.wantPass {
				t.Errorf("compareOutput() passed = %v, want %v", pass, tt.wantPass)
			}
			if actual != tt.wantActual {
				t.Errorf("compareOutput() actual = %q, want %q", actual, tt.wantActual)
			}
		})
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		passed int
		total  int
		want   model.SubmissionStatus
	}{
		{3, 3, model.SubmissionPassed},
		{2, 3, model.SubmissionFailed},
		{0, 1, model.SubmissionFailed},
		{0, 0, model.SubmissionPassed}, // 空用例列表视为通过
	}

	for _, tt := range tests {
		if got := verdict(tt.passed, tt.total); got != tt.want {
			t.Errorf("verdict(%d, %d) = %v, want %v", tt.passed, tt.total, got, tt.want)
		}
	}
}

func TestGradeRejectsDisallowedLanguageBeforeExecution(t *testing.T) {
	runner := &fakeRunner{outputs: []RunResult{{Stdout: "42"}}}
	s := &GradingService{Runner: runner}
	ch := newTestChallenge([]string{"python"}, model.TestCase{Input: "40 2", ExpectedOutput: "42"})

	_, _, err := s.grade(context.Background(), ch, "java", "class Main {}")
	if !errors.Is(err, util.ErrLanguageNotAllowed) {
		t.Fatalf("grade() error = %v, want ErrLanguageNotAllowed", err)
	}
	if len(runner.stdins) != 0 {
		t.Errorf("runner was called %d times, want 0", len(runner.stdins))
	}
}

func TestGradeRunsCasesInOrder(t *testing.T) {
	runner := &fakeRunner{outputs: []RunResult{
		{Stdout: "3\n"},
		{Stdout: "7\n"},
		{Stdout: "0\n"},
	}}
	s := &GradingService{Runner: runner}
	ch := newTestChallenge([]string{"python"},
		model.TestCase{OrderIndex: 0, Input: "1 2", ExpectedOutput: "3"},
		model.TestCase{OrderIndex: 1, Input: "3 4", ExpectedOutput: "7"},
		model.TestCase{OrderIndex: 2, Input: "0 0", ExpectedOutput: "1"},
	)

	results, passed, err := s.grade(context.Background(), ch, "python", "print(sum(map(int, input().split())))")
	if err != nil {
		t.Fatalf("grade() error = %v", err)
	}
	if passed != 2 {
		t.Errorf("passed = %d, want 2", passed)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	wantStdins := []string{"1 2", "3 4", "0 0"}
	for i, want := range wantStdins {
		if runner.stdins[i] != want {
			t.Errorf("call %d stdin = %q, want %q", i, runner.stdins[i], want)
		}
	}

	if results[2].Passed {
		t.Error("results[2] should have failed")
	}
	if results[2].Actual != "0" {
		t.Errorf("results[2].Actual = %q, want %q", results[2].Actual, "0")
	}
}

func TestGradeRedactsHiddenCases(t *testing.T) {
	runner := &fakeRunner{outputs: []RunResult{
		{Stdout: "3"},
		{Stdout: "8"},
	}}
	s := &GradingService{Runner: runner}
	ch := newTestChallenge([]string{"python"},
		model.TestCase{Input: "1 2", ExpectedOutput: "3", IsHidden: false},
		model.TestCase{Input: "3 4", ExpectedOutput: "7", IsHidden: true},
	)

	results, _, err := s.grade(context.Background(), ch, "python", "code")
	if err != nil {
		t.Fatalf("grade() error = %v", err)
	}

	visible := results[0]
	if visible.Input != "1 2" || visible.Expected != "3" {
		t.Errorf("visible case was redacted: %+v", visible)
	}

	hidden := results[1]
	if hidden.Input != util.HiddenMarker {
		t.Errorf("hidden.Input = %q, want %q", hidden.Input, util.HiddenMarker)
	}
	if hidden.Expected != util.HiddenMarker {
		t.Errorf("hidden.Expected = %q, want %q", hidden.Expected, util.HiddenMarker)
	}
	// 通过与否不脱敏
	if hidden.Passed {
		t.Error("hidden.Passed = true, want false")
	}
	if !hidden.IsHidden {
		t.Error("hidden.IsHidden = false, want true")
	}
	// 隐藏用例仍参与执行
	if len(runner.stdins) != 2 {
		t.Errorf("runner was called %d times, want 2", len(runner.stdins))
	}
}

func TestGradeAbortsOnRunnerFailure(t *testing.T) {
	runner := &fakeRunner{
		outputs: []RunResult{{Stdout: "3"}},
		failAt:  2,
	}
	s := &GradingService{Runner: runner}
	ch := newTestChallenge([]string{"python"},
		model.TestCase{Input: "1 2", ExpectedOutput: "3"},
		model.TestCase{Input: "3 4", ExpectedOutput: "7"},
	)

	results, _, err := s.grade(context.Background(), ch, "python", "code")
	if !errors.Is(err, util.ErrExecutionService) {
		t.Fatalf("grade() error = %v, want ErrExecutionService", err)
	}
	// 部分结果全部丢弃
	if results != nil {
		t.Errorf("results = %v, want nil on abort", results)
	}
}

func TestGradeEmptyCaseList(t *testing.T) {
	runner := &fakeRunner{}
	s := &GradingService{Runner: runner}
	ch := newTestChallenge([]string{"python"})

	results, passed, err := s.grade(context.Background(), ch, "python", "code")
	if err != nil {
		t.Fatalf("grade() error = %v", err)
	}
	if len(results) != 0 || passed != 0 {
		t.Errorf("got %d results, %d passed, want 0/0", len(results), passed)
	}
	if verdict(passed, len(results)) != model.SubmissionPassed {
		t.Error("empty case list should grade as PASSED")
	}
}
