package progression

import (
	"errors"
	"testing"
)

// quizStages 把正确选项下标转成每个选项的正误标记
func quizStages(numOptions int, correctAnswers ...int) [][]bool {
	stages := make([][]bool, len(correctAnswers))
	for i, ans := range correctAnswers {
		stage := make([]bool, numOptions)
		stage[ans] = true
		stages[i] = stage
	}
	return stages
}

func TestSessionCompletesAfterExactlyNPairs(t *testing.T) {
	s := NewSession(quizStages(4, 1, 2, 0))
	s.Start()

	for i := 0; i < 3; i++ {
		if s.State() != StateInProgress {
			t.Fatalf("stage %d: state = %s, want %s", i, s.State(), StateInProgress)
		}
		if _, err := s.SelectChoice(0); err != nil {
			t.Fatalf("stage %d: SelectChoice: %v", i, err)
		}
		if err := s.Advance(); err != nil {
			t.Fatalf("stage %d: Advance: %v", i, err)
		}
	}

	if s.State() != StateCompleted {
		t.Fatalf("state = %s after 3 pairs, want %s", s.State(), StateCompleted)
	}
	if _, ok := s.Result(); !ok {
		t.Fatal("expected result after completion")
	}
}

func TestSessionPrematureAdvanceFails(t *testing.T) {
	s := NewSession(quizStages(3, 0, 1))
	s.Start()

	err := s.Advance()
	var stErr *InvalidStateTransitionError
	if !errors.As(err, &stErr) {
		t.Fatalf("Advance before answering: got %v, want InvalidStateTransitionError", err)
	}

	// 答了第一题但没答第二题，不可能到达 Completed
	if _, err := s.SelectChoice(0); err != nil {
		t.Fatal(err)
	}
	if err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	if err := s.Advance(); !errors.As(err, &stErr) {
		t.Fatalf("premature completion attempt: got %v, want InvalidStateTransitionError", err)
	}
	if s.State() == StateCompleted {
		t.Fatal("reached Completed with N-1 answered stages")
	}
}

func TestSessionInvalidChoice(t *testing.T) {
	s := NewSession(quizStages(4, 2))
	s.Start()

	var choiceErr *InvalidChoiceError
	if _, err := s.SelectChoice(4); !errors.As(err, &choiceErr) {
		t.Fatalf("out-of-range choice: got %v, want InvalidChoiceError", err)
	}
	if _, err := s.SelectChoice(-1); !errors.As(err, &choiceErr) {
		t.Fatalf("negative choice: got %v, want InvalidChoiceError", err)
	}

	// 越界不改变状态，合法作答仍然可行
	if s.State() != StateInProgress {
		t.Fatalf("state changed after rejected choice: %s", s.State())
	}
	if _, err := s.SelectChoice(2); err != nil {
		t.Fatal(err)
	}
}

func TestSessionOneShotAnswer(t *testing.T) {
	s := NewSession(quizStages(3, 0))
	s.Start()

	if _, err := s.SelectChoice(1); err != nil {
		t.Fatal(err)
	}

	// 反馈态下重复作答是迁移违规
	var stErr *InvalidStateTransitionError
	if _, err := s.SelectChoice(0); !errors.As(err, &stErr) {
		t.Fatalf("re-answer: got %v, want InvalidStateTransitionError", err)
	}
}

func TestSessionResetIdempotent(t *testing.T) {
	s := NewSession(quizStages(2, 0, 1))
	s.Start()
	s.SelectChoice(0)

	s.Reset()
	if s.State() != StateNotStarted {
		t.Fatalf("state after reset = %s", s.State())
	}
	s.Reset()
	if s.State() != StateNotStarted {
		t.Fatalf("state after double reset = %s", s.State())
	}
	if len(s.Answers()) != 0 {
		t.Fatal("answers survived reset")
	}
}

func TestSessionStartDiscardsPriorAnswers(t *testing.T) {
	s := NewSession(quizStages(2, 0, 0))
	s.Start()
	s.SelectChoice(0)
	s.Advance()

	s.Start()
	if s.Index() != 0 || s.State() != StateInProgress {
		t.Fatalf("restart: index=%d state=%s", s.Index(), s.State())
	}
	if len(s.Answers()) != 0 {
		t.Fatal("answers survived restart")
	}
}

// 三题测验：对、错、对 → 67 分，不及格
func TestSessionQuizScenario(t *testing.T) {
	s := NewSession(quizStages(4, 1, 2, 3))
	s.Start()

	answers := []int{1, 0, 3}
	for _, a := range answers {
		if _, err := s.SelectChoice(a); err != nil {
			t.Fatal(err)
		}
		if err := s.Advance(); err != nil {
			t.Fatal(err)
		}
	}

	r, ok := s.Result()
	if !ok {
		t.Fatal("no result")
	}
	if r.Score != 67 {
		t.Errorf("score = %d, want 67", r.Score)
	}
	if r.Passed {
		t.Error("passed = true, want false")
	}
	if r.Correct != 2 {
		t.Errorf("correct = %d, want 2", r.Correct)
	}
}

func TestSessionEmptyStagesCompletesWithZero(t *testing.T) {
	s := NewSession(nil)
	s.Start()

	if s.State() != StateCompleted {
		t.Fatalf("state = %s, want %s", s.State(), StateCompleted)
	}
	r, _ := s.Result()
	if r.Score != 0 {
		t.Errorf("score = %d, want 0", r.Score)
	}
}
