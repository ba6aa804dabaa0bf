package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"suraksha_backend/internal/model"
	"suraksha_backend/internal/progression"

	"github.com/google/uuid"
)

func newSessionFixture(stages [][]bool) (*LearningService, *learningSession) {
	svc := &LearningService{sessions: make(map[string]*learningSession)}
	sess := &learningSession{
		ID:        uuid.New().String(),
		UserID:    1,
		ModuleID:  1,
		Kind:      model.AttemptQuiz,
		Machine:   progression.NewSession(stages),
		CreatedAt: time.Now(),
	}
	sess.Machine.Start()
	svc.sessions[sess.ID] = sess
	return svc, sess
}

// 同一阶段只允许记录一次作答，并发请求下也不能例外
func TestSubmitAnswerConcurrentOneShot(t *testing.T) {
	svc, sess := newSessionFixture([][]bool{{true, false}, {false, true}})

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.SubmitAnswer(1, sess.ID, 0)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	succeeded := 0
	var stErr *progression.InvalidStateTransitionError
	for i, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.As(err, &stErr) {
			t.Fatalf("worker %d: got %v, want InvalidStateTransitionError", i, err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d answers recorded for one stage, want exactly 1", succeeded)
	}
	if got := len(sess.Machine.Answers()); got != 1 {
		t.Fatalf("machine holds %d answers, want 1", got)
	}
}

func TestSessionConcurrentReadersAndWriter(t *testing.T) {
	svc, sess := newSessionFixture([][]bool{{true}, {true}, {true}})

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if _, err := svc.GetSession(1, sess.ID); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}

	// 两个完整的作答/确认回合，读写交错不应相互破坏
	for i := 0; i < 2; i++ {
		if _, err := svc.SubmitAnswer(1, sess.ID, 0); err != nil {
			t.Fatalf("stage %d: SubmitAnswer: %v", i, err)
		}
		if _, err := svc.Advance(1, sess.ID); err != nil {
			t.Fatalf("stage %d: Advance: %v", i, err)
		}
	}
	close(done)
	wg.Wait()

	view, err := svc.GetSession(1, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if view.Index != 2 || view.State != progression.StateInProgress {
		t.Fatalf("session at index %d state %s, want 2 / %s", view.Index, view.State, progression.StateInProgress)
	}
}
