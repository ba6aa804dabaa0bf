package progression

import "fmt"

type State string

const (
	StateNotStarted       State = "not_started"
	StateInProgress       State = "in_progress"
	StateAwaitingFeedback State = "awaiting_feedback"
	StateCompleted        State = "completed"
)

// InvalidChoiceError 选项下标越界，属于调用方 bug，必须显式失败而不是静默忽略
type InvalidChoiceError struct {
	Stage      int
	Choice     int
	NumChoices int
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("invalid choice %d at stage %d: valid range [0, %d)", e.Choice, e.Stage, e.NumChoices)
}

// InvalidStateTransitionError 状态机被乱序调用（例如未作答就 Advance）
type InvalidStateTransitionError struct {
	From State
	Op   string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s in state %s", e.Op, e.From)
}

// Session 测验/演练的线性进度状态机：
// NotStarted → InProgress(i) → AwaitingFeedback(i) → InProgress(i+1) → … → Completed。
// 每个阶段只能作答一次，答案一经记录不可更改；Completed 时恰好评分一次。
// 测验和演练共用：阶段由每个选项的正误标记描述（测验即正确选项下标处为 true）。
type Session struct {
	stages  [][]bool
	state   State
	index   int
	answers []int
	correct []bool
	result  *Result
}

func NewSession(stages [][]bool) *Session {
	return &Session{
		stages: stages,
		state:  StateNotStarted,
	}
}

// Start 进入第一阶段，丢弃此前的作答记录。空会话直接完成（0 分）。
func (s *Session) Start() {
	s.index = 0
	s.answers = make([]int, 0, len(s.stages))
	s.correct = make([]bool, 0, len(s.stages))
	s.result = nil
	if len(s.stages) == 0 {
		r := Evaluate(nil)
		s.result = &r
		s.state = StateCompleted
		return
	}
	s.state = StateInProgress
}

// SelectChoice 在当前阶段作答，返回该选项是否正确。
func (s *Session) SelectChoice(choice int) (bool, error) {
	if s.state != StateInProgress {
		return false, &InvalidStateTransitionError{From: s.state, Op: "select choice"}
	}

	options := s.stages[s.index]
	if choice < 0 || choice >= len(options) {
		return false, &InvalidChoiceError{Stage: s.index, Choice: choice, NumChoices: len(options)}
	}

	s.answers = append(s.answers, choice)
	s.correct = append(s.correct, options[choice])
	s.state = StateAwaitingFeedback
	return options[choice], nil
}

// Advance 离开反馈态：还有阶段则前进，否则完成并评分。
func (s *Session) Advance() error {
	if s.state != StateAwaitingFeedback {
		return &InvalidStateTransitionError{From: s.state, Op: "advance"}
	}

	if s.index+1 < len(s.stages) {
		s.index++
		s.state = StateInProgress
		return nil
	}

	r := Evaluate(s.correct)
	s.result = &r
	s.state = StateCompleted
	return nil
}

// Reset 任意状态下可调用，回到 NotStarted 并丢弃作答记录。幂等。
func (s *Session) Reset() {
	s.state = StateNotStarted
	s.index = 0
	s.answers = nil
	s.correct = nil
	s.result = nil
}

func (s *Session) State() State { return s.state }

// Index 当前阶段下标；Completed 后停留在最后一个阶段。
func (s *Session) Index() int { return s.index }

func (s *Session) Length() int { return len(s.stages) }

// Answers 已记录的选项下标，按阶段顺序。
func (s *Session) Answers() []int {
	out := make([]int, len(s.answers))
	copy(out, s.answers)
	return out
}

// Result 仅在 Completed 后返回评分结果。
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}
