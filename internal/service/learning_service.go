package service

import (
	"errors"
	"suraksha_backend/internal/model"
	"suraksha_backend/internal/progression"
	"suraksha_backend/internal/repository"
	"suraksha_backend/internal/util"
	"suraksha_backend/pkg/logger"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionTTL = 2 * time.Hour

// learningSession 服务端持有的一次测验/演练会话。
// 状态机本身不落库，完成后才把结果写进进度账本。
// 状态机非并发安全，任何迁移和读取都要持有 mu。
type learningSession struct {
	ID        string
	UserID    uint
	ModuleID  uint
	Kind      model.AttemptKind
	CreatedAt time.Time

	mu       sync.Mutex
	Machine  *progression.Session
	Feedback [][]string
}

type LearningService struct {
	ModuleRepo   *repository.ModuleRepository
	ProgressRepo *repository.ProgressRepository

	mu       sync.Mutex
	sessions map[string]*learningSession
}

func NewLearningService(moduleRepo *repository.ModuleRepository, progressRepo *repository.ProgressRepository) *LearningService {
	return &LearningService{
		ModuleRepo:   moduleRepo,
		ProgressRepo: progressRepo,
		sessions:     make(map[string]*learningSession),
	}
}

// SessionView 会话的对外快照，不暴露正确答案
type SessionView struct {
	SessionID string             `json:"sessionId"`
	ModuleID  uint               `json:"moduleId"`
	Kind      model.AttemptKind  `json:"kind"`
	State     progression.State  `json:"state"`
	Index     int                `json:"index"`
	Total     int                `json:"total"`
	Result    *progression.Result `json:"result,omitempty"`
}

func (s *LearningService) view(sess *learningSession) *SessionView {
	v := &SessionView{
		SessionID: sess.ID,
		ModuleID:  sess.ModuleID,
		Kind:      sess.Kind,
		State:     sess.Machine.State(),
		Index:     sess.Machine.Index(),
		Total:     sess.Machine.Length(),
	}
	if r, ok := sess.Machine.Result(); ok {
		v.Result = &r
	}
	return v
}

// StartQuiz 为某模块开启测验会话。每题的阶段选项由题目选项映射而来，
// 正确选项下标处为 true。
func (s *LearningService) StartQuiz(userID, moduleID uint) (*SessionView, error) {
	questions, err := s.loadQuestions(moduleID)
	if err != nil {
		return nil, err
	}

	stages := make([][]bool, len(questions))
	for i, q := range questions {
		options := make([]bool, len(q.Options))
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(options) {
			options[q.CorrectAnswer] = true
		}
		stages[i] = options
	}

	return s.startSession(userID, moduleID, model.AttemptQuiz, stages, nil)
}

// StartDrill 为某模块开启演练会话，反馈文案按 [场景][选项] 预取，
// 作答后随结果一起返回。
func (s *LearningService) StartDrill(userID, moduleID uint) (*SessionView, error) {
	scenarios, err := s.loadScenarios(moduleID)
	if err != nil {
		return nil, err
	}

	stages := make([][]bool, len(scenarios))
	feedback := make([][]string, len(scenarios))
	for i, sc := range scenarios {
		options := make([]bool, len(sc.Choices))
		texts := make([]string, len(sc.Choices))
		for j, choice := range sc.Choices {
			options[j] = choice.Correct
			texts[j] = choice.Feedback
		}
		stages[i] = options
		feedback[i] = texts
	}

	return s.startSession(userID, moduleID, model.AttemptDrill, stages, feedback)
}

func (s *LearningService) startSession(userID, moduleID uint, kind model.AttemptKind, stages [][]bool, feedback [][]string) (*SessionView, error) {
	sess := &learningSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		ModuleID:  moduleID,
		Kind:      kind,
		Machine:   progression.NewSession(stages),
		Feedback:  feedback,
		CreatedAt: time.Now(),
	}
	sess.Machine.Start()

	s.mu.Lock()
	s.evictExpiredLocked()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// 空内容的模块开场即完成，直接记账
	if sess.Machine.State() == progression.StateCompleted {
		if err := s.finalize(sess); err != nil {
			return nil, err
		}
	}

	return s.view(sess), nil
}

type AnswerResult struct {
	Session  *SessionView `json:"session"`
	Correct  bool         `json:"correct"`
	Feedback string       `json:"feedback,omitempty"`
}

// SubmitAnswer 在当前阶段作答。选项越界或状态不对时返回相应错误，会话状态不变。
func (s *LearningService) SubmitAnswer(userID uint, sessionID string, choice int) (*AnswerResult, error) {
	sess, err := s.getSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	stage := sess.Machine.Index()
	correct, err := sess.Machine.SelectChoice(choice)
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{
		Session: s.view(sess),
		Correct: correct,
	}
	if sess.Feedback != nil && stage < len(sess.Feedback) && choice < len(sess.Feedback[stage]) {
		result.Feedback = sess.Feedback[stage][choice]
	}
	return result, nil
}

// Advance 确认反馈进入下一阶段；最后一个阶段确认后完成并写入进度账本。
func (s *LearningService) Advance(userID uint, sessionID string) (*SessionView, error) {
	sess, err := s.getSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.Machine.Advance(); err != nil {
		return nil, err
	}

	if sess.Machine.State() == progression.StateCompleted {
		if err := s.finalize(sess); err != nil {
			return nil, err
		}
	}
	return s.view(sess), nil
}

// Restart 丢弃作答记录重新开始同一会话
func (s *LearningService) Restart(userID uint, sessionID string) (*SessionView, error) {
	sess, err := s.getSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Machine.Reset()
	sess.Machine.Start()
	if sess.Machine.State() == progression.StateCompleted {
		if err := s.finalize(sess); err != nil {
			return nil, err
		}
	}
	return s.view(sess), nil
}

func (s *LearningService) GetSession(userID uint, sessionID string) (*SessionView, error) {
	sess, err := s.getSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess), nil
}

// finalize 把完成的会话写入进度账本和历史记录。
// 分数整体替换旧分数，completed 按新分数重算。
func (s *LearningService) finalize(sess *learningSession) error {
	result, ok := sess.Machine.Result()
	if !ok {
		return nil
	}

	record, err := s.ProgressRepo.UpsertScore(sess.UserID, sess.ModuleID, result.Score, result.Passed)
	if err != nil {
		return err
	}

	attempt := &model.QuizAttempt{
		UserID:         sess.UserID,
		ModuleID:       sess.ModuleID,
		Kind:           sess.Kind,
		Score:          result.Score,
		TotalQuestions: result.Total,
		Answers:        sess.Machine.Answers(),
		CompletedAt:    time.Now(),
	}
	if err := s.ProgressRepo.CreateAttempt(attempt); err != nil {
		logger.Log.Error("Failed to record attempt",
			zap.Uint("user_id", sess.UserID),
			zap.Uint("module_id", sess.ModuleID),
			zap.Error(err))
	}

	logger.Log.Info("Session completed",
		zap.String("session_id", sess.ID),
		zap.Uint("user_id", sess.UserID),
		zap.Uint("module_id", sess.ModuleID),
		zap.String("kind", string(sess.Kind)),
		zap.Int("score", result.Score),
		zap.Bool("passed", result.Passed),
		zap.Bool("completed", record.Completed))
	return nil
}

func (s *LearningService) getSession(userID uint, sessionID string) (*learningSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || time.Since(sess.CreatedAt) > sessionTTL {
		return nil, util.ErrSessionNotFound
	}
	if sess.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	return sess, nil
}

func (s *LearningService) evictExpiredLocked() {
	for id, sess := range s.sessions {
		if time.Since(sess.CreatedAt) > sessionTTL {
			delete(s.sessions, id)
		}
	}
}

func (s *LearningService) loadQuestions(moduleID uint) ([]model.QuizQuestion, error) {
	if _, err := s.ModuleRepo.FindByID(moduleID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	} else if err != nil {
		return nil, err
	}
	return s.ModuleRepo.FindQuestions(moduleID)
}

func (s *LearningService) loadScenarios(moduleID uint) ([]model.DrillScenario, error) {
	if _, err := s.ModuleRepo.FindByID(moduleID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	} else if err != nil {
		return nil, err
	}
	return s.ModuleRepo.FindScenarios(moduleID)
}

// GetProgress 用户全量进度
func (s *LearningService) GetProgress(userID uint) ([]model.StudentProgress, error) {
	return s.ProgressRepo.FindByUser(userID)
}

// GetModuleProgress 首次访问自动建一条空进度，模块不存在才报 404
func (s *LearningService) GetModuleProgress(userID, moduleID uint) (*model.StudentProgress, error) {
	record, err := s.ProgressRepo.FindByUserAndModule(userID, moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if _, err := s.ModuleRepo.FindByID(moduleID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		} else if err != nil {
			return nil, err
		}
		if err := s.ProgressRepo.Touch(userID, moduleID); err != nil {
			return nil, err
		}
		return s.ProgressRepo.FindByUserAndModule(userID, moduleID)
	}
	return record, err
}

func (s *LearningService) AddTimeSpent(userID, moduleID uint, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	if _, err := s.ProgressRepo.FindByUserAndModule(userID, moduleID); errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.ProgressRepo.Touch(userID, moduleID); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	return s.ProgressRepo.AddTimeSpent(userID, moduleID, minutes)
}

func (s *LearningService) GetAttempts(userID, moduleID uint, limit int) ([]model.QuizAttempt, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.ProgressRepo.FindAttempts(userID, moduleID, limit)
}

// OverallProgress 学员总览：完成数、模块总数、平均分
func (s *LearningService) OverallProgress(userID uint) (*model.OverallProgress, error) {
	records, err := s.ProgressRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	total, err := s.ModuleRepo.CountActive()
	if err != nil {
		return nil, err
	}

	overall := &model.OverallProgress{TotalModules: int(total)}
	sum := 0
	scored := 0
	for _, r := range records {
		if r.Completed {
			overall.CompletedModules++
		}
		if r.Score > 0 || r.Completed {
			sum += r.Score
			scored++
		}
	}
	if scored > 0 {
		overall.AverageScore = float64(sum) / float64(scored)
	}
	return overall, nil
}
