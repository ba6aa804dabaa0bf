package repository

import (
	"path/filepath"
	"testing"
	"time"

	"suraksha_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "progress.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.StudentProgress{}, &model.QuizAttempt{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestUpsertScoreReplacesScore(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	first, err := repo.UpsertScore(1, 2, 80, true)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.Score != 80 || !first.Completed {
		t.Fatalf("first upsert = score %d completed %v", first.Score, first.Completed)
	}
	if first.CompletedAt == nil {
		t.Fatal("CompletedAt not stamped on completion")
	}

	if err := repo.AddTimeSpent(1, 2, 12); err != nil {
		t.Fatalf("add time spent: %v", err)
	}

	// 第二次得分更低且未及格：分数整体替换，完成标记撤销，学习时长保留
	second, err := repo.UpsertScore(1, 2, 60, false)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a second row: %d vs %d", second.ID, first.ID)
	}
	if second.Score != 60 {
		t.Errorf("score = %d, want 60", second.Score)
	}
	if second.Completed {
		t.Error("completed should be recomputed to false")
	}
	if second.CompletedAt != nil {
		t.Error("CompletedAt should be cleared when no longer completed")
	}

	stored, err := repo.FindByUserAndModule(1, 2)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.TimeSpent != 12 {
		t.Errorf("time spent = %d, want 12 preserved across upserts", stored.TimeSpent)
	}

	all, err := repo.FindByUser(1)
	if err != nil {
		t.Fatalf("find by user: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected a single ledger row, got %d", len(all))
	}
}

func TestUpsertScoreKeepsCompletedAtOnRepeatPass(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	first, err := repo.UpsertScore(1, 2, 80, true)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := repo.UpsertScore(1, 2, 100, true)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.CompletedAt == nil {
		t.Fatal("CompletedAt missing after repeat pass")
	}
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("CompletedAt restamped on repeat pass: %v vs %v", second.CompletedAt, first.CompletedAt)
	}
}

func TestTouchCreatesEmptyRecord(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	if err := repo.Touch(5, 3); err != nil {
		t.Fatalf("touch: %v", err)
	}
	record, err := repo.FindByUserAndModule(5, 3)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if record.Score != 0 || record.Completed || record.TimeSpent != 0 {
		t.Errorf("touch should create an empty record, got %+v", record)
	}
	if record.LastAccessed.IsZero() {
		t.Error("last accessed not stamped")
	}

	before := record.LastAccessed
	time.Sleep(10 * time.Millisecond)
	if err := repo.Touch(5, 3); err != nil {
		t.Fatalf("second touch: %v", err)
	}
	record, err = repo.FindByUserAndModule(5, 3)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !record.LastAccessed.After(before) {
		t.Error("second touch should advance last accessed")
	}
}

func TestAddTimeSpentAccumulates(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	if err := repo.Touch(7, 1); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if err := repo.AddTimeSpent(7, 1, 10); err != nil {
		t.Fatalf("add 10: %v", err)
	}
	if err := repo.AddTimeSpent(7, 1, 5); err != nil {
		t.Fatalf("add 5: %v", err)
	}

	record, err := repo.FindByUserAndModule(7, 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if record.TimeSpent != 15 {
		t.Errorf("time spent = %d, want 15", record.TimeSpent)
	}
}

func TestCountCompletedByUser(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	if _, err := repo.UpsertScore(9, 1, 90, true); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.UpsertScore(9, 2, 40, false); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.UpsertScore(9, 3, 75, true); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	count, err := repo.CountCompletedByUser(9)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("completed count = %d, want 2", count)
	}
}

func TestAttemptHistory(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	attempts := []model.QuizAttempt{
		{UserID: 3, ModuleID: 1, Kind: model.AttemptQuiz, Score: 50, TotalQuestions: 2, Answers: []int{0, 1}, CompletedAt: base},
		{UserID: 3, ModuleID: 1, Kind: model.AttemptQuiz, Score: 100, TotalQuestions: 2, Answers: []int{1, 0}, CompletedAt: base.Add(time.Hour)},
		{UserID: 3, ModuleID: 2, Kind: model.AttemptDrill, Score: 67, TotalQuestions: 3, Answers: []int{0, 2, 1}, CompletedAt: base.Add(2 * time.Hour)},
	}
	for i := range attempts {
		if err := repo.CreateAttempt(&attempts[i]); err != nil {
			t.Fatalf("create attempt %d: %v", i, err)
		}
	}

	// 按完成时间倒序，最近的在前
	all, err := repo.FindAttempts(3, 0, 10)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d attempts, want 3", len(all))
	}
	if all[0].Kind != model.AttemptDrill || all[0].Score != 67 {
		t.Errorf("latest attempt = %s/%d, want drill/67", all[0].Kind, all[0].Score)
	}

	byModule, err := repo.FindAttempts(3, 1, 10)
	if err != nil {
		t.Fatalf("find by module: %v", err)
	}
	if len(byModule) != 2 {
		t.Fatalf("got %d attempts for module 1, want 2", len(byModule))
	}
	if got := byModule[0].Answers; len(got) != 2 || got[0] != 1 {
		t.Errorf("answers round trip = %v, want [1 0]", got)
	}
}
