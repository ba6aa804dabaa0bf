package model

import (
	"time"
)

// StudentProgress 学员在某个模块上的进度账本，(user_id, module_id) 唯一
type StudentProgress struct {
	BaseModel
	UserID       uint       `gorm:"uniqueIndex:idx_user_module;not null" json:"userId"`
	ModuleID     uint       `gorm:"uniqueIndex:idx_user_module;not null" json:"moduleId"`
	Completed    bool       `gorm:"default:false" json:"completed"`
	Score        int        `gorm:"default:0" json:"score"`
	TimeSpent    int        `gorm:"default:0" json:"timeSpent"` // 分钟
	LastAccessed time.Time  `json:"lastAccessed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func (StudentProgress) TableName() string {
	return "student_progress"
}

type AttemptKind string

const (
	AttemptQuiz  AttemptKind = "quiz"
	AttemptDrill AttemptKind = "drill"
)

// QuizAttempt 每次测验/演练提交的历史记录
type QuizAttempt struct {
	BaseModel
	UserID         uint        `gorm:"index;not null" json:"userId"`
	ModuleID       uint        `gorm:"index;not null" json:"moduleId"`
	Kind           AttemptKind `gorm:"size:10;default:'quiz'" json:"kind"`
	Score          int         `gorm:"not null" json:"score"`
	TotalQuestions int         `gorm:"not null" json:"totalQuestions"`
	Answers        []int       `gorm:"serializer:json" json:"answers"`
	CompletedAt    time.Time   `json:"completedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
