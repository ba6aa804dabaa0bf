package model

// PhaseType 模块阶段：灾前 / 灾中 / 灾后
type PhaseType string

const (
	PhaseBefore PhaseType = "before"
	PhaseDuring PhaseType = "during"
	PhaseAfter  PhaseType = "after"
)

// DisasterModule 一个独立的防灾学习单元（测验 + 演练场景 + 阶段内容）
type DisasterModule struct {
	BaseModel
	Slug        string          `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Icon        string          `gorm:"size:20" json:"icon"`
	Color       string          `gorm:"size:30" json:"color"`
	IsActive    bool            `gorm:"default:true" json:"isActive"`
	Phases      []ModulePhase   `gorm:"foreignKey:ModuleID" json:"phases,omitempty"`
	Questions   []QuizQuestion  `gorm:"foreignKey:ModuleID" json:"questions,omitempty"`
	Scenarios   []DrillScenario `gorm:"foreignKey:ModuleID" json:"scenarios,omitempty"`
}

func (DisasterModule) TableName() string {
	return "disaster_modules"
}

type ModulePhase struct {
	BaseModel
	ModuleID     uint            `gorm:"index;not null" json:"moduleId"`
	PhaseType    PhaseType       `gorm:"type:enum('before','during','after');not null" json:"phaseType"`
	Title        string          `gorm:"size:255;not null" json:"title"`
	ContentFocus string          `gorm:"type:text" json:"contentFocus"`
	Format       string          `gorm:"size:100" json:"format"`
	Checklists   []PhaseChecklist `gorm:"foreignKey:PhaseID" json:"checklists,omitempty"`
	Steps        []PhaseStep      `gorm:"foreignKey:PhaseID" json:"steps,omitempty"`
	QAItems      []PhaseQA        `gorm:"foreignKey:PhaseID" json:"qaItems,omitempty"`
}

func (ModulePhase) TableName() string {
	return "module_phases"
}

type PhaseChecklist struct {
	BaseModel
	PhaseID    uint   `gorm:"index;not null" json:"phaseId"`
	Item       string `gorm:"type:text;not null" json:"item"`
	OrderIndex int    `gorm:"default:0" json:"orderIndex"`
}

func (PhaseChecklist) TableName() string {
	return "phase_checklists"
}

type PhaseStep struct {
	BaseModel
	PhaseID     uint   `gorm:"index;not null" json:"phaseId"`
	Step        string `gorm:"size:255;not null" json:"step"`
	Description string `gorm:"type:text" json:"description"`
	Animation   string `gorm:"size:100" json:"animation"`
	Location    string `gorm:"size:100" json:"location"`
	OrderIndex  int    `gorm:"default:0" json:"orderIndex"`
}

func (PhaseStep) TableName() string {
	return "phase_steps"
}

type PhaseQA struct {
	BaseModel
	PhaseID  uint   `gorm:"index;not null" json:"phaseId"`
	Question string `gorm:"type:text;not null" json:"question"`
	Answer   string `gorm:"type:text;not null" json:"answer"`
	Category string `gorm:"size:100" json:"category"`
}

func (PhaseQA) TableName() string {
	return "phase_qa"
}

// QuizQuestion 选择题，CorrectAnswer 为选项下标
type QuizQuestion struct {
	BaseModel
	ModuleID      uint      `gorm:"index;not null" json:"moduleId"`
	Question      string    `gorm:"type:text;not null" json:"question"`
	Options       []string  `gorm:"serializer:json" json:"options"`
	CorrectAnswer int       `gorm:"not null" json:"-"`
	Phase         PhaseType `gorm:"type:enum('before','during','after');default:'before'" json:"phase"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// DrillScenario 演练中的单个决策点，每个选项带正误标记和反馈文案
type DrillScenario struct {
	BaseModel
	ModuleID   uint          `gorm:"index;not null" json:"moduleId"`
	Situation  string        `gorm:"type:text;not null" json:"situation"`
	OrderIndex int           `gorm:"default:0" json:"orderIndex"`
	Choices    []DrillChoice `gorm:"foreignKey:ScenarioID" json:"choices,omitempty"`
}

func (DrillScenario) TableName() string {
	return "drill_scenarios"
}

type DrillChoice struct {
	BaseModel
	ScenarioID uint   `gorm:"index;not null" json:"scenarioId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	Correct    bool   `gorm:"default:false" json:"-"`
	Feedback   string `gorm:"type:text" json:"feedback"`
	OrderIndex int    `gorm:"default:0" json:"orderIndex"`
}

func (DrillChoice) TableName() string {
	return "drill_choices"
}
