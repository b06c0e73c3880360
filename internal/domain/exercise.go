package domain

type ExerciseType string

const (
	ExerciseStrength    ExerciseType = "STRENGTH"
	ExerciseCardio      ExerciseType = "CARDIO"
	ExerciseFlexibility ExerciseType = "FLEXIBILITY"
)

func (t ExerciseType) Valid() bool {
	switch t {
	case ExerciseStrength, ExerciseCardio, ExerciseFlexibility:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Exercise 动作库条目，读多写少的参考数据
type Exercise struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	Name        string       `gorm:"size:128;not null;index" json:"name"`
	Type        ExerciseType `gorm:"size:16;not null;index" json:"type"`
	MuscleGroup string       `gorm:"size:64;index" json:"muscleGroup"`
	Difficulty  Difficulty   `gorm:"size:16;not null" json:"difficulty"`
	Description string       `gorm:"type:text" json:"description,omitempty"`

	Audit
	Versioned
	SoftDelete
}

func (Exercise) TableName() string { return "exercises" }

// ExerciseFilter 可选谓词组合，零值字段不参与过滤
type ExerciseFilter struct {
	Type        ExerciseType
	MuscleGroup string
	Difficulty  Difficulty
	NameLike    string
}
