package domain

import (
	"fmt"
	"time"
)

type WorkoutStatus string

const (
	StatusPlanned    WorkoutStatus = "PLANNED"
	StatusInProgress WorkoutStatus = "IN_PROGRESS"
	StatusPaused     WorkoutStatus = "PAUSED"
	StatusCompleted  WorkoutStatus = "COMPLETED"
)

type WorkoutAction string

const (
	ActionStart    WorkoutAction = "start"
	ActionPause    WorkoutAction = "pause"
	ActionResume   WorkoutAction = "resume"
	ActionComplete WorkoutAction = "complete"
)

type WorkoutSession struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:36;not null;index" json:"userId"`
	Name   string `gorm:"size:128;not null" json:"name"`
	Notes  string `gorm:"type:text" json:"notes,omitempty"`

	Status      WorkoutStatus `gorm:"size:16;not null;default:PLANNED" json:"status"`
	StartedAt   *time.Time    `json:"startedAt,omitempty"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`

	Exercises []WorkoutExercise `gorm:"foreignKey:SessionID" json:"exercises,omitempty"`

	Audit
	Versioned
	SoftDelete
}

func (WorkoutSession) TableName() string { return "workout_sessions" }

// Apply 状态机：PLANNED→IN_PROGRESS→PAUSED→IN_PROGRESS→COMPLETED，
// IN_PROGRESS 可直接 COMPLETED。未知动作返回 ErrInvalidAction。
func (w *WorkoutSession) Apply(action WorkoutAction, now time.Time) error {
	switch action {
	case ActionStart:
		if w.Status != StatusPlanned {
			return NewBusinessRule("cannot start workout in status %s", w.Status)
		}
		w.Status = StatusInProgress
		if w.StartedAt == nil {
			w.StartedAt = &now
		}
	case ActionPause:
		if w.Status != StatusInProgress {
			return NewBusinessRule("cannot pause workout in status %s", w.Status)
		}
		w.Status = StatusPaused
	case ActionResume:
		if w.Status != StatusPaused {
			return NewBusinessRule("cannot resume workout in status %s", w.Status)
		}
		w.Status = StatusInProgress
	case ActionComplete:
		if w.Status != StatusInProgress && w.Status != StatusPaused {
			return NewBusinessRule("cannot complete workout in status %s", w.Status)
		}
		w.Status = StatusCompleted
		w.CompletedAt = &now
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, string(action))
	}
	return nil
}

// ValidateTimestamps 创建/更新时间戳校验：开始时间不得在未来，完成不得早于开始
func (w *WorkoutSession) ValidateTimestamps(now time.Time) *ValidationError {
	var fields []FieldError
	if w.StartedAt != nil && w.StartedAt.After(now) {
		fields = append(fields, FieldError{Field: "startedAt", Message: "must not be in the future"})
	}
	if w.CompletedAt != nil && w.StartedAt != nil && w.CompletedAt.Before(*w.StartedAt) {
		fields = append(fields, FieldError{Field: "completedAt", Message: "must not be earlier than startedAt"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// WorkoutExercise 把动作挂进某次训练，带组内顺序
type WorkoutExercise struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	SessionID      string `gorm:"size:36;not null;index" json:"sessionId"`
	ExerciseID     string `gorm:"size:36;not null;index" json:"exerciseId"`
	OrderInWorkout int    `gorm:"not null;default:0" json:"orderInWorkout"`
	Notes          string `gorm:"size:255" json:"notes,omitempty"`

	Exercise *Exercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`

	StrengthSets    []StrengthSet    `gorm:"foreignKey:WorkoutExerciseID" json:"strengthSets,omitempty"`
	CardioSets      []CardioSet      `gorm:"foreignKey:WorkoutExerciseID" json:"cardioSets,omitempty"`
	FlexibilitySets []FlexibilitySet `gorm:"foreignKey:WorkoutExerciseID" json:"flexibilitySets,omitempty"`

	Audit
	Versioned
	SoftDelete
}

func (WorkoutExercise) TableName() string { return "workout_exercises" }

type StrengthSet struct {
	ID                string  `gorm:"primaryKey;size:36" json:"id"`
	WorkoutExerciseID string  `gorm:"size:36;not null;index" json:"workoutExerciseId"`
	SetNumber         int     `gorm:"not null" json:"setNumber"`
	Reps              int     `gorm:"not null" json:"reps"`
	WeightKg          float64 `gorm:"not null" json:"weightKg"`

	Audit
	Versioned
	SoftDelete
}

func (StrengthSet) TableName() string { return "strength_sets" }

type CardioSet struct {
	ID                string  `gorm:"primaryKey;size:36" json:"id"`
	WorkoutExerciseID string  `gorm:"size:36;not null;index" json:"workoutExerciseId"`
	SetNumber         int     `gorm:"not null" json:"setNumber"`
	DurationSec       int     `gorm:"not null" json:"durationSec"`
	DistanceM         float64 `json:"distanceM"`

	Audit
	Versioned
	SoftDelete
}

func (CardioSet) TableName() string { return "cardio_sets" }

type FlexibilitySet struct {
	ID                string `gorm:"primaryKey;size:36" json:"id"`
	WorkoutExerciseID string `gorm:"size:36;not null;index" json:"workoutExerciseId"`
	SetNumber         int    `gorm:"not null" json:"setNumber"`
	DurationSec       int    `gorm:"not null" json:"durationSec"`
	StretchType       string `gorm:"size:64" json:"stretchType"`
	Intensity         int    `json:"intensity"`

	Audit
	Versioned
	SoftDelete
}

func (FlexibilitySet) TableName() string { return "flexibility_sets" }

// CheckSetType 组类型必须与动作类型一致，错误信息同时带上两个类型
func CheckSetType(exerciseType, setType ExerciseType) error {
	if exerciseType != setType {
		return NewBusinessRule("set type %s does not match exercise type %s", setType, exerciseType)
	}
	return nil
}
