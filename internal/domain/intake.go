package domain

import (
	"context"
	"time"
)

// IntakeStep is the question an intake conversation is waiting on.
type IntakeStep int

const (
	StepCurrentWeight IntakeStep = iota
	StepGoalWeight
	StepActivity
	StepCurrentFood
	StepCaloricDensity
	StepDone
)

func (s IntakeStep) String() string {
	switch s {
	case StepCurrentWeight:
		return "current_weight"
	case StepGoalWeight:
		return "goal_weight"
	case StepActivity:
		return "activity"
	case StepCurrentFood:
		return "current_food"
	case StepCaloricDensity:
		return "caloric_density"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// IntakeDraft is the partially collected input of one conversation.
type IntakeDraft struct {
	SessionID       int64
	Step            IntakeStep
	CurrentWeightKg float64
	GoalWeightKg    float64
	Activity        ActivityLevel
	CurrentFoodCups float64
	CaloriesPerCup  float64
	UpdatedAt       time.Time
}

// DraftRepository is the port for in-flight intake conversations.
type DraftRepository interface {
	GetDraft(ctx context.Context, sessionID int64) (*IntakeDraft, error)
	SaveDraft(ctx context.Context, draft IntakeDraft) error
	DeleteDraft(ctx context.Context, sessionID int64) error
	DeleteExpiredDrafts(ctx context.Context, before time.Time) (int, error)
}
