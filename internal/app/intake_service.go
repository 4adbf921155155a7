package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dogdiet/internal/domain"
)

// DefaultDraftTTL is how long an idle intake conversation is kept.
const DefaultDraftTTL = 30 * time.Minute

// ErrNoDraft is returned by Cancel when there is nothing to cancel.
var ErrNoDraft = errors.New("no intake in progress")

// Reply is what a front-end shows after an intake step.
type Reply struct {
	// Notice is an informational or error line shown before Prompt.
	Notice string
	// Prompt is the next question. Empty once Result is set.
	Prompt string
	// Step is the step Prompt belongs to.
	Step   domain.IntakeStep
	Result *DietResult
}

// IntakeService walks a user through the questions needed for a plan,
// re-asking a question until its answer is valid.
type IntakeService struct {
	drafts domain.DraftRepository
	diet   *DietService
	rec    Recorder
	ttl    time.Duration
	now    func() time.Time
}

// NewIntakeService creates an IntakeService. A ttl <= 0 uses DefaultDraftTTL.
func NewIntakeService(drafts domain.DraftRepository, diet *DietService, rec Recorder, ttl time.Duration) *IntakeService {
	if rec == nil {
		rec = nopRecorder{}
	}
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &IntakeService{drafts: drafts, diet: diet, rec: rec, ttl: ttl, now: time.Now}
}

// Prompt returns the question asked at step.
func Prompt(step domain.IntakeStep) string {
	switch step {
	case domain.StepCurrentWeight:
		return "Enter your dog's current weight followed by 'kg' or 'lbs' (e.g. '30 kg' or '66 lbs'):"
	case domain.StepGoalWeight:
		return "Enter your dog's goal weight followed by 'kg' or 'lbs' (e.g. '25 kg' or '55 lbs'):"
	case domain.StepActivity:
		return "Select your dog's activity level:\n1. Low\n2. Moderate\n3. High\nEnter the number (1-3):"
	case domain.StepCurrentFood:
		return "Enter the amount of food you currently feed per day (in cups):"
	case domain.StepCaloricDensity:
		return "Enter the caloric density of the food (calories per cup), printed on the back of the bag:"
	default:
		return ""
	}
}

// Start begins a new intake for sessionID, discarding any previous draft.
func (s *IntakeService) Start(ctx context.Context, sessionID int64) (Reply, error) {
	d := domain.IntakeDraft{SessionID: sessionID, Step: domain.StepCurrentWeight, UpdatedAt: s.now()}
	if err := s.drafts.SaveDraft(ctx, d); err != nil {
		return Reply{}, fmt.Errorf("save draft: %w", err)
	}
	return Reply{Prompt: Prompt(d.Step), Step: d.Step}, nil
}

// Cancel drops the draft for sessionID.
func (s *IntakeService) Cancel(ctx context.Context, sessionID int64) error {
	d, err := s.drafts.GetDraft(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get draft: %w", err)
	}
	if d == nil {
		return ErrNoDraft
	}
	return s.drafts.DeleteDraft(ctx, sessionID)
}

// Sweep deletes drafts idle for longer than the TTL.
func (s *IntakeService) Sweep(ctx context.Context) (int, error) {
	return s.drafts.DeleteExpiredDrafts(ctx, s.now().Add(-s.ttl))
}

// Handle applies one line of user input to the draft for sessionID. Invalid
// input leaves the draft at the same step and is reported in Reply.Notice.
func (s *IntakeService) Handle(ctx context.Context, sessionID int64, text string) (Reply, error) {
	d, err := s.drafts.GetDraft(ctx, sessionID)
	if err != nil {
		return Reply{}, fmt.Errorf("get draft: %w", err)
	}
	if d == nil || s.now().Sub(d.UpdatedAt) > s.ttl {
		r, err := s.Start(ctx, sessionID)
		r.Notice = "Let's start a new plan."
		return r, err
	}

	notice, err := s.apply(d, text)
	if err != nil {
		var ie *InputError
		if !errors.As(err, &ie) {
			return Reply{}, err
		}
		s.rec.ObserveRejection(ie.Field)
		return Reply{Notice: ie.Reason, Prompt: Prompt(d.Step), Step: d.Step}, nil
	}

	if d.Step != domain.StepDone {
		d.UpdatedAt = s.now()
		if err := s.drafts.SaveDraft(ctx, *d); err != nil {
			return Reply{}, fmt.Errorf("save draft: %w", err)
		}
		return Reply{Notice: notice, Prompt: Prompt(d.Step), Step: d.Step}, nil
	}

	res, err := s.finish(ctx, d)
	var ie *InputError
	if errors.As(err, &ie) {
		// Each answer was valid on its own but together they overflow; ask
		// again from the offending question.
		d.Step = stepForField(ie.Field)
		d.UpdatedAt = s.now()
		if err := s.drafts.SaveDraft(ctx, *d); err != nil {
			return Reply{}, fmt.Errorf("save draft: %w", err)
		}
		return Reply{Notice: ie.Reason, Prompt: Prompt(d.Step), Step: d.Step}, nil
	}
	if err != nil {
		return Reply{}, err
	}
	return Reply{Notice: notice, Step: domain.StepDone, Result: res}, nil
}

func stepForField(field string) domain.IntakeStep {
	switch field {
	case FieldCurrentWeight:
		return domain.StepCurrentWeight
	case FieldGoalWeight:
		return domain.StepGoalWeight
	case FieldActivity:
		return domain.StepActivity
	case FieldCurrentFood:
		return domain.StepCurrentFood
	default:
		return domain.StepCaloricDensity
	}
}

func (s *IntakeService) apply(d *domain.IntakeDraft, text string) (string, error) {
	switch d.Step {
	case domain.StepCurrentWeight, domain.StepGoalWeight:
		field := FieldCurrentWeight
		if d.Step == domain.StepGoalWeight {
			field = FieldGoalWeight
		}
		w, err := ParseWeight(field, text)
		if err != nil {
			return "", err
		}
		kg := w.Kilograms()
		if d.Step == domain.StepCurrentWeight {
			d.CurrentWeightKg = kg
		} else {
			d.GoalWeightKg = kg
		}
		d.Step++
		if w.Unit == domain.UnitLbs {
			return fmt.Sprintf("Weight converted to kg: %.2f kg", kg), nil
		}
	case domain.StepActivity:
		a, err := ParseActivityChoice(text)
		if err != nil {
			return "", err
		}
		d.Activity = a
		d.Step++
	case domain.StepCurrentFood:
		cups, err := ParseCups(text)
		if err != nil {
			return "", err
		}
		d.CurrentFoodCups = cups
		d.Step++
	case domain.StepCaloricDensity:
		density, err := ParseCaloriesPerCup(text)
		if err != nil {
			return "", err
		}
		d.CaloriesPerCup = density
		d.Step++
	default:
		return "", fmt.Errorf("draft %d in unexpected step %s", d.SessionID, d.Step)
	}
	return "", nil
}

func (s *IntakeService) finish(ctx context.Context, d *domain.IntakeDraft) (*DietResult, error) {
	p, err := NewProfile(d.CurrentWeightKg, d.GoalWeightKg, d.Activity, d.CurrentFoodCups)
	if err != nil {
		return nil, err
	}
	res, err := s.diet.Compute(ctx, p, d.CaloriesPerCup)
	if err != nil {
		return nil, err
	}
	if err := s.drafts.DeleteDraft(ctx, d.SessionID); err != nil {
		return nil, fmt.Errorf("delete draft: %w", err)
	}
	return res, nil
}
