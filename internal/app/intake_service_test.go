package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"dogdiet/internal/app"
	"dogdiet/internal/domain"
)

type mockDraftRepo struct {
	drafts   map[int64]domain.IntakeDraft
	getFn    func(ctx context.Context, id int64) (*domain.IntakeDraft, error)
	saveFn   func(ctx context.Context, d domain.IntakeDraft) error
	expireFn func(ctx context.Context, before time.Time) (int, error)
}

func newMockDraftRepo() *mockDraftRepo {
	return &mockDraftRepo{drafts: make(map[int64]domain.IntakeDraft)}
}

func (m *mockDraftRepo) GetDraft(ctx context.Context, id int64) (*domain.IntakeDraft, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	d, ok := m.drafts[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *mockDraftRepo) SaveDraft(ctx context.Context, d domain.IntakeDraft) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, d)
	}
	m.drafts[d.SessionID] = d
	return nil
}

func (m *mockDraftRepo) DeleteDraft(_ context.Context, id int64) error {
	delete(m.drafts, id)
	return nil
}

func (m *mockDraftRepo) DeleteExpiredDrafts(ctx context.Context, before time.Time) (int, error) {
	if m.expireFn != nil {
		return m.expireFn(ctx, before)
	}
	return 0, nil
}

func newIntake(repo domain.DraftRepository, rec app.Recorder) *app.IntakeService {
	return app.NewIntakeService(repo, app.NewDietService(rec), rec, time.Hour)
}

func TestIntake_FullConversation(t *testing.T) {
	ctx := context.Background()
	repo := newMockDraftRepo()
	svc := newIntake(repo, nil)

	r, err := svc.Start(ctx, 7)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if r.Step != domain.StepCurrentWeight || r.Prompt == "" {
		t.Fatalf("unexpected start reply: %+v", r)
	}

	steps := []struct {
		input    string
		wantStep domain.IntakeStep
	}{
		{"66 lbs", domain.StepGoalWeight},
		{"25 kg", domain.StepActivity},
		{"2", domain.StepCurrentFood},
		{"3.0", domain.StepCaloricDensity},
	}
	for _, s := range steps {
		r, err = svc.Handle(ctx, 7, s.input)
		if err != nil {
			t.Fatalf("handle %q: %v", s.input, err)
		}
		if r.Step != s.wantStep {
			t.Fatalf("after %q step = %v; want %v", s.input, r.Step, s.wantStep)
		}
		if r.Prompt != app.Prompt(s.wantStep) {
			t.Fatalf("after %q prompt = %q", s.input, r.Prompt)
		}
		if s.input == "66 lbs" && !strings.Contains(r.Notice, "29.94 kg") {
			t.Fatalf("expected conversion notice, got %q", r.Notice)
		}
	}

	r, err = svc.Handle(ctx, 7, "350")
	if err != nil {
		t.Fatalf("handle density: %v", err)
	}
	if r.Result == nil {
		t.Fatal("expected a result")
	}
	if r.Step != domain.StepDone || r.Prompt != "" {
		t.Fatalf("unexpected final reply: %+v", r)
	}
	if r.Result.CaloriesPerCup != 350 || r.Result.Profile.Activity != domain.ActivityModerate {
		t.Fatalf("unexpected result: %+v", r.Result)
	}
	if _, ok := repo.drafts[7]; ok {
		t.Fatal("draft should be deleted after completion")
	}
}

func TestIntake_InvalidInputRepeatsStep(t *testing.T) {
	ctx := context.Background()
	rec := &mockRecorder{}
	svc := newIntake(newMockDraftRepo(), rec)
	if _, err := svc.Start(ctx, 1); err != nil {
		t.Fatalf("start: %v", err)
	}

	for _, bad := range []string{"30", "30 stone", "abc kg", "-3 kg"} {
		r, err := svc.Handle(ctx, 1, bad)
		if err != nil {
			t.Fatalf("handle %q: %v", bad, err)
		}
		if r.Step != domain.StepCurrentWeight {
			t.Fatalf("input %q moved to step %v", bad, r.Step)
		}
		if r.Notice == "" {
			t.Fatalf("input %q produced no notice", bad)
		}
	}
	if len(rec.rejections) != 4 {
		t.Fatalf("recorded %d rejections; want 4", len(rec.rejections))
	}

	r, _ := svc.Handle(ctx, 1, "30 kg")
	if r.Step != domain.StepGoalWeight {
		t.Fatalf("step = %v; want goal weight", r.Step)
	}
}

func TestIntake_OverflowReturnsToOffendingStep(t *testing.T) {
	ctx := context.Background()
	rec := &mockRecorder{}
	repo := newMockDraftRepo()
	svc := newIntake(repo, rec)
	if _, err := svc.Start(ctx, 2); err != nil {
		t.Fatalf("start: %v", err)
	}
	for _, in := range []string{"30 kg", "25 kg", "1", "3"} {
		if _, err := svc.Handle(ctx, 2, in); err != nil {
			t.Fatalf("handle %q: %v", in, err)
		}
	}

	r, err := svc.Handle(ctx, 2, "1e-320")
	if err != nil {
		t.Fatalf("handle density: %v", err)
	}
	if r.Result != nil || r.Step != domain.StepCaloricDensity || r.Notice == "" {
		t.Fatalf("unexpected reply: %+v", r)
	}
	if repo.drafts[2].Step != domain.StepCaloricDensity {
		t.Fatalf("draft step = %v; want caloric density", repo.drafts[2].Step)
	}
	if len(rec.rejections) != 1 || rec.rejections[0] != app.FieldCaloriesPerCup {
		t.Fatalf("recorded rejections = %v", rec.rejections)
	}

	r, err = svc.Handle(ctx, 2, "350")
	if err != nil || r.Result == nil {
		t.Fatalf("expected a result after a valid density, got %+v, %v", r, err)
	}
}

func TestIntake_HandleWithoutDraftStartsOver(t *testing.T) {
	svc := newIntake(newMockDraftRepo(), nil)
	r, err := svc.Handle(context.Background(), 3, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Step != domain.StepCurrentWeight || r.Notice == "" {
		t.Fatalf("unexpected reply: %+v", r)
	}
}

func TestIntake_ExpiredDraftStartsOver(t *testing.T) {
	repo := newMockDraftRepo()
	repo.drafts[5] = domain.IntakeDraft{
		SessionID: 5,
		Step:      domain.StepCurrentFood,
		UpdatedAt: time.Now().Add(-2 * time.Hour),
	}
	svc := newIntake(repo, nil)
	r, err := svc.Handle(context.Background(), 5, "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Step != domain.StepCurrentWeight {
		t.Fatalf("step = %v; want restart", r.Step)
	}
}

func TestIntake_Cancel(t *testing.T) {
	ctx := context.Background()
	repo := newMockDraftRepo()
	svc := newIntake(repo, nil)

	if err := svc.Cancel(ctx, 9); !errors.Is(err, app.ErrNoDraft) {
		t.Fatalf("err = %v; want ErrNoDraft", err)
	}
	if _, err := svc.Start(ctx, 9); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.Cancel(ctx, 9); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, ok := repo.drafts[9]; ok {
		t.Fatal("draft should be gone")
	}
}

func TestIntake_Sweep(t *testing.T) {
	repo := newMockDraftRepo()
	var cutoff time.Time
	repo.expireFn = func(_ context.Context, before time.Time) (int, error) {
		cutoff = before
		return 2, nil
	}
	svc := newIntake(repo, nil)
	n, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 2 {
		t.Fatalf("swept %d; want 2", n)
	}
	if d := time.Since(cutoff); d < 59*time.Minute || d > 61*time.Minute {
		t.Fatalf("cutoff %v not one TTL ago", cutoff)
	}
}

func TestIntake_RepoError(t *testing.T) {
	repo := newMockDraftRepo()
	repo.getFn = func(context.Context, int64) (*domain.IntakeDraft, error) {
		return nil, errors.New("store down")
	}
	svc := newIntake(repo, nil)
	if _, err := svc.Handle(context.Background(), 1, "30 kg"); err == nil {
		t.Fatal("expected error from repo")
	}
}
