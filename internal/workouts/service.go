package workouts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitzen/internal/telemetry/metrics"
	"github.com/2beens/fitzen/internal/telemetry/tracing"
	"github.com/2beens/fitzen/internal/users"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	AddBatch(ctx context.Context, records []WorkoutRecord) ([]WorkoutRecord, error)
	ListByOwnerInRange(ctx context.Context, userID int, from, to time.Time) ([]WorkoutRecord, error)
}

type usersRepo interface {
	GetByID(ctx context.Context, id int) (*users.User, error)
}

type Service struct {
	repo           workoutsRepo
	users          usersRepo
	metricsManager *metrics.Manager

	Now func() time.Time
}

func NewService(repo workoutsRepo, users usersRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		users:          users,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

// Ingest parses raw, estimates calories for every block and stores all resulting
// records for userID at once. Nothing is stored when any block fails to parse.
func (s *Service) Ingest(ctx context.Context, userID int, raw string) (_ []WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.ingest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	if strings.TrimSpace(raw) == "" {
		s.countParseFailure(&ValidationError{Err: ErrMissingWorkout})
		return nil, &ValidationError{Err: ErrMissingWorkout}
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	entries, err := Parse(raw)
	if err != nil {
		s.countParseFailure(err)
		return nil, err
	}

	now := s.Now()
	records := make([]WorkoutRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, WorkoutRecord{
			UserID:         userID,
			Entry:          entry,
			CaloriesBurned: EstimateCalories(entry),
			Date:           now,
		})
	}

	stored, err := s.repo.AddBatch(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("store workouts: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.HistogramIngestBatchSize.Observe(float64(len(stored)))
		for _, rec := range stored {
			s.metricsManager.CounterWorkoutsIngested.WithLabelValues(rec.Category).Inc()
		}
	}
	log.Debugf("user %d added %d workouts", userID, len(stored))

	return stored, nil
}

// Dashboard summarizes the user's last seven days, today included.
func (s *Service) Dashboard(ctx context.Context, userID int) (_ *DashboardSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.dashboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	now := s.Now()
	from, to := WeekWindow(now)
	records, err := s.repo.ListByOwnerInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list week workouts: %w", err)
	}

	return Summarize(records, now), nil
}

// WorkoutsByDate lists the user's workouts on the calendar day of day.
func (s *Service) WorkoutsByDate(ctx context.Context, userID int, day time.Time) (_ *WorkoutsByDate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.byDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	from, to := DayWindow(day)
	records, err := s.repo.ListByOwnerInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list day workouts: %w", err)
	}

	res := &WorkoutsByDate{
		Date:     dayKey(from),
		Workouts: make([]WorkoutRecord, 0, len(records)),
	}
	for _, rec := range records {
		res.Workouts = append(res.Workouts, rec)
		res.TotalCalories += rec.CaloriesBurned
	}

	return res, nil
}

func (s *Service) countParseFailure(err error) {
	if s.metricsManager == nil {
		return
	}
	reason := "other"
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		reason = validationErr.Reason()
	}
	s.metricsManager.CounterParseFailures.WithLabelValues(reason).Inc()
}
