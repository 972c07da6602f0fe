package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitzen/internal/telemetry/tracing"
	"github.com/2beens/fitzen/internal/users"
	"github.com/2beens/fitzen/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// AddBatch stores all records in a single transaction and returns them with ids set.
// Either every record is stored or none is.
func (r *Repo) AddBatch(ctx context.Context, records []WorkoutRecord) (_ []WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addBatch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("batch.size", len(records)))

	if len(records) == 0 {
		return records, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = multierr.Append(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO workout
				(user_id, category, name, sets, reps, weight_kg, duration_min, calories_burned, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id;`,
			rec.UserID, rec.Category, rec.Name, rec.Sets, rec.Reps,
			rec.WeightKg, rec.DurationMin, rec.CaloriesBurned, rec.Date,
		)
	}

	stored := make([]WorkoutRecord, len(records))
	copy(stored, records)

	results := tx.SendBatch(ctx, batch)
	for i := range stored {
		if err = results.QueryRow().Scan(&stored[i].ID); err != nil {
			_ = results.Close()
			if pkg.IsForeignKeyViolationError(err) {
				return nil, fmt.Errorf("insert workout %d: %w", i+1, users.ErrUserNotFound)
			}
			return nil, fmt.Errorf("insert workout %d: %w", i+1, err)
		}
	}
	if err = results.Close(); err != nil {
		return nil, fmt.Errorf("close batch: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return stored, nil
}

// ListByOwnerInRange returns the user's records with from <= date < to, oldest first.
func (r *Repo) ListByOwnerInRange(ctx context.Context, userID int, from, to time.Time) (_ []WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listByOwnerInRange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("from", from.String()))
	span.SetAttributes(attribute.String("to", to.String()))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, category, name, sets, reps, weight_kg, duration_min, calories_burned, created_at
			FROM workout
			WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
			ORDER BY created_at ASC, id ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []WorkoutRecord
	for rows.Next() {
		var rec WorkoutRecord
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Category, &rec.Name, &rec.Sets, &rec.Reps,
			&rec.WeightKg, &rec.DurationMin, &rec.CaloriesBurned, &rec.Date,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
