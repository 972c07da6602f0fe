package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// SchemaSQL creates the users and workout tables. Safe to run more than once.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS public.users
(
    id            SERIAL PRIMARY KEY,
    name          VARCHAR     NOT NULL,
    email         VARCHAR     NOT NULL UNIQUE,
    password_hash VARCHAR     NOT NULL,
    img           VARCHAR,
    created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS public.workout
(
    id              SERIAL PRIMARY KEY,
    user_id         INTEGER          NOT NULL REFERENCES public.users (id),
    category        VARCHAR          NOT NULL,
    name            VARCHAR          NOT NULL,
    sets            INTEGER          NOT NULL,
    reps            INTEGER          NOT NULL,
    weight_kg       DOUBLE PRECISION NOT NULL,
    duration_min    DOUBLE PRECISION NOT NULL,
    calories_burned DOUBLE PRECISION NOT NULL,
    created_at      TIMESTAMPTZ      NOT NULL
);

CREATE INDEX IF NOT EXISTS ix_workout_user_created_at ON public.workout (user_id, created_at);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Debugln("db schema applied")
	return nil
}
