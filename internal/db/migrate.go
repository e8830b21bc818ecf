package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is idempotent and safe to run on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	display_name  TEXT NOT NULL DEFAULT '',
	group_key     TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS workouts (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	date       DATE NOT NULL,
	body_part  TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, date DESC);

CREATE TABLE IF NOT EXISTS exercises (
	id          UUID PRIMARY KEY,
	workout_id  UUID NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	order_index INT NOT NULL,
	notes       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_exercises_workout_id ON exercises(workout_id);

-- exercise_id is NULL for sets of flat workouts
CREATE TABLE IF NOT EXISTS sets (
	id            UUID PRIMARY KEY,
	workout_id    UUID NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
	exercise_id   UUID REFERENCES exercises(id) ON DELETE CASCADE,
	exercise_name TEXT NOT NULL DEFAULT '',
	set_index     INT NOT NULL,
	reps          INT NOT NULL DEFAULT 0,
	weight        DOUBLE PRECISION,
	notes         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_sets_workout_id ON sets(workout_id);
CREATE INDEX IF NOT EXISTS idx_sets_exercise_id ON sets(exercise_id);

-- workout photos have workout_id set, daily photos have date set and no workout
CREATE TABLE IF NOT EXISTS photos (
	id           UUID PRIMARY KEY,
	user_id      UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	uploaded_by  UUID REFERENCES users(id) ON DELETE SET NULL,
	workout_id   UUID REFERENCES workouts(id) ON DELETE CASCADE,
	date         DATE,
	storage_path TEXT NOT NULL,
	public_url   TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT photos_workout_xor_date CHECK ((workout_id IS NULL) <> (date IS NULL))
);
CREATE INDEX IF NOT EXISTS idx_photos_workout_id ON photos(workout_id);
CREATE INDEX IF NOT EXISTS idx_photos_user_date ON photos(user_id, date);

CREATE OR REPLACE FUNCTION ensure_group_key_for_user(p_user_id UUID) RETURNS TEXT AS $$
DECLARE
	k TEXT;
BEGIN
	UPDATE users
		SET group_key = md5(random()::text || clock_timestamp()::text), updated_at = now()
		WHERE id = p_user_id AND group_key IS NULL;
	SELECT group_key INTO k FROM users WHERE id = p_user_id;
	RETURN k;
END;
$$ LANGUAGE plpgsql;
`

// Migrate ensures tables and functions exist. Call once at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
