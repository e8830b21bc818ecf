package workouts

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const workoutColumns = `id::text, user_id::text, date::text, body_part, notes, created_at`

func (r *Repo) ListWorkouts(ctx context.Context, filter ListFilter) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", filter.UserID),
		attribute.String("body_part", filter.BodyPart),
		attribute.String("date", filter.Date),
		attribute.String("from", filter.From),
		attribute.String("to", filter.To),
		attribute.Int("limit", filter.Limit),
	)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+workoutColumns+`
			FROM workouts
			WHERE user_id = $1::text::uuid
				AND ($2::text = '' OR body_part = $2)
				AND ($3::text = '' OR date = NULLIF($3::text, '')::date)
				AND ($4::text = '' OR date >= NULLIF($4::text, '')::date)
				AND ($5::text = '' OR date <= NULLIF($5::text, '')::date)
			ORDER BY date DESC, created_at DESC
			LIMIT NULLIF($6::int, 0);`,
		filter.UserID, filter.BodyPart, filter.Date, filter.From, filter.To, filter.Limit,
	)
	if err != nil {
		return nil, err
	}

	workouts, err := pgx.CollectRows(rows, scanWorkout)
	if err != nil {
		return nil, fmt.Errorf("collect workouts: %w", err)
	}

	if err := r.loadChildren(ctx, workouts); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))
	return workouts, nil
}

func (r *Repo) GetWorkout(ctx context.Context, id string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id::text = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}

	workouts, err := pgx.CollectRows(rows, scanWorkout)
	if err != nil {
		return nil, fmt.Errorf("collect workouts: %w", err)
	}
	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	if err := r.loadChildren(ctx, workouts); err != nil {
		return nil, err
	}

	return &workouts[0], nil
}

func scanWorkout(row pgx.CollectableRow) (Workout, error) {
	var w Workout
	err := row.Scan(&w.ID, &w.UserID, &w.Date, &w.BodyPart, &w.Notes, &w.CreatedAt)
	w.Exercises = []Exercise{}
	return w, err
}

// loadChildren fills exercises and sets of the given workouts with two queries.
func (r *Repo) loadChildren(ctx context.Context, workouts []Workout) error {
	if len(workouts) == 0 {
		return nil
	}

	ids := make([]string, len(workouts))
	byID := make(map[string]*Workout, len(workouts))
	for i := range workouts {
		ids[i] = workouts[i].ID
		byID[workouts[i].ID] = &workouts[i]
	}

	exRows, err := r.db.Query(
		ctx,
		`
			SELECT id::text, workout_id::text, name, order_index, notes, created_at
			FROM exercises
			WHERE workout_id = ANY($1::text[]::uuid[])
			ORDER BY workout_id, order_index;`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("query exercises: %w", err)
	}
	exercises, err := pgx.CollectRows(exRows, func(row pgx.CollectableRow) (Exercise, error) {
		var ex Exercise
		err := row.Scan(&ex.ID, &ex.WorkoutID, &ex.Name, &ex.OrderIndex, &ex.Notes, &ex.CreatedAt)
		ex.Sets = []Set{}
		return ex, err
	})
	if err != nil {
		return fmt.Errorf("collect exercises: %w", err)
	}

	exerciseByID := make(map[string]*Exercise, len(exercises))
	for _, ex := range exercises {
		w := byID[ex.WorkoutID]
		w.Exercises = append(w.Exercises, ex)
	}
	for i := range workouts {
		for j := range workouts[i].Exercises {
			exerciseByID[workouts[i].Exercises[j].ID] = &workouts[i].Exercises[j]
		}
	}

	setRows, err := r.db.Query(
		ctx,
		`
			SELECT id::text, workout_id::text, COALESCE(exercise_id::text, ''), exercise_name,
				set_index, reps, weight, notes, created_at
			FROM sets
			WHERE workout_id = ANY($1::text[]::uuid[])
			ORDER BY workout_id, exercise_id NULLS FIRST, set_index;`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("query sets: %w", err)
	}
	sets, err := pgx.CollectRows(setRows, func(row pgx.CollectableRow) (Set, error) {
		var s Set
		err := row.Scan(&s.ID, &s.WorkoutID, &s.ExerciseID, &s.ExerciseName,
			&s.SetIndex, &s.Reps, &s.Weight, &s.Notes, &s.CreatedAt)
		return s, err
	})
	if err != nil {
		return fmt.Errorf("collect sets: %w", err)
	}

	for _, s := range sets {
		if s.ExerciseID == "" {
			w := byID[s.WorkoutID]
			w.Sets = append(w.Sets, s)
			continue
		}
		if ex, ok := exerciseByID[s.ExerciseID]; ok {
			ex.Sets = append(ex.Sets, s)
		}
	}

	return nil
}

func (r *Repo) UpsertWorkout(ctx context.Context, w Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", w.ID))

	_, err = r.db.Exec(
		ctx,
		`
			INSERT INTO workouts (id, user_id, date, body_part, notes, created_at)
				VALUES ($1::text::uuid, $2::text::uuid, $3::text::date, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				date = EXCLUDED.date,
				body_part = EXCLUDED.body_part,
				notes = EXCLUDED.notes;`,
		w.ID, w.UserID, w.Date, w.BodyPart, w.Notes, w.CreatedAt,
	)
	return err
}

func (r *Repo) DeleteChildren(ctx context.Context, workoutID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteChildren")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", workoutID))

	// sets of exercises go with their exercise, flat sets need their own delete
	if _, err := r.db.Exec(ctx, `DELETE FROM exercises WHERE workout_id = $1::text::uuid;`, workoutID); err != nil {
		return fmt.Errorf("delete exercises: %w", err)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM sets WHERE workout_id = $1::text::uuid;`, workoutID); err != nil {
		return fmt.Errorf("delete sets: %w", err)
	}
	return nil
}

func (r *Repo) InsertExercise(ctx context.Context, ex Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.insertExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", ex.ID))

	_, err = r.db.Exec(
		ctx,
		`
			INSERT INTO exercises (id, workout_id, name, order_index, notes, created_at)
				VALUES ($1::text::uuid, $2::text::uuid, $3, $4, $5, $6);`,
		ex.ID, ex.WorkoutID, ex.Name, ex.OrderIndex, ex.Notes, ex.CreatedAt,
	)
	return err
}

func (r *Repo) InsertSet(ctx context.Context, s Set) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.insertSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", s.ID))

	_, err = r.db.Exec(
		ctx,
		`
			INSERT INTO sets (id, workout_id, exercise_id, exercise_name, set_index, reps, weight, notes, created_at)
				VALUES ($1::text::uuid, $2::text::uuid, NULLIF($3::text, '')::uuid, $4, $5, $6, $7, $8, $9);`,
		s.ID, s.WorkoutID, s.ExerciseID, s.ExerciseName, s.SetIndex, s.Reps, s.Weight, s.Notes, s.CreatedAt,
	)
	return err
}

func (r *Repo) DeleteWorkout(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM workouts WHERE id::text = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// ListCreatedSince returns every user's workouts created after since, oldest first.
// A nil since returns all of them.
func (r *Repo) ListCreatedSince(ctx context.Context, since *time.Time) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listCreatedSince")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var rows pgx.Rows
	if since == nil {
		rows, err = r.db.Query(ctx, `SELECT `+workoutColumns+` FROM workouts ORDER BY created_at;`)
	} else {
		span.SetAttributes(attribute.String("since", since.Format(time.RFC3339)))
		rows, err = r.db.Query(
			ctx,
			`SELECT `+workoutColumns+` FROM workouts WHERE created_at > $1 ORDER BY created_at;`,
			*since,
		)
	}
	if err != nil {
		return nil, err
	}

	workouts, err := pgx.CollectRows(rows, scanWorkout)
	if err != nil {
		return nil, fmt.Errorf("collect workouts: %w", err)
	}

	if err := r.loadChildren(ctx, workouts); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))
	return workouts, nil
}
