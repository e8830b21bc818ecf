package photos

import (
	"context"
	"fmt"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const photoColumns = `
	id::text, user_id::text, COALESCE(uploaded_by::text, ''), COALESCE(workout_id::text, ''),
	COALESCE(date::text, ''), storage_path, public_url, created_at`

func scanPhoto(row pgx.CollectableRow) (Photo, error) {
	var p Photo
	err := row.Scan(&p.ID, &p.UserID, &p.UploadedBy, &p.WorkoutID, &p.Date, &p.StoragePath, &p.PublicURL, &p.CreatedAt)
	return p, err
}

func (r *Repo) Insert(ctx context.Context, p Photo) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.photos.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", p.ID))

	_, err = r.db.Exec(
		ctx,
		`
			INSERT INTO photos (id, user_id, uploaded_by, workout_id, date, storage_path, public_url, created_at)
			VALUES (
				$1::text::uuid, $2::text::uuid, NULLIF($3::text, '')::uuid, NULLIF($4::text, '')::uuid,
				NULLIF($5::text, '')::date, $6, $7, $8
			);`,
		p.ID, p.UserID, p.UploadedBy, p.WorkoutID, p.Date, p.StoragePath, p.PublicURL, p.CreatedAt,
	)
	return err
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Photo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.photos.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(ctx, `SELECT `+photoColumns+` FROM photos WHERE id::text = $1;`, id)
	if err != nil {
		return nil, err
	}
	photos, err := pgx.CollectRows(rows, scanPhoto)
	if err != nil {
		return nil, fmt.Errorf("collect photos: %w", err)
	}
	if len(photos) != 1 {
		return nil, ErrPhotoNotFound
	}
	return &photos[0], nil
}

func (r *Repo) ListForWorkout(ctx context.Context, workoutID string) (_ []Photo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.photos.listForWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+photoColumns+` FROM photos WHERE workout_id = $1::text::uuid ORDER BY created_at;`,
		workoutID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanPhoto)
}

// ListDaily returns photos without a workout, newest date first. Empty bounds are open.
func (r *Repo) ListDaily(ctx context.Context, userID, from, to string) (_ []Photo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.photos.listDaily")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("from", from),
		attribute.String("to", to),
	)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+photoColumns+`
			FROM photos
			WHERE user_id = $1::text::uuid
				AND workout_id IS NULL
				AND ($2::text = '' OR date >= NULLIF($2::text, '')::date)
				AND ($3::text = '' OR date <= NULLIF($3::text, '')::date)
			ORDER BY date DESC, created_at;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanPhoto)
}

func (r *Repo) UpdatePublicURL(ctx context.Context, id, publicURL string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.photos.updatePublicURL")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `UPDATE photos SET public_url = $2 WHERE id::text = $1;`, id, publicURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPhotoNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.photos.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id::text = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
