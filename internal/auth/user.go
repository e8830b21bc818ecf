package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	GroupKey    string    `json:"group_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DefaultDisplayName is the local part of the email address.
func DefaultDisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

const userColumns = `id::text, email, display_name, COALESCE(group_key, ''), created_at`

// GetByEmail returns the user and its password hash.
func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (_ *User, _ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var u User
	var passwordHash string
	err = r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = $1;`,
		email,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.GroupKey, &u.CreatedAt, &passwordHash)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	span.SetAttributes(attribute.String("user.id", u.ID))
	return &u, passwordHash, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByID")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	var u User
	err = r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE id::text = $1;`,
		id,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.GroupKey, &u.CreatedAt)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *UsersRepo) Create(ctx context.Context, user User, passwordHash string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", user.ID))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO users (id, email, password_hash, display_name, created_at, updated_at)
			VALUES ($1::text::uuid, $2, $3, $4, $5, $5)
		RETURNING created_at;`,
		user.ID, user.Email, passwordHash, user.DisplayName, user.CreatedAt,
	).Scan(&user.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UpsertProfile writes the profile keyed by the user id.
// A display name edited by the user is never replaced by the default one.
func (r *UsersRepo) UpsertProfile(ctx context.Context, user User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.upsertProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", user.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET
			email = $2,
			display_name = CASE WHEN display_name = '' THEN $3 ELSE display_name END,
			updated_at = now()
		WHERE id::text = $1;`,
		user.ID, user.Email, user.DisplayName,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UsersRepo) EnsureGroupKey(ctx context.Context, userID string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.ensureGroupKey")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var groupKey *string
	if err := r.db.QueryRow(ctx, `SELECT ensure_group_key_for_user($1::text::uuid);`, userID).Scan(&groupKey); err != nil {
		return "", err
	}
	if groupKey == nil {
		return "", ErrUserNotFound
	}
	return *groupKey, nil
}

func (r *UsersRepo) UpdateDisplayName(ctx context.Context, userID, displayName string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updateDisplayName")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var u User
	err = r.db.QueryRow(
		ctx,
		`UPDATE users SET display_name = $2, updated_at = now() WHERE id::text = $1
		RETURNING `+userColumns+`;`,
		userID, displayName,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.GroupKey, &u.CreatedAt)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// SameGroup reports whether both users carry the same, non-empty group key.
func (r *UsersRepo) SameGroup(ctx context.Context, userID, otherUserID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.sameGroup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("other.user.id", otherUserID),
	)

	var same bool
	err = r.db.QueryRow(
		ctx,
		`SELECT EXISTS (
			SELECT 1 FROM users a JOIN users b ON a.group_key = b.group_key
			WHERE a.id::text = $1 AND b.id::text = $2 AND a.group_key IS NOT NULL
		);`,
		userID, otherUserID,
	).Scan(&same)
	if err != nil {
		return false, err
	}
	return same, nil
}
