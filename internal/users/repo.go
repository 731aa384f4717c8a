package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ascend-app/backend/internal/telemetry/tracing"
	"github.com/ascend-app/backend/pkg"

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

func (r *Repo) Create(ctx context.Context, username, passwordHash string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("username", username))

	user := &User{
		Username:       username,
		PasswordHash:   passwordHash,
		ActivePrograms: []string{},
		CreatedAt:      time.Now(),
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO app_user
				(username, password_hash, is_admin, active_programs, split_ready_announced, created_at)
				VALUES ($1, $2, FALSE, $3, FALSE, $4)
			RETURNING id;`,
		user.Username, user.PasswordHash, user.ActivePrograms, user.CreatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("user.id", id))

	user.ID = id
	return user, nil
}

// EnsureAdmin creates the admin account or refreshes its password hash,
// and returns its ID. Called on startup with credentials from the env.
func (r *Repo) EnsureAdmin(ctx context.Context, username, passwordHash string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.ensureAdmin")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO app_user
				(username, password_hash, is_admin, active_programs, split_ready_announced, created_at)
				VALUES ($1, $2, TRUE, '{}', FALSE, $3)
			ON CONFLICT (username) DO UPDATE
				SET password_hash = EXCLUDED.password_hash, is_admin = TRUE
			RETURNING id;`,
		username, passwordHash, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return 0, err
	}

	if !rows.Next() {
		return 0, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return 0, fmt.Errorf("rows scan: %w", err)
	}
	return id, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	return r.getOne(
		ctx,
		`SELECT
				id, username, password_hash, is_admin, active_programs, split_ready_announced, created_at
			FROM app_user
			WHERE id = $1;`,
		id,
	)
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByUsername")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("username", username))

	return r.getOne(
		ctx,
		`SELECT
				id, username, password_hash, is_admin, active_programs, split_ready_announced, created_at
			FROM app_user
			WHERE username = $1;`,
		username,
	)
}

func (r *Repo) getOne(ctx context.Context, query string, arg any) (*User, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrUserNotFound
	}

	var user User
	if err := rows.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin,
		&user.ActivePrograms, &user.SplitReadyAnnounced, &user.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	return &user, nil
}

// AddActiveProgram registers a program on the user profile. Adding an
// already registered program is a no-op, the set stays deduplicated.
func (r *Repo) AddActiveProgram(ctx context.Context, userID int, programID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.addActiveProgram")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("program.id", programID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE app_user
			SET active_programs = array_append(active_programs, $2)
			WHERE id = $1 AND NOT ($2 = ANY(active_programs));`,
		userID, programID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// either the user does not exist or the program is already there
		exists, err := r.exists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}
	}
	return nil
}

func (r *Repo) SetSplitReadyAnnounced(ctx context.Context, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.setSplitReadyAnnounced")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE app_user SET split_ready_announced = TRUE WHERE id = $1;`,
		userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) exists(ctx context.Context, userID int) (bool, error) {
	rows, err := r.db.Query(ctx, `SELECT 1 FROM app_user WHERE id = $1;`, userID)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return false, err
	}
	return rows.Next(), nil
}
