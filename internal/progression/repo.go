package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ascend-app/backend/internal/db"
	"github.com/ascend-app/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrTrackNotFound = errors.New("track not found")

// TrackTx is the slice of the track store that engine stages write
// through. Inside InUserTx it is bound to the transaction, so every
// read and write of one phase sees one consistent snapshot.
type TrackTx interface {
	GetTrack(ctx context.Context, userID int, programID string) (*Track, error)
	UpsertTracks(ctx context.Context, userID int, tracks []Track) error
}

// querier is satisfied by both pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type trackSQL struct {
	q querier
}

// Repo reads tracks straight off the pool; mutations go through InUserTx
// so all writes for one user are serialized behind the advisory lock.
type Repo struct {
	trackSQL
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		trackSQL: trackSQL{q: db},
		db:       db,
	}
}

// InUserTx runs fn in a transaction holding the per-user advisory lock.
// The lock serializes concurrent workout submissions for the same user,
// so read-modify-write on their tracks cannot lose updates.
func (r *Repo) InUserTx(ctx context.Context, userID int, fn func(ctx context.Context, tracks TrackTx) error) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.inUserTx")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin user tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if err = db.AcquireUserLock(ctx, tx, userID); err != nil {
		return err
	}

	err = fn(ctx, &trackSQL{q: tx})
	return err
}

func (s *trackSQL) GetTrack(ctx context.Context, userID int, programID string) (_ *Track, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.getTrack")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.id", programID))

	var track Track
	var lastActivityAt *time.Time
	err = s.q.QueryRow(
		ctx,
		`SELECT program_id, current_level, percent, total_sessions_completed, last_activity_at
			FROM progress_track
			WHERE user_id = $1 AND program_id = $2`,
		userID, programID,
	).Scan(
		&track.ProgramID,
		&track.CurrentLevel,
		&track.Percent,
		&track.TotalSessionsCompleted,
		&lastActivityAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("get track: %w", err)
	}

	track.LastActivityAt = lastActivityAt
	return &track, nil
}

func (s *trackSQL) ListTracks(ctx context.Context, userID int) (_ []Track, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.listTracks")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := s.q.Query(
		ctx,
		`SELECT program_id, current_level, percent, total_sessions_completed, last_activity_at
			FROM progress_track
			WHERE user_id = $1
			ORDER BY program_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var track Track
		var lastActivityAt *time.Time
		if err := rows.Scan(
			&track.ProgramID,
			&track.CurrentLevel,
			&track.Percent,
			&track.TotalSessionsCompleted,
			&lastActivityAt,
		); err != nil {
			return nil, fmt.Errorf("scan track row: %w", err)
		}
		track.LastActivityAt = lastActivityAt
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("track rows: %w", err)
	}

	return tracks, nil
}

func (s *trackSQL) UpsertTracks(ctx context.Context, userID int, tracks []Track) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.upsertTracks")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.Int("tracks", len(tracks)))

	for _, track := range tracks {
		if _, err := s.q.Exec(
			ctx,
			`INSERT INTO progress_track
				(user_id, program_id, current_level, percent, total_sessions_completed, last_activity_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, now())
			ON CONFLICT (user_id, program_id) DO UPDATE
				SET current_level = EXCLUDED.current_level,
					percent = EXCLUDED.percent,
					total_sessions_completed = EXCLUDED.total_sessions_completed,
					last_activity_at = EXCLUDED.last_activity_at,
					updated_at = now()`,
			userID,
			track.ProgramID,
			track.CurrentLevel,
			track.Percent,
			track.TotalSessionsCompleted,
			track.LastActivityAt,
		); err != nil {
			return fmt.Errorf("upsert track %s: %w", track.ProgramID, err)
		}
	}

	return nil
}
