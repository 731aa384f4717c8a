package programs

import (
	"context"
	"errors"
	"fmt"

	"github.com/ascend-app/backend/internal/telemetry/tracing"
	"github.com/ascend-app/backend/pkg"

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

func (r *Repo) CreateProgram(ctx context.Context, program Program) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.id", program.ID))

	subPrograms := program.SubPrograms
	if subPrograms == nil {
		subPrograms = []string{}
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO program
			(id, name, description, category, is_master, sub_programs)
			VALUES ($1, $2, $3, $4, $5, $6);`,
		program.ID, program.Name, program.Description, program.Category, program.IsMaster, subPrograms,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrProgramExists
		}
		return err
	}
	return nil
}

func (r *Repo) UpdateProgram(ctx context.Context, program Program) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.id", program.ID))

	subPrograms := program.SubPrograms
	if subPrograms == nil {
		subPrograms = []string{}
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE program
			SET name = $2, description = $3, category = $4, is_master = $5, sub_programs = $6
			WHERE id = $1;`,
		program.ID, program.Name, program.Description, program.Category, program.IsMaster, subPrograms,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}

func (r *Repo) DeleteProgram(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM program WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}

func (r *Repo) GetProgram(ctx context.Context, id string) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.id", id))

	var program Program
	err = r.db.
		QueryRow(ctx, `
			SELECT id, name, description, category, is_master, sub_programs
			FROM program
			WHERE id = $1
		`, id).
		Scan(
			&program.ID, &program.Name, &program.Description,
			&program.Category, &program.IsMaster, &program.SubPrograms,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return &program, nil
}

func (r *Repo) ListPrograms(ctx context.Context) (_ []Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.listPrograms(ctx, `
		SELECT id, name, description, category, is_master, sub_programs
		FROM program
		ORDER BY id
	`)
}

// ListMasters returns all master programs, the reverse-lookup base
// for ancestor recalculation.
func (r *Repo) ListMasters(ctx context.Context) (_ []Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.listMasters")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.listPrograms(ctx, `
		SELECT id, name, description, category, is_master, sub_programs
		FROM program
		WHERE is_master
		ORDER BY id
	`)
}

func (r *Repo) listPrograms(ctx context.Context, query string) ([]Program, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var programs []Program
	for rows.Next() {
		var program Program
		if err := rows.Scan(
			&program.ID, &program.Name, &program.Description,
			&program.Category, &program.IsMaster, &program.SubPrograms,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		programs = append(programs, program)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return programs, nil
}

func (r *Repo) GetLevelRule(ctx context.Context, programID string, level int) (_ *LevelRule, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.getLevelRule")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.id", programID))
	span.SetAttributes(attribute.Int("level", level))

	rule := LevelRule{
		ProgramID: programID,
		Level:     level,
	}
	err = r.db.
		QueryRow(ctx, `
			SELECT base_session_gain, bonus_percent, required_sets_for_full_gain
			FROM program_level_rule
			WHERE program_id = $1 AND level = $2
		`, programID, level).
		Scan(&rule.BaseSessionGain, &rule.BonusPercent, &rule.RequiredSetsForFullGain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLevelRuleNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT target_program_id, multiplier
		FROM program_link
		WHERE program_id = $1 AND level = $2
		ORDER BY target_program_id
	`, programID, level)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var link LinkedProgram
		if err := rows.Scan(&link.TargetProgramID, &link.Multiplier); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		rule.LinkedPrograms = append(rule.LinkedPrograms, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &rule, nil
}

// SetLevelRule upserts the rule and replaces its linked programs in one transaction.
func (r *Repo) SetLevelRule(ctx context.Context, rule LevelRule) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.setLevelRule")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.id", rule.ProgramID))
	span.SetAttributes(attribute.Int("level", rule.Level))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
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

	_, err = tx.Exec(
		ctx,
		`INSERT INTO program_level_rule
			(program_id, level, base_session_gain, bonus_percent, required_sets_for_full_gain)
			VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (program_id, level) DO UPDATE
			SET base_session_gain = EXCLUDED.base_session_gain,
				bonus_percent = EXCLUDED.bonus_percent,
				required_sets_for_full_gain = EXCLUDED.required_sets_for_full_gain;`,
		rule.ProgramID, rule.Level, rule.BaseSessionGain, rule.BonusPercent, rule.RequiredSetsForFullGain,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrProgramNotFound
		}
		return err
	}

	_, err = tx.Exec(
		ctx,
		`DELETE FROM program_link WHERE program_id = $1 AND level = $2;`,
		rule.ProgramID, rule.Level,
	)
	if err != nil {
		return err
	}

	for _, link := range rule.LinkedPrograms {
		_, err = tx.Exec(
			ctx,
			`INSERT INTO program_link (program_id, level, target_program_id, multiplier)
				VALUES ($1, $2, $3, $4);`,
			rule.ProgramID, rule.Level, link.TargetProgramID, link.Multiplier,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Repo) CreateEquivalence(ctx context.Context, rule EquivalenceRule) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.createEquivalence")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("source.id", rule.SourceProgramID))
	span.SetAttributes(attribute.String("target.id", rule.TargetProgramID))

	var id int
	err = r.db.
		QueryRow(ctx, `
			INSERT INTO program_equivalence
				(source_program_id, source_level, target_program_id, target_level,
				target_percent, add_to_active_programs, is_enabled)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`,
			rule.SourceProgramID, rule.SourceLevel, rule.TargetProgramID, rule.TargetLevel,
			rule.TargetPercent, rule.AddToActivePrograms, rule.Enabled,
		).
		Scan(&id)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return 0, ErrProgramNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *Repo) UpdateEquivalence(ctx context.Context, rule EquivalenceRule) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.updateEquivalence")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("equivalence.id", rule.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE program_equivalence
			SET source_program_id = $2, source_level = $3, target_program_id = $4,
				target_level = $5, target_percent = $6, add_to_active_programs = $7, is_enabled = $8
			WHERE id = $1;`,
		rule.ID,
		rule.SourceProgramID, rule.SourceLevel, rule.TargetProgramID,
		rule.TargetLevel, rule.TargetPercent, rule.AddToActivePrograms, rule.Enabled,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrProgramNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEquivalenceNotFound
	}
	return nil
}

func (r *Repo) DeleteEquivalence(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.deleteEquivalence")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("equivalence.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM program_equivalence WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEquivalenceNotFound
	}
	return nil
}

// ListEquivalencesForSource returns the enabled rules firing from the given program.
func (r *Repo) ListEquivalencesForSource(ctx context.Context, sourceProgramID string) (_ []EquivalenceRule, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.listEquivalencesForSource")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("source.id", sourceProgramID))

	return r.listEquivalences(ctx, `
		SELECT id, source_program_id, source_level, target_program_id, target_level,
			target_percent, add_to_active_programs, is_enabled
		FROM program_equivalence
		WHERE source_program_id = $1 AND is_enabled
		ORDER BY source_level, target_program_id
	`, sourceProgramID)
}

func (r *Repo) ListEquivalences(ctx context.Context) (_ []EquivalenceRule, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.programs.listEquivalences")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.listEquivalences(ctx, `
		SELECT id, source_program_id, source_level, target_program_id, target_level,
			target_percent, add_to_active_programs, is_enabled
		FROM program_equivalence
		ORDER BY id
	`)
}

func (r *Repo) listEquivalences(ctx context.Context, query string, args ...any) ([]EquivalenceRule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var rules []EquivalenceRule
	for rows.Next() {
		var rule EquivalenceRule
		if err := rows.Scan(
			&rule.ID, &rule.SourceProgramID, &rule.SourceLevel,
			&rule.TargetProgramID, &rule.TargetLevel, &rule.TargetPercent,
			&rule.AddToActivePrograms, &rule.Enabled,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return rules, nil
}
