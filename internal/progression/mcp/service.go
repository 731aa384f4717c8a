package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ascend-app/backend/internal/programs"
	"github.com/ascend-app/backend/internal/progression"
)

// CatalogRepo provides program catalog data (for dependency injection and testing).
type CatalogRepo interface {
	ListPrograms(ctx context.Context) ([]programs.Program, error)
	GetProgram(ctx context.Context, id string) (*programs.Program, error)
	GetLevelRule(ctx context.Context, programID string, level int) (*programs.LevelRule, error)
	ListEquivalencesForSource(ctx context.Context, sourceProgramID string) ([]programs.EquivalenceRule, error)
}

// tracksRepo provides user progress tracks (for dependency injection and testing).
type tracksRepo interface {
	ListTracks(ctx context.Context, userID int) ([]progression.Track, error)
}

// contextService provides progression context data (schema, catalog, tracks, gain previews).
// Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListCatalog(ctx context.Context) ([]programs.Program, error)
	GetProgramDetails(ctx context.Context, programID string) (*ProgramDetails, error)
	GetUserTracks(ctx context.Context, userID int) ([]progression.Track, error)
	PreviewSessionGain(ctx context.Context, programID string, level int, workout []progression.ExerciseResult) (*GainPreview, error)
}

// ProgramDetails is one catalog program together with the equivalence rules
// it can fire as a source.
type ProgramDetails struct {
	Program      programs.Program           `json:"program"`
	Equivalences []programs.EquivalenceRule `json:"equivalences,omitempty"`
}

// GainPreview shows what one hypothetical session would yield on a program:
// the effective rule, the gain breakdown, and the programs that would profit
// through links. Nothing is persisted.
type GainPreview struct {
	ProgramID  string                      `json:"programId"`
	Level      int                         `json:"level"`
	RuleSource string                      `json:"ruleSource"`
	Rule       programs.LevelRule          `json:"rule"`
	Gain       progression.SessionGain     `json:"gain"`
	Links      []progression.ProgramLink   `json:"links,omitempty"`
	Volume     progression.VolumeBreakdown `json:"volume"`
}

// ContextService holds dependencies and implements the progression context business logic.
type ContextService struct {
	schema  SchemaRepo
	catalog CatalogRepo
	tracks  tracksRepo
}

// NewContextService builds a ContextService with the given dependencies.
func NewContextService(schemaRepo SchemaRepo, catalogRepo CatalogRepo, tracksRepo tracksRepo) *ContextService {
	return &ContextService{
		schema:  schemaRepo,
		catalog: catalogRepo,
		tracks:  tracksRepo,
	}
}

// GetSchema returns the DB schema (table names, columns, types) for progression-related
// tables: program, program_level_rule, program_link, program_equivalence, progress_track, app_user.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetProgressionColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatProgressionSchema(cols), nil
}

func formatProgressionSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Progression DB Schema\n\nNo progression tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Progression DB Schema\n\n")
	b.WriteString("Tables: program, program_level_rule, program_link, program_equivalence, progress_track, app_user (schema: public).\n\n")

	for _, tableName := range tableOrder {
		tableCols := byTable[tableName]
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range tableCols {
			def := "—"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// ListCatalog returns all catalog programs, leaves and masters.
func (s *ContextService) ListCatalog(ctx context.Context) ([]programs.Program, error) {
	return s.catalog.ListPrograms(ctx)
}

// GetProgramDetails returns one program and the equivalence rules it sources.
func (s *ContextService) GetProgramDetails(ctx context.Context, programID string) (*ProgramDetails, error) {
	program, err := s.catalog.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	equivalences, err := s.catalog.ListEquivalencesForSource(ctx, programID)
	if err != nil {
		return nil, err
	}
	return &ProgramDetails{
		Program:      *program,
		Equivalences: equivalences,
	}, nil
}

// GetUserTracks returns all progress tracks of the given user.
func (s *ContextService) GetUserTracks(ctx context.Context, userID int) ([]progression.Track, error) {
	tracks, err := s.tracks.ListTracks(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tracks == nil {
		tracks = []progression.Track{}
	}
	return tracks, nil
}

// PreviewSessionGain computes the gain a hypothetical session would yield at
// the given level, using the authored rule or the built-in defaults on a miss.
// Pure dry run, no tracks are touched.
func (s *ContextService) PreviewSessionGain(ctx context.Context, programID string, level int, workout []progression.ExerciseResult) (*GainPreview, error) {
	if _, err := s.catalog.GetProgram(ctx, programID); err != nil {
		return nil, err
	}

	ruleSource := "authored"
	rule, err := s.catalog.GetLevelRule(ctx, programID, level)
	switch {
	case errors.Is(err, programs.ErrLevelRuleNotFound):
		fallback := programs.DefaultLevelRule(programID, level)
		rule = &fallback
		ruleSource = "default"
	case err != nil:
		return nil, err
	}

	counted := progression.CountedExercises(workout)
	return &GainPreview{
		ProgramID:  programID,
		Level:      level,
		RuleSource: ruleSource,
		Rule:       *rule,
		Gain:       progression.CalculateSessionGain(*rule, counted),
		Links:      progression.ResolveLinks(programID, *rule, counted),
		Volume:     progression.BreakdownVolume(workout),
	}, nil
}
