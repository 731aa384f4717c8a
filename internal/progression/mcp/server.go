package mcp

import (
	"github.com/ascend-app/backend/internal/programs"
	"github.com/ascend-app/backend/internal/progression"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with progression tools: schema, program
// catalog, user tracks, session gain preview.
// Used by the main backend when mounting MCP at /mcp (internal/server).
func NewServer(pool *pgxpool.Pool, catalog *programs.Catalog, tracks *progression.Repo) *mcp.Server {
	svc := NewContextService(NewPoolSchemaRepo(pool), catalog, tracks)
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "progression-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progression_context",
		Description: "Returns the DB schema for progression-related tables (program, program_level_rule, program_link, program_equivalence, progress_track, app_user): table names, columns, types, nullable, default. Use when developing the app and you need the actual backend schema.",
	}, h.GetProgressionContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_program_catalog",
		Description: "Returns the program catalog: leaf progressions and master programs with their sub-programs. Optional: program_id (e.g. push) to get one program plus the equivalence rules it can fire. Use when you need the available programs or how they relate.",
	}, h.GetProgramCatalogTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_user_tracks",
		Description: "Returns all progress tracks of a user: program, current level, percent to next level, total sessions, last activity. Arg: user_id. Use when you need a user's current progression state.",
	}, h.GetUserTracksTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "preview_session_gain",
		Description: "Dry-runs the gain a session would yield on a program at a level: effective rule (authored or default), volume and performance ratios, base and bonus gain, linked programs that would profit. Args: program_id, level, exercises (exercise_id, category, sets_completed, reps_per_set, target_reps, program_levels). Nothing is persisted. Use when tuning level rules or explaining progression math.",
	}, h.PreviewSessionGainTool())

	return s
}
