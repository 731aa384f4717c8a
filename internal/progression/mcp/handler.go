package mcp

import (
	"context"
	"encoding/json"

	"github.com/ascend-app/backend/internal/progression"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

// NewHandler builds a handler with the given service.
func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// GetProgressionContextTool returns the MCP tool handler for get_progression_context.
func (h *Handler) GetProgressionContextTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching schema: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// ProgramCatalogInput is the input for get_program_catalog.
type ProgramCatalogInput struct {
	ProgramID string `json:"program_id,omitempty" jsonschema:"Program id (e.g. push). When set, returns that program plus its equivalence rules; otherwise the whole catalog"`
}

// GetProgramCatalogTool returns the MCP tool handler for get_program_catalog.
func (h *Handler) GetProgramCatalogTool() func(context.Context, *mcp.CallToolRequest, ProgramCatalogInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ProgramCatalogInput) (*mcp.CallToolResult, any, error) {
		var payload any
		var err error
		if in.ProgramID == "" {
			payload, err = h.service.ListCatalog(ctx)
		} else {
			payload, err = h.service.GetProgramDetails(ctx, in.ProgramID)
		}
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching program catalog: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}

// UserTracksInput is the input for get_user_tracks.
type UserTracksInput struct {
	UserID int `json:"user_id" jsonschema:"User id to fetch progress tracks for"`
}

// GetUserTracksTool returns the MCP tool handler for get_user_tracks.
func (h *Handler) GetUserTracksTool() func(context.Context, *mcp.CallToolRequest, UserTracksInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserTracksInput) (*mcp.CallToolResult, any, error) {
		if in.UserID <= 0 {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid user_id: must be a positive integer"}},
				IsError: true,
			}, nil, nil
		}
		tracks, err := h.service.GetUserTracks(ctx, in.UserID)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching user tracks: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(tracks, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}

// PreviewExerciseInput is one exercise of a hypothetical session.
type PreviewExerciseInput struct {
	ExerciseID    string         `json:"exercise_id" jsonschema:"Exercise id (e.g. diamond_pushup)"`
	Category      string         `json:"category,omitempty" jsonschema:"Exercise category: warmup, skill, strength, conditioning, stretch (warmup and stretch never count)"`
	SetsCompleted int            `json:"sets_completed" jsonschema:"Number of sets performed"`
	RepsPerSet    []int          `json:"reps_per_set,omitempty" jsonschema:"Reps achieved per set"`
	TargetReps    int            `json:"target_reps,omitempty" jsonschema:"Target reps per set at this level"`
	ProgramLevels map[string]int `json:"program_levels,omitempty" jsonschema:"Programs this exercise counts toward, with the level it was performed at"`
}

// PreviewSessionGainInput is the input for preview_session_gain.
type PreviewSessionGainInput struct {
	ProgramID string                 `json:"program_id" jsonschema:"Primary program id (e.g. push)"`
	Level     int                    `json:"level" jsonschema:"Current level on the primary program (>= 1)"`
	Exercises []PreviewExerciseInput `json:"exercises" jsonschema:"Exercises of the hypothetical session"`
}

// PreviewSessionGainTool returns the MCP tool handler for preview_session_gain.
func (h *Handler) PreviewSessionGainTool() func(context.Context, *mcp.CallToolRequest, PreviewSessionGainInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in PreviewSessionGainInput) (*mcp.CallToolResult, any, error) {
		if in.ProgramID == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid program_id: must not be empty"}},
				IsError: true,
			}, nil, nil
		}
		if in.Level < 1 {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid level: must be >= 1"}},
				IsError: true,
			}, nil, nil
		}
		if len(in.Exercises) == 0 {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid exercises: at least one exercise required"}},
				IsError: true,
			}, nil, nil
		}

		workout := make([]progression.ExerciseResult, 0, len(in.Exercises))
		for _, e := range in.Exercises {
			workout = append(workout, progression.ExerciseResult{
				ExerciseID:    e.ExerciseID,
				Category:      e.Category,
				ProgramLevels: e.ProgramLevels,
				SetsCompleted: e.SetsCompleted,
				RepsPerSet:    e.RepsPerSet,
				TargetReps:    e.TargetReps,
			})
		}

		preview, err := h.service.PreviewSessionGain(ctx, in.ProgramID, in.Level, workout)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error previewing session gain: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(preview, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}
