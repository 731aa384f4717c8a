package progression

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ascend-app/backend/internal/auth"
	"github.com/ascend-app/backend/internal/programs"
	"github.com/ascend-app/backend/internal/telemetry/tracing"
	"github.com/ascend-app/backend/internal/users"
	"github.com/ascend-app/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=handler.go -destination=handler_mocks_test.go -package=progression

type completionService interface {
	ProcessWorkoutCompletion(ctx context.Context, userID int, programID string, exercises []ExerciseResult, completedAt time.Time) (*CompletionResult, error)
	GetTrack(ctx context.Context, userID int, programID string) (*Track, error)
	ListTracks(ctx context.Context, userID int) ([]Track, error)
	Summary(ctx context.Context, userID int) (*UserSummary, error)
}

// WorkoutRequest is the payload of a workout completion submission.
// CompletedAt is optional and defaults to the submission time.
type WorkoutRequest struct {
	ProgramID   string           `json:"programId"`
	Exercises   []ExerciseResult `json:"exercises"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
}

type Handler struct {
	service completionService
}

func NewHandler(service completionService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.completeWorkout")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var request WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Tracef("complete workout, unmarshal json params: %s", err)
		http.Error(w, "complete workout failed", http.StatusBadRequest)
		return
	}
	if request.ProgramID == "" {
		http.Error(w, "error, program id empty", http.StatusBadRequest)
		return
	}
	if len(request.Exercises) == 0 {
		http.Error(w, "error, no exercises", http.StatusBadRequest)
		return
	}

	completedAt := time.Now()
	if request.CompletedAt != nil {
		completedAt = *request.CompletedAt
	}

	result, err := handler.service.ProcessWorkoutCompletion(ctx, userID, request.ProgramID, request.Exercises, completedAt)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		case errors.Is(err, programs.ErrProgramNotFound):
			http.Error(w, "program not found", http.StatusNotFound)
		default:
			log.Errorf("complete workout, user %d program %s: %s", userID, request.ProgramID, err)
			http.Error(w, "complete workout failed", http.StatusInternalServerError)
		}
		return
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("complete workout, marshal result: %s", err)
		http.Error(w, "complete workout failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusOK)
}

func (handler *Handler) HandleGetTracks(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.getTracks")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	tracks, err := handler.service.ListTracks(ctx, userID)
	if err != nil {
		log.Errorf("get tracks, user %d: %s", userID, err)
		http.Error(w, "failed to get tracks", http.StatusInternalServerError)
		return
	}
	if tracks == nil {
		tracks = []Track{}
	}

	tracksJson, err := json.Marshal(tracks)
	if err != nil {
		log.Errorf("get tracks, marshal: %s", err)
		http.Error(w, "failed to get tracks", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, tracksJson, http.StatusOK)
}

func (handler *Handler) HandleGetTrack(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.getTrack")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	programID := vars["programId"]
	if programID == "" {
		http.Error(w, "error, program id empty", http.StatusBadRequest)
		return
	}

	track, err := handler.service.GetTrack(ctx, userID, programID)
	if err != nil {
		if errors.Is(err, ErrTrackNotFound) {
			http.Error(w, "track not found", http.StatusNotFound)
			return
		}
		log.Errorf("get track %s, user %d: %s", programID, userID, err)
		http.Error(w, "failed to get track", http.StatusInternalServerError)
		return
	}

	trackJson, err := json.Marshal(track)
	if err != nil {
		log.Errorf("get track, marshal: %s", err)
		http.Error(w, "failed to get track", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, trackJson, http.StatusOK)
}

func (handler *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.getSummary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	summary, err := handler.service.Summary(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("get summary, user %d: %s", userID, err)
		http.Error(w, "failed to get summary", http.StatusInternalServerError)
		return
	}

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("get summary, marshal: %s", err)
		http.Error(w, "failed to get summary", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, summaryJson, http.StatusOK)
}
