package programs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ascend-app/backend/internal/auth"
	"github.com/ascend-app/backend/internal/telemetry/tracing"
	"github.com/ascend-app/backend/internal/users"
	"github.com/ascend-app/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=handler.go -destination=handler_mocks_test.go -package=programs

type programsCatalog interface {
	GetProgram(ctx context.Context, id string) (*Program, error)
	ListPrograms(ctx context.Context) ([]Program, error)
	CreateProgram(ctx context.Context, program Program) error
	UpdateProgram(ctx context.Context, program Program) error
	DeleteProgram(ctx context.Context, id string) error
	GetLevelRule(ctx context.Context, programID string, level int) (*LevelRule, error)
	SetLevelRule(ctx context.Context, rule LevelRule) error
	CreateEquivalence(ctx context.Context, rule EquivalenceRule) (int, error)
	UpdateEquivalence(ctx context.Context, rule EquivalenceRule) error
	DeleteEquivalence(ctx context.Context, id int) error
	ListEquivalences(ctx context.Context) ([]EquivalenceRule, error)
}

type userDirectory interface {
	Get(ctx context.Context, id int) (*users.User, error)
}

type ResolvedLevelRuleResponse struct {
	LevelRule
	// Source tells whether the rule was authored or is the built-in default.
	Source string `json:"source"`
}

type DeletedResponse struct {
	DeletedID string `json:"deletedId"`
}

type CreatedEquivalenceResponse struct {
	ID int `json:"id"`
}

type Handler struct {
	catalog programsCatalog
	users   userDirectory
}

func NewHandler(catalog programsCatalog, users userDirectory) *Handler {
	return &Handler{
		catalog: catalog,
		users:   users,
	}
}

// requireAdmin resolves the session user and checks the admin flag.
// Writes the error response itself and returns false when the request
// must not proceed.
func (handler *Handler) requireAdmin(ctx context.Context, w http.ResponseWriter) bool {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusForbidden)
		return false
	}
	user, err := handler.users.Get(ctx, userID)
	if err != nil {
		log.Errorf("admin check, get user %d: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return false
	}
	if !user.IsAdmin {
		http.Error(w, "no can do", http.StatusForbidden)
		return false
	}
	return true
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.list")
	defer span.End()

	programs, err := handler.catalog.ListPrograms(ctx)
	if err != nil {
		log.Errorf("failed to list programs: %s", err)
		http.Error(w, "failed to list programs", http.StatusInternalServerError)
		return
	}
	if programs == nil {
		programs = []Program{}
	}

	programsJson, err := json.Marshal(programs)
	if err != nil {
		log.Errorf("failed to marshal programs: %s", err)
		http.Error(w, "failed to list programs", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, programsJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.get")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	program, err := handler.catalog.GetProgram(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get program %s: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	programJson, err := json.Marshal(program)
	if err != nil {
		log.Errorf("failed to marshal program: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, programJson, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.create")
	defer span.End()

	if !handler.requireAdmin(ctx, w) {
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var program Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		log.Tracef("new program, unmarshal json params: %s", err)
		http.Error(w, "add program failed", http.StatusBadRequest)
		return
	}

	if err := program.Validate(); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.catalog.CreateProgram(ctx, program); err != nil {
		if errors.Is(err, ErrProgramExists) {
			http.Error(w, "error, program already exists", http.StatusConflict)
			return
		}
		log.Errorf("failed to add program [%s]: %s", program.ID, err)
		http.Error(w, "error, failed to add program", http.StatusInternalServerError)
		return
	}

	log.Debugf("new program added: %s", program.ID)
	programJson, err := json.Marshal(program)
	if err != nil {
		log.Errorf("failed to marshal new program: %s", err)
		http.Error(w, "error, failed to add program", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, programJson, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.update")
	defer span.End()

	if !handler.requireAdmin(ctx, w) {
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var program Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		log.Tracef("update program, unmarshal json params: %s", err)
		http.Error(w, "update program failed", http.StatusBadRequest)
		return
	}
	program.ID = id

	if err := program.Validate(); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.catalog.UpdateProgram(ctx, program); err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update program [%s]: %s", id, err)
		http.Error(w, "error, failed to update program", http.StatusInternalServerError)
		return
	}

	programJson, err := json.Marshal(program)
	if err != nil {
		log.Errorf("failed to marshal updated program: %s", err)
		http.Error(w, "error, failed to update program", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, programJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.delete")
	defer span.End()

	if !handler.requireAdmin(ctx, w) {
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.catalog.DeleteProgram(ctx, id); err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete program [%s]: %s", id, err)
		http.Error(w, "error, failed to delete program", http.StatusInternalServerError)
		return
	}

	deletedJson, err := json.Marshal(DeletedResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "error, failed to delete program", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, deletedJson, http.StatusOK)
}

// HandleGetLevelRule returns the effective rule for (program, level):
// the authored one when present, the built-in default otherwise.
func (handler *Handler) HandleGetLevelRule(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.getLevelRule")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	level, err := strconv.Atoi(vars["level"])
	if err != nil {
		http.Error(w, "error, level NaN", http.StatusBadRequest)
		return
	}
	if level < 1 {
		http.Error(w, "error, level must be >= 1", http.StatusBadRequest)
		return
	}

	resolved := ResolvedLevelRuleResponse{Source: "authored"}
	rule, err := handler.catalog.GetLevelRule(ctx, id, level)
	switch {
	case errors.Is(err, ErrLevelRuleNotFound):
		resolved.LevelRule = DefaultLevelRule(id, level)
		resolved.Source = "default"
	case err != nil:
		log.Errorf("failed to get level rule [%s/%d]: %s", id, level, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	default:
		resolved.LevelRule = *rule
	}

	resolvedJson, err := json.Marshal(resolved)
	if err != nil {
		log.Errorf("failed to marshal level rule: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resolvedJson, http.StatusOK)
}

func (handler *Handler) HandleSetLevelRule(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.setLevelRule")
	defer span.End()

	if !handler.requireAdmin(ctx, w) {
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	level, err := strconv.Atoi(vars["level"])
	if err != nil {
		http.Error(w, "error, level NaN", http.StatusBadRequest)
		return
	}

	var rule LevelRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		log.Tracef("set level rule, unmarshal json params: %s", err)
		http.Error(w, "set level rule failed", http.StatusBadRequest)
		return
	}
	rule.ProgramID = id
	rule.Level = level

	if err := rule.Validate(); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.catalog.SetLevelRule(ctx, rule); err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to set level rule [%s/%d]: %s", id, level, err)
		http.Error(w, "error, failed to set level rule", http.StatusInternalServerError)
		return
	}

	ruleJson, err := json.Marshal(rule)
	if err != nil {
		log.Errorf("failed to marshal level rule: %s", err)
		http.Error(w, "error, failed to set level rule", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, ruleJson, http.StatusOK)
}

func (handler *Handler) HandleListEquivalences(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.listEquivalences")
	defer span.End()

	rules, err := handler.catalog.ListEquivalences(ctx)
	if err != nil {
		log.Errorf("failed to list equivalences: %s", err)
		http.Error(w, "failed to list equivalences", http.StatusInternalServerError)
		return
	}
	if rules == nil {
		rules = []EquivalenceRule{}
	}

	rulesJson, err := json.Marshal(rules)
	if err != nil {
		log.Errorf("failed to marshal equivalences: %s", err)
		http.Error(w, "failed to list equivalences", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, rulesJson, http.StatusOK)
}

func (handler *Handler) HandleCreateEquivalence(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.createEquivalence")
	defer span.End()

	if !handler.requireAdmin(ctx, w) {
		return
	}

	var rule EquivalenceRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		log.Tracef("new equivalence, unmarshal json params: %s", err)
		http.Error(w, "add equivalence failed", http.StatusBadRequest)
		return
	}

	if err := rule.Validate(); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	id, err := handler.catalog.CreateEquivalence(ctx, rule)
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to add equivalence [%s -> %s]: %s", rule.SourceProgramID, rule.TargetProgramID, err)
		http.Error(w, "error, failed to add equivalence", http.StatusInternalServerError)
		return
	}

	createdJson, err := json.Marshal(CreatedEquivalenceResponse{ID: id})
	if err != nil {
		log.Errorf("failed to marshal equivalence response: %s", err)
		http.Error(w, "error, failed to add equivalence", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, createdJson, http.StatusCreated)
}

func (handler *Handler) HandleUpdateEquivalence(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.updateEquivalence")
	defer span.End()

	if !handler.requireAdmin(ctx, w) {
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	var rule EquivalenceRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		log.Tracef("update equivalence, unmarshal json params: %s", err)
		http.Error(w, "update equivalence failed", http.StatusBadRequest)
		return
	}
	rule.ID = id

	if err := rule.Validate(); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.catalog.UpdateEquivalence(ctx, rule); err != nil {
		if errors.Is(err, ErrEquivalenceNotFound) {
			http.Error(w, "equivalence not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update equivalence %d: %s", id, err)
		http.Error(w, "error, failed to update equivalence", http.StatusInternalServerError)
		return
	}

	ruleJson, err := json.Marshal(rule)
	if err != nil {
		log.Errorf("failed to marshal equivalence: %s", err)
		http.Error(w, "error, failed to update equivalence", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, ruleJson, http.StatusOK)
}

func (handler *Handler) HandleDeleteEquivalence(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.programs.deleteEquivalence")
	defer span.End()

	if !handler.requireAdmin(ctx, w) {
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.catalog.DeleteEquivalence(ctx, id); err != nil {
		if errors.Is(err, ErrEquivalenceNotFound) {
			http.Error(w, "equivalence not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete equivalence %d: %s", id, err)
		http.Error(w, "error, failed to delete equivalence", http.StatusInternalServerError)
		return
	}

	deletedJson, err := json.Marshal(CreatedEquivalenceResponse{ID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "error, failed to delete equivalence", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, deletedJson, http.StatusOK)
}
