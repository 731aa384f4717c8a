package misc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ascend-app/backend/internal/auth"
	"github.com/ascend-app/backend/internal/middleware"
	"github.com/ascend-app/backend/internal/programs"
	"github.com/ascend-app/backend/internal/telemetry/metrics"
	"github.com/ascend-app/backend/internal/telemetry/tracing"
	"github.com/ascend-app/backend/internal/users"
	"github.com/ascend-app/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=handler.go -destination=handler_mocks_test.go -package=misc

type loginService interface {
	Login(ctx context.Context, credentials auth.Credentials, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) error
}

type userRegistry interface {
	Create(ctx context.Context, username, passwordHash string) (*users.User, error)
	Get(ctx context.Context, id int) (*users.User, error)
	AddActiveProgram(ctx context.Context, userID int, programID string) error
}

type programDirectory interface {
	GetProgram(ctx context.Context, id string) (*programs.Program, error)
}

type Handler struct {
	versionInfo   string
	authService   loginService
	users         userRegistry
	catalog       programDirectory
	quotesManager *QuotesManager
}

func NewHandler(
	versionInfo string,
	authService loginService,
	users userRegistry,
	catalog programDirectory,
	quotesManager *QuotesManager,
) *Handler {
	return &Handler{
		versionInfo:   versionInfo,
		authService:   authService,
		users:         users,
		catalog:       catalog,
		quotesManager: quotesManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginRateLimitAllowedPerMin int,
	metricsManager *metrics.Manager,
) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/quote/random", handler.handleGetRandomQuote).Methods("GET").Name("quote")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")

	// profile endpoints are session gated by the auth middleware
	mainRouter.HandleFunc("/users/me", handler.handleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	mainRouter.
		HandleFunc("/users/me/programs/{programId}", handler.handleAddActiveProgram).
		Methods("POST", "OPTIONS").Name("add-active-program")

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("POST", "OPTIONS").Name("logout")
	loginSubrouter.
		HandleFunc("/register", handler.handleRegister).
		Methods("POST", "OPTIONS").Name("register")

	// rate limit the account endpoints to prevent abuse
	loginSubrouter.Use(middleware.RateLimit(rateLimiter, metricsManager, "login", loginRateLimitAllowedPerMin))
	loginSubrouter.Use(middleware.Cors())
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleGetRandomQuote(w http.ResponseWriter, _ *http.Request) {
	quote := handler.quotesManager.RandomQuote()
	quoteJson, err := json.Marshal(quote)
	if err != nil {
		log.Errorf("marshal quote: %s", err)
		http.Error(w, "failed to get quote", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, quoteJson, http.StatusOK)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// readCredentials accepts both a JSON body and a classic form post
func readCredentials(r *http.Request) (credentialsRequest, error) {
	var credsReq credentialsRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&credsReq); err != nil {
			return credentialsRequest{}, fmt.Errorf("unmarshal json params: %w", err)
		}
		return credsReq, nil
	}

	if err := r.ParseForm(); err != nil {
		return credentialsRequest{}, fmt.Errorf("parse form: %w", err)
	}
	return credentialsRequest{
		Username: r.Form.Get("username"),
		Password: r.Form.Get("password"),
	}, nil
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	credsReq, err := readCredentials(r)
	if err != nil {
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	if credsReq.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if credsReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, err := handler.authService.Login(ctx, auth.Credentials{
		Username: credsReq.Username,
		Password: credsReq.Password,
	}, time.Now())
	switch {
	case errors.Is(err, auth.ErrWrongUsername), errors.Is(err, auth.ErrWrongPassword):
		log.Tracef("failed login attempt for user: %s", credsReq.Username)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get("X-ASCEND-TOKEN")
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := handler.authService.Logout(ctx, authToken); err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	log.Printf("logout for [%s] success", authToken)
	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.register")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	credsReq, err := readCredentials(r)
	if err != nil {
		log.Errorf("register failed: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	if credsReq.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if len(credsReq.Password) < 8 {
		http.Error(w, "error, password too short", http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(credsReq.Password)
	if err != nil {
		log.Errorf("register failed, hash password: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	user, err := handler.users.Create(ctx, credsReq.Username, passwordHash)
	switch {
	case errors.Is(err, users.ErrUsernameTaken):
		http.Error(w, "error, username taken", http.StatusConflict)
		return
	case err != nil:
		log.Errorf("register failed, create user: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new user registered: %s", user.Username)
	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("register failed, marshal user: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusCreated)
}

func (handler *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.getProfile")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := handler.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("get profile, user %d: %s", userID, err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("get profile, marshal user: %s", err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusOK)
}

// handleAddActiveProgram registers a catalog program on the user profile.
// Re-adding a registered program is fine, the set stays deduplicated.
func (handler *Handler) handleAddActiveProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.addActiveProgram")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	programID := mux.Vars(r)["programId"]
	if programID == "" {
		http.Error(w, "error, program id empty", http.StatusBadRequest)
		return
	}

	if _, err := handler.catalog.GetProgram(ctx, programID); err != nil {
		if errors.Is(err, programs.ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("add active program, get program %s: %s", programID, err)
		http.Error(w, "failed to add active program", http.StatusInternalServerError)
		return
	}

	if err := handler.users.AddActiveProgram(ctx, userID, programID); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("add active program %s, user %d: %s", programID, userID, err)
		http.Error(w, "failed to add active program", http.StatusInternalServerError)
		return
	}

	user, err := handler.users.Get(ctx, userID)
	if err != nil {
		log.Errorf("add active program, get user %d: %s", userID, err)
		http.Error(w, "failed to add active program", http.StatusInternalServerError)
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("add active program, marshal user: %s", err)
		http.Error(w, "failed to add active program", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusOK)
}
