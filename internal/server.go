package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ascend-app/backend/internal/auth"
	"github.com/ascend-app/backend/internal/config"
	"github.com/ascend-app/backend/internal/db"
	"github.com/ascend-app/backend/internal/middleware"
	"github.com/ascend-app/backend/internal/misc"
	"github.com/ascend-app/backend/internal/programs"
	"github.com/ascend-app/backend/internal/progression"
	progressionmcp "github.com/ascend-app/backend/internal/progression/mcp"
	"github.com/ascend-app/backend/internal/telemetry/metrics"
	metricsmiddleware "github.com/ascend-app/backend/internal/telemetry/metrics/middleware"
	"github.com/ascend-app/backend/internal/telemetry/tracing"
	"github.com/ascend-app/backend/internal/users"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/coocood/freecache"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	mcpSecret         string // used by MCP clients instead of a session token
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	usersRepo          *users.Repo
	catalog            *programs.Catalog
	tracksRepo         *progression.Repo
	progressionService *progression.Service

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	McpSecret               string
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "ascend_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // will be set to 1 when all is set and ran

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	usersRepo := users.NewRepo(dbPool)
	if params.AdminUsername != "" && params.AdminPasswordHash != "" {
		adminID, err := usersRepo.EnsureAdmin(ctx, params.AdminUsername, params.AdminPasswordHash)
		if err != nil {
			return nil, fmt.Errorf("ensure admin account: %w", err)
		}
		log.Debugf("admin account ready [id %d]", adminID)
	}

	authService := auth.NewAuthService(usersRepo, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "ascend-backend", rdb)
	if err != nil {
		return nil, err
	}

	catalogCache := freecache.NewCache(params.Config.CatalogCacheSizeMB * 1024 * 1024)
	catalog := programs.NewCatalog(
		programs.NewRepo(dbPool),
		catalogCache,
		time.Duration(params.Config.CatalogCacheTTLMinutes)*time.Minute,
	)

	tracksRepo := progression.NewRepo(dbPool)
	splitConfig := progression.DefaultSplitConfig()
	if params.Config.SplitReadyLevel > 0 {
		splitConfig.ReadyLevel = params.Config.SplitReadyLevel
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		mcpSecret:   params.McpSecret,
		versionInfo: params.VersionInfo,

		usersRepo:          usersRepo,
		catalog:            catalog,
		tracksRepo:         tracksRepo,
		progressionService: progression.NewService(catalog, usersRepo, tracksRepo, splitConfig, metricsManager),

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.versionInfo, s.authService, s.usersRepo, s.catalog, misc.NewQuotesManager())
	miscHandler.SetupRoutes(r, reqRateLimiter, s.config.LoginRateLimitAllowedPerMin, s.metricsManager)

	// equivalence routes go before /programs/{id} so the literal segment
	// is not swallowed by the id matcher
	programsHandler := programs.NewHandler(s.catalog, s.usersRepo)
	r.HandleFunc("/programs", programsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-programs")
	r.HandleFunc("/programs", programsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-program")
	r.HandleFunc("/programs/equivalence", programsHandler.HandleListEquivalences).Methods("GET", "OPTIONS").Name("list-equivalences")
	r.HandleFunc("/programs/equivalence", programsHandler.HandleCreateEquivalence).Methods("POST", "OPTIONS").Name("new-equivalence")
	r.HandleFunc("/programs/equivalence/{id}", programsHandler.HandleUpdateEquivalence).Methods("PUT", "OPTIONS").Name("update-equivalence")
	r.HandleFunc("/programs/equivalence/{id}", programsHandler.HandleDeleteEquivalence).Methods("DELETE", "OPTIONS").Name("remove-equivalence")
	r.HandleFunc("/programs/{id}", programsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-program")
	r.HandleFunc("/programs/{id}", programsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-program")
	r.HandleFunc("/programs/{id}", programsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-program")
	r.HandleFunc("/programs/{id}/rules/{level}", programsHandler.HandleGetLevelRule).Methods("GET", "OPTIONS").Name("get-level-rule")
	r.HandleFunc("/programs/{id}/rules/{level}", programsHandler.HandleSetLevelRule).Methods("PUT", "OPTIONS").Name("set-level-rule")

	progressionHandler := progression.NewHandler(s.progressionService)
	workoutSubrouter := r.PathPrefix("/progression/workout").Subrouter()
	workoutSubrouter.HandleFunc("", progressionHandler.HandleCompleteWorkout).Methods("POST", "OPTIONS").Name("complete-workout")
	workoutSubrouter.Use(middleware.RateLimit(
		reqRateLimiter, s.metricsManager, "workout", s.config.WorkoutRateLimitAllowedPerMin,
	))
	r.HandleFunc("/progression/tracks", progressionHandler.HandleGetTracks).Methods("GET", "OPTIONS").Name("get-tracks")
	r.HandleFunc("/progression/tracks/{programId}", progressionHandler.HandleGetTrack).Methods("GET", "OPTIONS").Name("get-track")
	r.HandleFunc("/progression/summary", progressionHandler.HandleGetSummary).Methods("GET", "OPTIONS").Name("get-summary")

	// progression MCP tools, same server as the stdio cmd, mounted over
	// streamable HTTP; auth middleware checks X-MCP-Secret for this path
	mcpServer := progressionmcp.NewServer(s.dbPool, s.catalog, s.tracksRepo)
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	r.Handle("/mcp", mcpHandler).Methods("GET", "POST", "DELETE").Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.mcpSecret,
		s.loginChecker,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metricsmiddleware.
		New(s.promRegistry, nil).
		WrapHandler("/metrics", promhttp.HandlerFor(
			s.promRegistry,
			promhttp.HandlerOpts{}),
		))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
