package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/healthsync/internal/ingest/csvfile"
	"github.com/claude/healthsync/internal/ingest/healthkit"
	"github.com/claude/healthsync/internal/ingest/oura"
	"github.com/claude/healthsync/internal/ingest/unified"
	"github.com/claude/healthsync/internal/ingest/withings"
	"github.com/claude/healthsync/internal/insights"
	"github.com/claude/healthsync/internal/sources"
	"github.com/claude/healthsync/internal/storage"
	"github.com/go-chi/chi/v5"
	"tailscale.com/client/local"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        *storage.DB
	unified   *unified.Provider
	healthkit *healthkit.Provider
	withings  *withings.Provider
	oura      *oura.Provider
	csv       *csvfile.Provider
	resolver  *sources.Resolver
	insights  *insights.Generator
	log       *slog.Logger
	apiKey    string
	tsClient  *local.Client
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, apiKey string, log *slog.Logger) *Server {
	resolver := sources.NewResolver(db)
	s := &Server{
		db:        db,
		unified:   unified.NewProvider(db, log),
		healthkit: healthkit.NewProvider(db, log),
		withings:  withings.NewProvider(db, log),
		oura:      oura.NewProvider(db, log),
		csv:       csvfile.NewProvider(db, log),
		resolver:  resolver,
		insights:  insights.NewGenerator(db, resolver, log),
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale enables Tailscale identity resolution for requests.
func (s *Server) SetTailscale(lc *local.Client) {
	s.tsClient = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	// Sync endpoints (API key required)
	s.router.Route("/api/v1/sync", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/metrics", s.handleSyncMetrics)
		r.Post("/healthkit", s.handleSyncHealthKit)
		r.Post("/withings", s.handleSyncWithings)
		r.Post("/oura", s.handleSyncOura)
		r.Post("/csv", s.handleSyncCSV)
	})

	// Query endpoints (identity via tsnet or dev fallback)
	s.router.Get("/api/v1/metrics", s.handleQueryMetrics)
	s.router.Get("/api/v1/metrics/latest", s.handleLatestMetrics)
	s.router.Get("/api/v1/timeseries", s.handleTimeSeries)
	s.router.Get("/api/v1/catalog", s.handleCatalog)

	// Sources and preferences
	s.router.Get("/api/v1/sources", s.handleConnectedSources)
	s.router.Get("/api/v1/preferences", s.handleGetPreferences)
	s.router.Put("/api/v1/preferences/{category}", s.handleSetPreference)

	// Goals and insights
	s.router.Route("/api/v1/goals", func(r chi.Router) {
		r.Get("/", s.handleListGoals)
		r.Post("/", s.handleCreateGoal)
		r.Put("/{id}", s.handleUpdateGoal)
		r.Delete("/{id}", s.handleDeleteGoal)
	})
	s.router.Get("/api/v1/insights", s.handleInsights)

	// Settings
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/synclogs", s.handleSyncLogs)
	s.router.Get("/api/v1/me", s.handleMe)
}
