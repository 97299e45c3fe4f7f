package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/statlive/matchview-ui/internal/clickhouse"
	"github.com/statlive/matchview-ui/internal/config"
	"github.com/statlive/matchview-ui/internal/content"
	"github.com/statlive/matchview-ui/internal/dal"
	"github.com/statlive/matchview-ui/internal/handlers"
	"github.com/statlive/matchview-ui/internal/logger"
	"github.com/statlive/matchview-ui/internal/models"
	"github.com/statlive/matchview-ui/internal/pubsub"
	"github.com/statlive/matchview-ui/internal/session"
	"github.com/statlive/matchview-ui/internal/viewstate"
)

var (
	cfg       *config.Config
	dataStore dal.MatchDAL
	ps        *pubsub.PubSub
	chClient  *clickhouse.Client
	sessions  *session.Manager
)

func main() {
	// .env is optional; container deployments set real env vars
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	logger.Init()
	logger.Info("Starting match stats UI")

	var err error
	cfg, err = config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database driver
	switch cfg.DB.Driver {
	case "memory":
		dataStore = dal.NewMemoryDAL()
		logger.Info("Using in-memory data store")
	case "sqlite":
		dataStore, err = dal.NewSQLiteDAL(cfg.DB.SQLiteFile)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		logger.Info("Connected to SQLite database", "file", cfg.DB.SQLiteFile)
	case "postgres":
		pgDAL, pgErr := dal.NewPostgresDAL(cfg.DB.PostgresDSN)
		if pgErr != nil {
			logger.Error("Failed to initialize Postgres", "error", pgErr)
			log.Fatalf("Failed to initialize Postgres: %v", pgErr)
		}
		if err := pgDAL.MigrateImagesToDatabase(); err != nil {
			logger.Warn("Failed to migrate images into database", "error", err)
		}
		dataStore = pgDAL
		logger.Info("Connected to Postgres database")
	}

	// Pub/sub: embedded NATS in development, real NATS JetStream otherwise
	environment := cfg.Server.Environment
	var upstream pubsub.Upstream

	if environment == "" || environment == "development" {
		logger.Info("Starting embedded NATS server for local development")
		embeddedNats, err := pubsub.NewEmbeddedNATSPubSub(pubsub.EmbeddedNATSOptions{
			Port:       0, // Random available port
			Subject:    cfg.NATS.Subject,
			StreamName: pubsub.StreamName,
			StoreDir:   "", // In-memory storage
		})
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		upstream = embeddedNats
		logger.Info("Embedded NATS server ready", "url", embeddedNats.GetServerURL())
	} else {
		realNats, err := pubsub.NewNATSPubSub(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		upstream = realNats
		logger.Info("Connected to NATS", "url", cfg.NATS.URL)
	}

	// Publishes go upstream and fan back out to local SSE subscribers
	ps = pubsub.NewWithUpstream(upstream)

	// ClickHouse analytics sink (production only; nil client is a no-op)
	if environment == "" || environment == "development" {
		logger.Info("Skipping ClickHouse analytics in development")
		chClient = nil
	} else {
		chAddr := os.Getenv("CLICKHOUSE_ADDR")
		if chAddr == "" {
			chAddr = "localhost:9000"
		}
		chDB := os.Getenv("CLICKHOUSE_DB")
		if chDB == "" {
			chDB = "default"
		}
		chUser := os.Getenv("CLICKHOUSE_USER")
		if chUser == "" {
			chUser = "default"
		}
		chPass := os.Getenv("CLICKHOUSE_PASSWORD")

		chClient, err = clickhouse.NewClient(chAddr, chDB, chUser, chPass)
		if err != nil {
			logger.Error("Failed to initialize ClickHouse", "error", err, "address", chAddr)
			log.Fatalf("Failed to initialize ClickHouse: %v", err)
		}
		logger.Info("Connected to ClickHouse", "address", chAddr, "database", chDB)
	}

	// Session manager with the idle janitor
	sessions, err = session.NewManager(ps, session.Options{
		BannerPeriod:    cfg.Banner.Period,
		BannerDuration:  cfg.Banner.DisplayDuration,
		TTL:             cfg.Session.TTL,
		JanitorSchedule: "@every 1m",
	})
	if err != nil {
		logger.Error("Failed to initialize session manager", "error", err)
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	// Fail fast on broken templates
	if _, err := template.ParseGlob("templates/*.html"); err != nil {
		logger.Error("Failed to parse templates", "error", err)
		log.Fatalf("Failed to parse templates: %v", err)
	}
	logger.Info("Templates loaded successfully")

	// Set up HTTP routes
	router := mux.NewRouter()

	// Static files
	fs := http.FileServer(http.Dir("static"))
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs))

	// Image serving from database (fallback to static files, then a
	// generated placeholder)
	router.PathPrefix("/images/").HandlerFunc(serveImageHandler)

	// Page routes
	router.HandleFunc("/", homeHandler)
	router.HandleFunc("/stats", statsHandler)

	// API routes
	api := handlers.NewAPIHandlers(dataStore, sessions, ps, chClient)

	router.HandleFunc("/api/state", api.GetMatchState).Methods(http.MethodGet)
	router.HandleFunc("/api/tab", api.SelectTab).Methods(http.MethodPost)
	router.HandleFunc("/api/stat/expand", api.ExpandStat).Methods(http.MethodPost)
	router.HandleFunc("/api/stat/collapse", api.CollapseStat).Methods(http.MethodPost)
	router.HandleFunc("/api/bets/toggle", api.ToggleBet).Methods(http.MethodPost)
	router.HandleFunc("/api/bets/close", api.CloseBetSlip).Methods(http.MethodPost)
	router.HandleFunc("/api/bets/place", api.PlaceBet).Methods(http.MethodPost)
	router.HandleFunc("/api/modal/open", api.OpenModal).Methods(http.MethodPost)
	router.HandleFunc("/api/modal/close", api.CloseModal).Methods(http.MethodPost)
	router.HandleFunc("/api/modal/section", api.ToggleSection).Methods(http.MethodPost)
	router.HandleFunc("/api/reference/open", api.OpenReference).Methods(http.MethodPost)
	router.HandleFunc("/api/reference/close", api.CloseReference).Methods(http.MethodPost)
	router.HandleFunc("/api/anchor", api.AnchorVisibility).Methods(http.MethodPost)
	router.HandleFunc("/api/leave", api.Leave).Methods(http.MethodPost)

	// SSE for realtime updates
	router.HandleFunc("/api/events", api.EventsSSE)

	// Health check endpoints
	router.HandleFunc("/api/health", healthHandler)
	router.HandleFunc("/healthz", livenessHandler) // Kubernetes liveness probe
	router.HandleFunc("/readyz", readinessHandler) // Kubernetes readiness probe

	addr := "0.0.0.0:" + cfg.Server.Port
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info("Server starting", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			log.Fatal(err)
		}
	}()

	// Stop session timers and close the broker before exiting
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}

	sessions.Close()
	if closer, ok := upstream.(interface{ Close() }); ok {
		closer.Close()
	}
	if err := chClient.Close(); err != nil {
		logger.Error("ClickHouse close failed", "error", err)
	}
	if err := dataStore.Close(); err != nil {
		logger.Error("Data store close failed", "error", err)
	}
}

func homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	match, err := dataStore.DefaultMatch()
	if err != nil {
		http.Error(w, "Failed to load match", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Match": match,
		"Nav":   "home",
	}

	tmpl, err := template.ParseFiles("templates/base.html", "templates/home.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// statRow is one statistic prepared for the template: formatted values,
// bar width and selection flags precomputed so the template stays dumb
type statRow struct {
	Key        string
	Label      string
	HomeValue  string
	AwayValue  string
	HomeWidth  float64
	AwayWidth  float64
	Algorithm  string
	Odds       *models.Odds
	Suspended  bool
	Trend      string
	TrendLabel string

	Expanded  bool
	Explainer content.Explainer

	HomeSelected bool
	DrawSelected bool
	AwaySelected bool
}

// slipEntry is one bet slip line prepared for the template
type slipEntry struct {
	StatLabel string
	SideLabel string
	Odds      string
}

func buildStatRows(match *models.MatchData, view viewstate.ViewState) []statRow {
	rows := make([]statRow, 0, len(match.Stats))
	for _, key := range models.StatOrder() {
		entry, ok := match.Stats[key]
		if !ok {
			continue
		}

		homeWidth := viewstate.RatioWidth(key, entry.Home, entry.Away)
		row := statRow{
			Key:        string(key),
			Label:      models.StatLabel(key),
			HomeValue:  viewstate.FormatValue(entry.Home),
			AwayValue:  viewstate.FormatValue(entry.Away),
			HomeWidth:  homeWidth,
			AwayWidth:  100 - homeWidth,
			Algorithm:  entry.Algorithm,
			Odds:       entry.Odds,
			Suspended:  entry.Suspended,
			Trend:      string(entry.Trend),
			TrendLabel: models.TrendLabel(entry.Trend),

			Expanded:  view.ExpandedStat != nil && *view.ExpandedStat == key,
			Explainer: content.StatExplainer(key),

			HomeSelected: view.IsSelected(key, models.SideHome),
			DrawSelected: view.IsSelected(key, models.SideDraw),
			AwaySelected: view.IsSelected(key, models.SideAway),
		}
		rows = append(rows, row)
	}
	return rows
}

func statsHandler(w http.ResponseWriter, r *http.Request) {
	match, err := dataStore.DefaultMatch()
	if err != nil {
		http.Error(w, "Failed to load match", http.StatusInternalServerError)
		return
	}

	sess := sessions.Get(w, r)
	view := sess.Snapshot()

	slip := make([]slipEntry, 0, len(view.Selections))
	totalOdds := 1.0
	for _, sel := range view.Selections {
		slip = append(slip, slipEntry{
			StatLabel: models.StatLabel(sel.Stat),
			SideLabel: models.SideLabel(sel.Side),
			Odds:      fmt.Sprintf("%.2f", sel.Odds),
		})
		totalOdds *= sel.Odds
	}

	var openReference *content.Reference
	if view.Reference != nil {
		if ref, ok := content.LookupReference(*view.Reference); ok {
			openReference = &ref
		}
	}

	data := map[string]interface{}{
		"Match":          match,
		"Rows":           buildStatRows(match, view),
		"View":           view,
		"Nav":            "stats",
		"Tab":            string(view.Tab),
		"BetSlipVisible": view.BetSlipVisible(),
		"Slip":           slip,
		"TotalOdds":      fmt.Sprintf("%.2f", totalOdds),
		"Banner":         content.HighlightBanner(),
		"Methodology":    content.MethodologySections(),
		"RedCardBody":    content.RedCardBody,
		"RedCardRefs":    content.RedCardReferences,
		"GoalBody":       content.GoalDetectionBody,
		"GoalRefs":       content.GoalReferences,
		"Reference":      openReference,
	}

	tmpl, err := template.ParseFiles("templates/base.html", "templates/match.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	// Check database connectivity
	if dataStore != nil {
		_, err := dataStore.DefaultMatch()
		if err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	// Check ClickHouse connectivity (only in production)
	if cfg.Server.Environment == "production" && chClient != nil {
		_, err := chClient.CountEventsByType()
		if err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["clickhouse"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["clickhouse"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else if cfg.Server.Environment == "production" {
		checks["clickhouse"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	checks["sessions"] = map[string]interface{}{
		"status": "healthy",
		"active": sessions.Count(),
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(response)
}

// livenessHandler handles Kubernetes liveness probes
// Returns 200 if the application is running (doesn't check dependencies)
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// readinessHandler handles Kubernetes readiness probes
// Returns 200 if the application is ready to serve traffic (checks critical dependencies)
func readinessHandler(w http.ResponseWriter, r *http.Request) {
	if dataStore != nil {
		_, err := dataStore.DefaultMatch()
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    "not_ready",
				"reason":    "database_unavailable",
				"timestamp": time.Now().Unix(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}

// serveImageHandler serves images from the database, falling back to static
// files and finally to a generated placeholder so missing crests never
// break the page
func serveImageHandler(w http.ResponseWriter, r *http.Request) {
	imagePath := "/static" + r.URL.Path // Convert /images/xyz.png to /static/images/xyz.png

	if pgDAL, ok := dataStore.(*dal.PostgresDAL); ok {
		imageData, err := pgDAL.GetImageByPath(imagePath)
		if err == nil && len(imageData) > 0 {
			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("Cache-Control", "public, max-age=31536000") // Cache for 1 year
			w.Write(imageData)
			return
		}
	}

	diskPath := "static" + r.URL.Path
	if _, err := os.Stat(diskPath); err == nil {
		http.ServeFile(w, r, diskPath)
		return
	}

	servePlaceholder(w, r.URL.Query().Get("text"))
}

// servePlaceholder writes a small SVG with the given text, used while a
// real crest image is loading or missing
func servePlaceholder(w http.ResponseWriter, text string) {
	if text == "" {
		text = "?"
	}
	if len(text) > 3 {
		text = text[:3]
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")

	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="96" height="96" viewBox="0 0 96 96">` +
		`<rect width="96" height="96" rx="48" fill="#1a2438"/>` +
		`<text x="48" y="58" font-family="sans-serif" font-size="28" fill="#8da2c0" text-anchor="middle">` +
		template.HTMLEscapeString(text) +
		`</text></svg>`
	fmt.Fprint(w, svg)
}
