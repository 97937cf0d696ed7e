package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cubdefi/farmboard/internal/engine"
	"github.com/cubdefi/farmboard/internal/logger"
	"github.com/cubdefi/farmboard/internal/state"
	"github.com/cubdefi/farmboard/internal/types"
)

var webLogger = logger.GetForComponent("web_server")

// WebServer handles HTTP requests for farm data
type WebServer struct {
	router     *mux.Router
	port       string
	engine     *engine.Engine
	useHistory bool
	startedAt  time.Time
}

// NewWebServer creates a new web server instance
func NewWebServer(port string, eng *engine.Engine, useHistory bool) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:     mux.NewRouter(),
		port:       port,
		engine:     eng,
		useHistory: useHistory,
		startedAt:  time.Now(),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")
	ws.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API endpoints
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/farms", ws.handleGetFarms).Methods("GET")
	api.HandleFunc("/farms/{pid}", ws.handleGetFarm).Methods("GET")
	api.HandleFunc("/more", ws.handleMore).Methods("POST")
	api.HandleFunc("/refresh", ws.handleRefresh).Methods("POST")
	api.HandleFunc("/actor", ws.handleSetActor).Methods("POST")
	api.HandleFunc("/transactions", ws.handleTransaction).Methods("POST")
	api.HandleFunc("/cycles", ws.handleGetCycles).Methods("GET")

	// Add CORS middleware
	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	hasErrors := false
	dbHealthy := true
	if ws.useHistory {
		if err := state.TestDBConnection(); err != nil {
			dbHealthy = false
			hasErrors = true
		}
	}

	overallStatus := "OK"
	if hasErrors {
		overallStatus = "DEGRADED"
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":          runtime.Version(),
			"goroutines_count": runtime.NumGoroutine(),
			"alloc_bytes":      memStats.Alloc,
			"sys_bytes":        memStats.Sys,
			"gc_cycles":        memStats.NumGC,
			"uptime_seconds":   int64(time.Since(ws.startedAt).Seconds()),
		},
		"component": map[string]interface{}{
			"name":    "farmboard",
			"version": "1.0.0",
		},
		"history": map[string]interface{}{
			"enabled":          ws.useHistory,
			"database_healthy": dbHealthy,
		},
	}

	statusCode := http.StatusOK
	if hasErrors {
		statusCode = http.StatusServiceUnavailable
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// handleGetFarms returns the ranked, windowed farm list for the requested view
func (ws *WebServer) handleGetFarms(w http.ResponseWriter, r *http.Request) {
	opts, err := parseQueryOptions(r)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, ws.engine.Query(opts))
}

// handleGetFarm returns a single farm by pool id
func (ws *WebServer) handleGetFarm(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	pid, err := strconv.ParseUint(vars["pid"], 10, 64)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid pool ID")
		return
	}

	view, ok := ws.engine.FarmByPID(types.PoolID(pid))
	if !ok {
		ws.writeErrorResponse(w, http.StatusNotFound, "Farm not found")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, view)
}

// handleMore grows the visible window by one increment
func (ws *WebServer) handleMore(w http.ResponseWriter, r *http.Request) {
	ws.engine.RequestMore()
	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// handleRefresh triggers an immediate out-of-cadence refresh
func (ws *WebServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ws.engine.RequestRefresh()
	ws.writeJSONResponse(w, http.StatusAccepted, map[string]interface{}{"ok": true})
}

// handleSetActor switches the connected actor for per-user data
func (ws *WebServer) handleSetActor(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Actor string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ws.engine.SetActor(body.Actor)
	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"ok": true, "actor": body.Actor})
}

// handleTransaction reports a completed transaction for the connected actor
func (ws *WebServer) handleTransaction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Actor string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Actor == "" {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Actor is required")
		return
	}

	ws.engine.NotifyTransaction(body.Actor)
	ws.writeJSONResponse(w, http.StatusAccepted, map[string]interface{}{"ok": true})
}

// handleGetCycles returns recent refresh cycle history
func (ws *WebServer) handleGetCycles(w http.ResponseWriter, r *http.Request) {
	if !ws.useHistory {
		ws.writeErrorResponse(w, http.StatusNotFound, "Refresh history is not enabled")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	cycles, err := state.RecentRefreshCycles(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get recent refresh cycles")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve cycles")
		return
	}

	response := map[string]interface{}{
		"cycles": cycles,
		"count":  len(cycles),
		"limit":  limit,
	}
	if current, err := state.GetCurrentCycleNumber(); err == nil {
		response["current_cycle"] = current
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// parseQueryOptions maps URL query parameters onto engine query options.
// Missing parameters fall back to the default live view.
func parseQueryOptions(r *http.Request) (engine.QueryOptions, error) {
	opts := engine.QueryOptions{
		Context:  types.ViewActive,
		Category: types.LpStaking,
		Sort:     types.SortHot,
	}

	q := r.URL.Query()
	var err error

	if v := q.Get("context"); v != "" {
		if opts.Context, err = types.ParseViewContext(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("category"); v != "" {
		if opts.Category, err = types.ParsePoolCategory(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("sort"); v != "" {
		if opts.Sort, err = types.ParseSortKey(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("staked_only"); v != "" {
		if opts.StakedOnly, err = strconv.ParseBool(v); err != nil {
			return opts, err
		}
	}
	opts.Search = q.Get("search")

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return opts, fmt.Errorf("limit must be a positive integer")
		}
		opts.WindowSize = limit
	}

	return opts, nil
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
