package server

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kartoza/cardio-risk/internal/api"
	"github.com/kartoza/cardio-risk/internal/config"
	"github.com/kartoza/cardio-risk/internal/httputil"
	"github.com/kartoza/cardio-risk/internal/models"
	"github.com/kartoza/cardio-risk/internal/predict"
	"github.com/kartoza/cardio-risk/internal/registry"
	"github.com/kartoza/cardio-risk/internal/render"
)

//go:embed static/*
var staticFS embed.FS

//go:embed templates/index.html
var templatesFS embed.FS

// Server holds all the components for the web application
type Server struct {
	cfg        config.Config
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
	loader     *registry.Loader
	invoker    *predict.Invoker
	renderer   *render.Renderer
	page       *template.Template
	logger     *zap.Logger
}

// pageData feeds templates/index.html
type pageData struct {
	Strings render.Strings
	Version string
	Ready   bool
	Error   string
	Left    []models.Field
	Right   []models.Field
	Wide    []models.Field
}

// New creates a new Server. invoker is nil when the models failed to
// load; the page then shows the halt message instead of the form.
func New(cfg config.Config, loader *registry.Loader, invoker *predict.Invoker, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer, err := render.New(cfg.Language)
	if err != nil {
		return nil, err
	}

	page, err := template.New("index.html").Funcs(template.FuncMap{
		"num":     formatNumber,
	}).ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		router:   mux.NewRouter(),
		loader:   loader,
		invoker:  invoker,
		renderer: renderer,
		page:     page,
		logger:   logger,
	}

	// Set up routes
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	s.handler = httputil.Chain(
		httputil.RequestID,
		httputil.Logger(s.logger),
		httputil.Recovery(s.logger),
	)(s.router)

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() error {
	// API routes
	apiRouter := s.router.PathPrefix("/api").Subrouter()
	apiHandler := api.NewHandler(s.cfg, s.loader, s.invoker, s.renderer, s.logger.Named("api"))
	apiHandler.RegisterRoutes(apiRouter)

	// Static assets (embedded)
	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("failed to load embedded static files: %w", err)
	}
	s.router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	return nil
}

// Handler returns the root HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// handleIndex renders the form, or only the halt message when the models
// are unavailable.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Strings: s.renderer.Strings(),
		Version: s.cfg.Version,
		Ready:   s.invoker != nil,
		Left:    models.FieldsIn(models.ColumnLeft),
		Right:   models.FieldsIn(models.ColumnRight),
		Wide:    models.FieldsIn(models.ColumnWide),
	}
	if s.loader != nil {
		if err := s.loader.Load().Err(); err != nil {
			data.Ready = false
			data.Error = err.Error()
		}
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("failed to render page", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// formatNumber renders an optional bound for an input attribute
func formatNumber(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// Start begins listening for HTTP connections
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("server listening", zap.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Port)))
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
