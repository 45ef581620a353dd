// Package server provides the HTTP API for resumatch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/resumatch/internal/config"
	"github.com/hyperjump/resumatch/internal/models"
	"github.com/hyperjump/resumatch/internal/search"
	"github.com/hyperjump/resumatch/internal/storage"
	"go.uber.org/zap"
)

// WatchService manages the CV inbox directories at runtime.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// Importer imports a folder of CVs as applicants.
type Importer interface {
	ImportFolder(ctx context.Context, dir, role string) (*models.ImportResult, error)
}

// TextExtractor reads CV text for applicants whose text was never cached.
type TextExtractor interface {
	Extract(path string) (string, error)
}

// Server is the HTTP server for the resumatch API.
type Server struct {
	engine    *search.Engine
	importer  Importer
	storage   storage.Storage
	extractor TextExtractor
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server

	watch      WatchService
	configPath string
	// fullConfig is persisted when inbox directories change; nil disables persistence and status config.
	fullConfig   *config.Config
	fullConfigMu sync.Mutex
}

// NewServer creates a server with the given dependencies. watch and fullConfig may be nil.
func NewServer(
	engine *search.Engine,
	importer Importer,
	store storage.Storage,
	extractor TextExtractor,
	cfg *config.ServerConfig,
	logger *zap.Logger,
	watch WatchService,
	configPath string,
	fullConfig *config.Config,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:     engine,
		importer:   importer,
		storage:    store,
		extractor:  extractor,
		config:     cfg,
		logger:     logger,
		watch:      watch,
		configPath: configPath,
		fullConfig: fullConfig,
	}
}

// Router returns the API routes with middleware applied.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/algorithms", s.handleAlgorithms)
		r.Get("/status", s.handleStatus)
		r.Post("/import", s.handleImport)

		r.Get("/applicants", s.handleListApplicants)
		r.Get("/applicants/{id}", s.handleGetApplicant)
		r.Delete("/applicants/{id}", s.handleDeleteApplicant)
		r.Get("/applicants/{id}/summary", s.handleApplicantSummary)
		r.Get("/applicants/{id}/cv", s.handleApplicantCV)

		r.Get("/inbox", s.handleInboxList)
		r.Post("/inbox", s.handleInboxAdd)
		r.Delete("/inbox", s.handleInboxRemove)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
