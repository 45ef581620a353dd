package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/resumatch/internal/config"
	"github.com/hyperjump/resumatch/internal/matcher"
	"github.com/hyperjump/resumatch/internal/models"
	"github.com/hyperjump/resumatch/internal/search"
	"github.com/hyperjump/resumatch/internal/storage"
	"github.com/hyperjump/resumatch/internal/summary"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request",
		zap.String("query", query.Query),
		zap.Strings("keywords", query.Keywords),
		zap.String("algorithm", query.Algorithm),
		zap.Int("limit", query.Limit))
	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		if search.IsQueryError(err) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

type algorithmInfo struct {
	Name  string `json:"name"`
	Exact bool   `json:"exact"`
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	algs := matcher.Algorithms()
	out := make([]algorithmInfo, 0, len(algs))
	for _, a := range algs {
		out = append(out, algorithmInfo{Name: string(a), Exact: a.IsExact()})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"algorithms": out})
}

type importRequest struct {
	Path string `json:"path"`
	Role string `json:"role,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		s.respondError(w, http.StatusNotImplemented, "import not enabled")
		return
	}
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	abs, ok := s.directoryParam(w, req.Path)
	if !ok {
		return
	}
	s.logger.Debug("import request", zap.String("path", abs), zap.String("role", req.Role))
	result, err := s.importer.ImportFolder(r.Context(), abs, req.Role)
	if err != nil {
		s.logger.Error("import failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListApplicants(w http.ResponseWriter, r *http.Request) {
	offset, err := intQuery(r, "offset", 0)
	if err != nil || offset < 0 {
		s.respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := intQuery(r, "limit", defaultPageSize)
	if err != nil || limit <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	limit = min(limit, maxPageSize)
	applicants, err := s.storage.ListApplicants(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list applicants failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountApplicants(r.Context())
	if err != nil {
		s.logger.Error("count applicants failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"applicants": applicants,
		"offset":     offset,
		"limit":      limit,
		"total":      total,
	})
}

func (s *Server) handleGetApplicant(w http.ResponseWriter, r *http.Request) {
	applicant, ok := s.applicantParam(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, applicant)
}

func (s *Server) handleDeleteApplicant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid applicant id")
		return
	}
	s.logger.Debug("delete applicant request", zap.Int64("id", id))
	if err := s.storage.DeleteApplicant(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "applicant not found")
			return
		}
		s.logger.Error("delete applicant failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleApplicantSummary(w http.ResponseWriter, r *http.Request) {
	applicant, ok := s.applicantParam(w, r)
	if !ok {
		return
	}
	app, err := s.application(r.Context(), applicant.ID)
	if err != nil {
		s.respondLookupError(w, err, "cv not found")
		return
	}
	s.respondJSON(w, http.StatusOK, summary.Build(applicant, s.cvText(r.Context(), app)))
}

func (s *Server) handleApplicantCV(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid applicant id")
		return
	}
	path, err := s.storage.GetCVPath(r.Context(), id)
	if err != nil {
		s.respondLookupError(w, err, "cv not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		s.respondError(w, http.StatusNotFound, "cv file missing")
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicants, err := s.storage.CountApplicants(ctx)
	if err != nil {
		s.logger.Error("status: count applicants failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	applications, err := s.storage.CountApplications(ctx)
	if err != nil {
		s.logger.Error("status: count applications failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"applicants":   applicants,
		"applications": applications,
	}
	if s.watch != nil {
		resp["inbox"] = s.watch.Directories()
	}

	if s.fullConfig != nil {
		s.fullConfigMu.Lock()
		cfg := s.fullConfig
		resp["config"] = map[string]interface{}{
			"database_path":     cfg.Storage.DatabasePath,
			"default_algorithm": cfg.Search.DefaultAlgorithm,
			"default_limit":     cfg.Search.DefaultLimit,
			"fuzzy_threshold":   cfg.Search.FuzzyThreshold,
			"fuzzy_enabled":     !cfg.Search.DisableFuzzy,
		}
		dbPath := cfg.Storage.DatabasePath
		s.fullConfigMu.Unlock()
		if diskBytes, err := storage.DiskUsageBytes(storage.DatabaseFiles(dbPath)...); err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInboxList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "inbox watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.watch.Directories()})
}

type inboxAddRequest struct {
	Path string `json:"path"`
	Sync *bool  `json:"sync,omitempty"`
}

func (s *Server) handleInboxAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "inbox watch not enabled")
		return
	}
	var req inboxAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	abs, ok := s.directoryParam(w, req.Path)
	if !ok {
		return
	}
	syncExisting := true
	if req.Sync != nil {
		syncExisting = *req.Sync
	}
	s.logger.Debug("inbox add request", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	if err := s.watch.AddDirectory(abs, syncExisting); err != nil {
		s.logger.Error("inbox add failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistInbox()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleInboxRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "inbox watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Path != "" {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("inbox remove request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("inbox remove failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistInbox()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

// persistInbox writes the current inbox directories back to the config file.
func (s *Server) persistInbox() {
	if s.configPath == "" || s.fullConfig == nil {
		return
	}
	s.fullConfigMu.Lock()
	defer s.fullConfigMu.Unlock()
	s.fullConfig.Watch.Directories = s.watch.Directories()
	if err := config.Save(s.configPath, s.fullConfig); err != nil {
		s.logger.Warn("failed to persist inbox config", zap.Error(err))
	}
}

func (s *Server) applicantParam(w http.ResponseWriter, r *http.Request) (*models.Applicant, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid applicant id")
		return nil, false
	}
	applicant, err := s.storage.GetApplicant(r.Context(), id)
	if err != nil {
		s.respondLookupError(w, err, "applicant not found")
		return nil, false
	}
	return applicant, true
}

// directoryParam resolves path to an existing directory, writing the error response when it is not one.
func (s *Server) directoryParam(w http.ResponseWriter, path string) (string, bool) {
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return "", false
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return "", false
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return "", false
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return "", false
	}
	return abs, true
}

func (s *Server) application(ctx context.Context, applicantID int64) (*models.Application, error) {
	path, err := s.storage.GetCVPath(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	return s.storage.ApplicationByPath(ctx, path)
}

// cvText returns the cached CV text, extracting and caching it when missing.
func (s *Server) cvText(ctx context.Context, app *models.Application) string {
	if app.CVText != "" || s.extractor == nil {
		return app.CVText
	}
	text, err := s.extractor.Extract(app.CVPath)
	if err != nil {
		s.logger.Warn("cv extraction failed", zap.String("path", app.CVPath), zap.Error(err))
		return ""
	}
	if err := s.storage.UpdateCVText(ctx, app.ID, text); err != nil {
		s.logger.Warn("failed to cache cv text", zap.Int64("application_id", app.ID), zap.Error(err))
	}
	return text
}

func (s *Server) respondLookupError(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, notFound)
		return
	}
	s.logger.Error("lookup failed", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func intQuery(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
