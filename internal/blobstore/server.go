// Package blobstore is a small self-hosted implementation of the remote
// storage contract the journal syncs against: a single overwritable trade
// list plus write-once binary attachments.
package blobstore

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/models"
)

const (
	tradesKey    = "trades"
	maxBodyBytes = 10 << 20
)

// Server exposes a Store over HTTP.
type Server struct {
	server    *http.Server
	store     *Store
	logger    *zap.Logger
	publicURL string
	token     string
	newID     func() string
}

// NewServer creates a new Server listening on cfg.Port.
func NewServer(cfg *config.BlobStore, db *gorm.DB, logger *zap.Logger) *Server {
	s := &Server{
		store:     NewStore(db),
		logger:    logger.Named("blobstore"),
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		token:     cfg.Token,
		newID:     uuid.NewString,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router returns the HTTP routes of the server.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	// Attachment URLs are handles given out to readers, so they stay public.
	r.HandleFunc("/files/{id}/{name}", s.fileHandler).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(s.authenticate)
	api.HandleFunc("/trades", s.getTradesHandler).Methods(http.MethodGet)
	api.HandleFunc("/trades", s.putTradesHandler).Methods(http.MethodPost)
	api.HandleFunc("/upload", s.uploadHandler).Methods(http.MethodPost)
	return r
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	if s.token == "" {
		s.logger.Warn("No token configured, blob store accepts unauthenticated writes")
	}
	s.logger.Info("Starting blob store", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Blob store failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping blob store...")
	return s.server.Shutdown(ctx)
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			got := r.Header.Get("Authorization")
			want := "Bearer " + s.token
			if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
				respondError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getTradesHandler(w http.ResponseWriter, r *http.Request) {
	blob, err := s.store.Latest(r.Context(), tradesKey)
	if err != nil {
		s.logger.Error("Failed to read trades", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to read trades")
		return
	}

	payload := "[]"
	if blob != nil {
		payload = blob.Payload
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, payload)
}

// putTradesHandler stores a new version and then drops the superseded ones.
// A failed cleanup leaves extra versions behind but does not fail the write.
func (s *Server) putTradesHandler(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	if !json.Valid(body) {
		respondError(w, http.StatusBadRequest, "body must be valid JSON")
		return
	}

	blob, err := s.store.Put(r.Context(), tradesKey, string(body))
	if err != nil {
		s.logger.Error("Failed to store trades", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to store trades")
		return
	}

	removed, err := s.store.Prune(r.Context(), tradesKey, blob.ID)
	if err != nil {
		s.logger.Warn("Failed to prune old trade versions", zap.Uint("version", blob.ID), zap.Error(err))
	} else if removed > 0 {
		s.logger.Debug("Pruned old trade versions", zap.Int64("removed", removed))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"version": blob.ID})
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	filename := path.Base(strings.TrimSpace(r.URL.Query().Get("filename")))
	if filename == "" || filename == "." || filename == "/" {
		respondError(w, http.StatusBadRequest, "filename is required")
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(body)
	}

	attachment := &models.Attachment{
		ID:          s.newID(),
		Filename:    filename,
		ContentType: contentType,
		Data:        body,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.SaveAttachment(r.Context(), attachment); err != nil {
		s.logger.Error("Failed to store attachment", zap.String("filename", filename), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to store attachment")
		return
	}

	fileURL := fmt.Sprintf("%s/files/%s/%s", s.publicURL, attachment.ID, url.PathEscape(filename))
	s.logger.Info("Stored attachment",
		zap.String("id", attachment.ID),
		zap.String("filename", filename),
		zap.Int("bytes", len(body)))
	respondJSON(w, http.StatusCreated, map[string]string{"url": fileURL})
}

func (s *Server) fileHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	attachment, err := s.store.Attachment(r.Context(), vars["id"])
	if err != nil {
		s.logger.Error("Failed to read attachment", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to read attachment")
		return
	}
	if attachment == nil || attachment.Filename != vars["name"] {
		respondError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(attachment.Data)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "body too large")
			return nil, false
		}
		respondError(w, http.StatusBadRequest, "failed to read body")
		return nil, false
	}
	return body, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
