package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"wingman/internal/models"
	"wingman/internal/store"
)

const healthTimeout = 2 * time.Second

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	providers, err := s.store.ListProviders(ctx)
	if err != nil {
		s.logger.Error("list providers", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch providers"})
		return
	}

	def, err := s.store.DefaultProvider(ctx)
	if errors.Is(err, store.ErrNotFound) {
		def = nil
	} else if err != nil {
		s.logger.Error("load default provider", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch providers"})
		return
	}

	writeJSON(w, http.StatusOK, models.ProviderListing{
		Providers:       providers,
		DefaultProvider: def,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	body := map[string]string{"database": s.store.DatabaseType()}
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		body["status"] = "unavailable"
		writeJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "ok"
	writeJSON(w, http.StatusOK, body)
}
