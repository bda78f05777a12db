// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/plant-care/middleware"
	"github.com/danielhkuo/plant-care/models"
	"github.com/danielhkuo/plant-care/skill"
)

func NewRouter(db *sql.DB, dispatcher *skill.Dispatcher) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", "error", err)
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Skill endpoint
	mux.HandleFunc("POST /{$}", middleware.WithLogging(skillHandler(dispatcher)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plant-care API v1"))
	})

	return mux
}

func skillHandler(dispatcher *skill.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var env models.RequestEnvelope
		raw, err := middleware.ParseJSONBody(w, r, &env)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request envelope")
			return
		}

		env.Raw = raw
		resp := dispatcher.Dispatch(r.Context(), &env)
		middleware.JSONResponse(w, http.StatusOK, resp)
	}
}
