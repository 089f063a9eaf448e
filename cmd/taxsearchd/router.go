package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"nhctax-backend/lib/scrapers/nhctax"
	"nhctax-backend/services/taxsearch"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func newRouter(service taxsearch.Service) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIdMiddleware)

	router.HandleFunc("/search/{mode}", handleSearch(service)).Methods("GET")
	router.HandleFunc("/detail/{parcelId}", handleDetail(service)).Methods("GET")
	router.HandleFunc("/status", handleStatus(service)).Methods("GET")
	router.HandleFunc("/capabilities", handleCapabilities(service)).Methods("GET")
	router.HandleFunc("/cache/{scope}", handleClearCache(service)).Methods("DELETE")

	return router
}

// tags every inbound tool invocation with a short correlation id
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := uuid.NewString()[:8]
		slog.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestId,
		)
		w.Header().Set("X-Request-Id", requestId)
		next.ServeHTTP(w, r)
	})
}

func statusFor(errorType string) int {
	switch errorType {
	case "":
		return http.StatusOK
	case "input_validation", "cache_disabled", "no_detail_url":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, errorType string, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(errorType))
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func handleSearch(service taxsearch.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := nhctax.SearchMode(mux.Vars(r)["mode"])
		query := r.URL.Query().Get("q")

		result := service.Search(r.Context(), mode, query)
		writeJSON(w, result.ErrorType, result)
	}
}

func handleDetail(service taxsearch.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := service.GetDetail(r.Context(), mux.Vars(r)["parcelId"])
		writeJSON(w, result.ErrorType, result)
	}
}

func handleStatus(service taxsearch.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := service.CheckStatus(r.Context())
		writeJSON(w, "", result)
	}
}

func handleCapabilities(service taxsearch.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, "", service.Capabilities())
	}
}

func handleClearCache(service taxsearch.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := service.ClearCache(r.Context(), mux.Vars(r)["scope"])
		writeJSON(w, result.ErrorType, result)
	}
}
