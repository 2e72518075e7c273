package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docentlabs/corpusqa/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// QueryRequest is the body of a question request
// @Description Question to answer from the corpus
type QueryRequest struct {
	Question string `json:"question" example:"How long does the programme take?"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Query endpoints

// handleQuery godoc
// @Summary      Answer a question
// @Description  Answers a question from the indexed corpus, with follow-up suggestions and source citations
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      QueryRequest  true  "Question"
// @Success      200      {object}  domain.Answer
// @Failure      400      {object}  ErrorResponse  "Invalid request body or empty question"
// @Failure      502      {object}  ErrorResponse  "AI provider unavailable"
// @Failure      503      {object}  ErrorResponse  "Index not loaded"
// @Router       /api/v1/query [post]
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := s.queryService.Query(r.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "question must not be empty")
		case errors.Is(err, domain.ErrIndexNotLoaded), errors.Is(err, domain.ErrIndexNotFound):
			writeError(w, http.StatusServiceUnavailable, "index not loaded; run ingestion first")
		case errors.Is(err, domain.ErrProviderUnavailable):
			writeError(w, http.StatusBadGateway, "AI provider unavailable")
		case errors.Is(err, domain.ErrProviderRejected):
			writeError(w, http.StatusBadGateway, "AI provider rejected the request")
		default:
			writeError(w, http.StatusInternalServerError, "query failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// handleIndexStats godoc
// @Summary      Index statistics
// @Description  Returns entry count and embedding metadata of the loaded index
// @Tags         Query
// @Produce      json
// @Success      200  {object}  driving.IndexStats
// @Router       /api/v1/index/stats [get]
func (s *Server) handleIndexStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.queryService.Stats())
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
