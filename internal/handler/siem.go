package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"siemtrainer/internal/ledger"
	"siemtrainer/internal/processor"
	"siemtrainer/pkg/llm"
	"siemtrainer/pkg/types"
)

// IncidentGenerator produces one public incident batch.
type IncidentGenerator interface {
	Generate(ctx context.Context) ([]types.PublicIncident, error)
}

// IncidentEvaluator grades one analyst submission.
type IncidentEvaluator interface {
	Evaluate(ctx context.Context, req types.EvaluationRequest) (*types.EvaluationResult, error)
}

// SiemHandler serves the training API endpoints.
type SiemHandler struct {
	generator IncidentGenerator
	evaluator IncidentEvaluator
}

// NewSiemHandler creates a new training API handler.
func NewSiemHandler(generator IncidentGenerator, evaluator IncidentEvaluator) *SiemHandler {
	return &SiemHandler{
		generator: generator,
		evaluator: evaluator,
	}
}

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// writeUpstreamFailure maps gateway error kinds onto the API contract:
// missing credential 401, upstream transport 502 with the provider's raw
// error text. Returns false when err is neither.
func writeUpstreamFailure(w http.ResponseWriter, err error) bool {
	if errors.Is(err, llm.ErrMissingAPIKey) {
		writeError(w, http.StatusUnauthorized, "Missing API key for LLM provider")
		return true
	}
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		writeError(w, http.StatusBadGateway, "LLM request failed: "+upstream.Body)
		return true
	}
	return false
}

// HandleGenerate serves POST /api/siem/generate.
func (h *SiemHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	incidents, err := h.generator.Generate(r.Context())
	if err != nil {
		log.Printf("Generation failed: %v", err)
		if writeUpstreamFailure(w, err) {
			return
		}
		switch {
		case errors.Is(err, processor.ErrBadModelOutput):
			writeError(w, http.StatusInternalServerError, "Failed to parse AI response")
		case errors.Is(err, processor.ErrIncompleteBatch):
			writeError(w, http.StatusInternalServerError, "AI did not return 3 incidents")
		default:
			writeError(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, types.GenerateResponse{Incidents: incidents})
}

// HandleEvaluate serves POST /api/siem/evaluate.
func (h *SiemHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req types.EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	defer r.Body.Close()

	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "Missing incident token")
		return
	}

	result, err := h.evaluator.Evaluate(r.Context(), req)
	if err != nil {
		log.Printf("Evaluation failed for token %s: %v", req.Token, err)
		if writeUpstreamFailure(w, err) {
			return
		}
		if errors.Is(err, ledger.ErrUnknownToken) {
			writeError(w, http.StatusNotFound, "Unknown incident token")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleHealth handles health check requests
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
