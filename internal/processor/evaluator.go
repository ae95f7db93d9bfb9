package processor

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"siemtrainer/internal/ledger"
	"siemtrainer/internal/metrics"
	"siemtrainer/pkg/llm"
	"siemtrainer/pkg/types"
)

// Evaluator grades an analyst's triage decision against the stored ground
// truth. Objective correctness is computed locally; the qualitative review
// of the written justification is delegated to the model gateway.
type Evaluator struct {
	provider llm.Provider
	ledger   *ledger.Ledger
}

// NewEvaluator creates a new evaluation engine.
func NewEvaluator(provider llm.Provider, led *ledger.Ledger) *Evaluator {
	return &Evaluator{provider: provider, ledger: led}
}

// Evaluate looks up the incident's private record and returns the combined
// verdict check and graded report. The ledger is never mutated.
func (e *Evaluator) Evaluate(ctx context.Context, req types.EvaluationRequest) (*types.EvaluationResult, error) {
	rec, err := e.ledger.Get(req.Token)
	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues("unknown_token").Inc()
		return nil, err
	}

	// The analyst must commit to a call; "None" (or anything else) is
	// always graded incorrect.
	verdictOK := false
	switch req.Verdict {
	case "True Positive":
		verdictOK = rec.GroundTruth
	case "False Positive":
		verdictOK = !rec.GroundTruth
	}

	system, user := llm.BuildGradingPrompt(rec, req)
	raw, err := e.provider.Complete(ctx, system, user)
	if err != nil {
		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			metrics.EvaluationsTotal.WithLabelValues("upstream_error").Inc()
		} else {
			metrics.EvaluationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	score, feedback, summary := parseGrading(raw)

	label := "True Positive"
	if !rec.GroundTruth {
		label = "False Positive"
	}

	metrics.EvaluationsTotal.WithLabelValues("ok").Inc()
	return &types.EvaluationResult{
		Token:             req.Token,
		Verdict:           req.Verdict,
		GroundTruth:       label,
		GroundTruthReason: rec.Reason,
		VerdictOK:         strconv.FormatBool(verdictOK),
		Score:             score,
		Feedback:          feedback,
		Summary:           summary,
	}, nil
}

type gradingResponse struct {
	Score    json.RawMessage `json:"score"`
	Feedback string          `json:"feedback"`
	Summary  string          `json:"summary"`
}

// parseGrading reads the grader's JSON defensively: an unparseable body or
// score falls back to zero/empty rather than failing the request.
func parseGrading(raw string) (int, string, string) {
	var resp gradingResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return 0, "", ""
	}
	return clampScore(parseScore(resp.Score)), resp.Feedback, resp.Summary
}

func parseScore(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}

	// Some models quote the number.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
