package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siemtrainer/internal/ledger"
	"siemtrainer/pkg/llm"
	"siemtrainer/pkg/types"
)

// stubProvider returns a canned completion or error.
type stubProvider struct {
	response string
	err      error
	calls    int
}

func (s *stubProvider) Complete(ctx context.Context, system, user string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubProvider) Name() string { return "stub" }

func seedLedger(t *testing.T, led *ledger.Ledger, groundTruth bool) string {
	t.Helper()
	return led.Mint(types.PrivateRecord{
		GroundTruth: groundTruth,
		Reason:      "test reason",
		Full: types.GeneratedIncident{
			Name:     "Suspicious PowerShell Execution",
			Severity: "High",
		},
	})
}

func TestEvaluateVerdictCorrectness(t *testing.T) {
	tests := []struct {
		name        string
		groundTruth bool
		verdict     string
		wantOK      string
	}{
		{"true positive called correctly", true, "True Positive", "true"},
		{"true positive called false positive", true, "False Positive", "false"},
		{"false positive called correctly", false, "False Positive", "true"},
		{"false positive called true positive", false, "True Positive", "false"},
		{"none is never correct against true", true, "None", "false"},
		{"none is never correct against false", false, "None", "false"},
		{"garbage verdict is never correct", true, "Maybe?", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			led := ledger.New()
			token := seedLedger(t, led, tt.groundTruth)

			provider := &stubProvider{response: `{"score": 80, "feedback": "Good call.", "summary": "Handled."}`}
			eval := NewEvaluator(provider, led)

			result, err := eval.Evaluate(context.Background(), types.EvaluationRequest{
				Token:   token,
				Verdict: tt.verdict,
				Comment: "who/what/where/when/why",
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantOK, result.VerdictOK)
			assert.Equal(t, tt.verdict, result.Verdict)
			assert.Equal(t, token, result.Token)
			assert.Equal(t, "test reason", result.GroundTruthReason)
			assert.Equal(t, 80, result.Score)
			assert.Equal(t, "Good call.", result.Feedback)
		})
	}
}

func TestEvaluateUnknownTokenLeavesLedgerUntouched(t *testing.T) {
	led := ledger.New()
	seedLedger(t, led, true)
	sizeBefore := led.Len()

	eval := NewEvaluator(&stubProvider{response: "{}"}, led)
	_, err := eval.Evaluate(context.Background(), types.EvaluationRequest{
		Token:   "nonexistent-token",
		Verdict: "True Positive",
	})
	require.ErrorIs(t, err, ledger.ErrUnknownToken)
	assert.Equal(t, sizeBefore, led.Len())
}

func TestEvaluateIsIdempotent(t *testing.T) {
	led := ledger.New()
	token := seedLedger(t, led, false)

	provider := &stubProvider{response: `{"score": 55, "feedback": "ok", "summary": "s"}`}
	eval := NewEvaluator(provider, led)

	req := types.EvaluationRequest{Token: token, Verdict: "False Positive", Comment: "5W"}

	first, err := eval.Evaluate(context.Background(), req)
	require.NoError(t, err)
	second, err := eval.Evaluate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.VerdictOK, second.VerdictOK)
	assert.Equal(t, first.GroundTruth, second.GroundTruth)
	assert.Equal(t, first.Score, second.Score)
}

func TestEvaluatePropagatesUpstreamError(t *testing.T) {
	led := ledger.New()
	token := seedLedger(t, led, true)

	upstream := &llm.UpstreamError{Provider: "OpenAI", StatusCode: 500, Body: "overloaded"}
	eval := NewEvaluator(&stubProvider{err: upstream}, led)

	_, err := eval.Evaluate(context.Background(), types.EvaluationRequest{Token: token, Verdict: "True Positive"})
	var got *llm.UpstreamError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "overloaded", got.Body)
}

func TestParseGradingDefensively(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantScore int
		wantFb    string
	}{
		{"valid", `{"score": 72, "feedback": "fb", "summary": "sum"}`, 72, "fb"},
		{"negative clamps to zero", `{"score": -10, "feedback": "fb"}`, 0, "fb"},
		{"over 100 clamps", `{"score": 250, "feedback": "fb"}`, 100, "fb"},
		{"quoted number", `{"score": "88", "feedback": "fb"}`, 88, "fb"},
		{"non numeric defaults to zero", `{"score": "excellent", "feedback": "fb"}`, 0, "fb"},
		{"missing score", `{"feedback": "fb"}`, 0, "fb"},
		{"float truncates", `{"score": 66.7, "feedback": "fb"}`, 66, "fb"},
		{"unparseable body", `I'd rate this an 80 out of 100`, 0, ""},
		{"empty object", `{}`, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, feedback, _ := parseGrading(tt.raw)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantFb, feedback)
		})
	}
}
