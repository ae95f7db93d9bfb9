package processor

import (
	"encoding/json"
	"errors"
	"fmt"

	"siemtrainer/pkg/types"
)

// BatchSize is the fixed number of incidents per generation.
const BatchSize = 3

// maxDetails clamps the detail list of a single incident.
const maxDetails = 10

var (
	// ErrBadModelOutput means the model response was not the expected JSON.
	ErrBadModelOutput = errors.New("failed to parse AI response")

	// ErrIncompleteBatch means the model returned fewer than three usable
	// incidents. A partial batch would break the false-positive guarantee,
	// so the whole request fails.
	ErrIncompleteBatch = errors.New("AI did not return 3 incidents")
)

type modelBatch struct {
	Incidents []types.GeneratedIncident `json:"incidents"`
}

// parseBatch validates raw model output into exactly BatchSize normalized
// incidents. Pure; no network, no ledger.
func parseBatch(raw string) ([]types.GeneratedIncident, error) {
	var batch modelBatch
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}
	if len(batch.Incidents) < BatchSize {
		return nil, ErrIncompleteBatch
	}

	incidents := batch.Incidents[:BatchSize]
	for i := range incidents {
		normalizeIncident(&incidents[i])
	}
	return incidents, nil
}

// normalizeIncident forces the fixed placeholder fields, defaults missing
// values and clamps the detail list. Text fields the model omitted stay
// empty strings.
func normalizeIncident(inc *types.GeneratedIncident) {
	if inc.Severity == "" {
		inc.Severity = "Medium"
	}
	inc.Status = types.InitialStatus
	inc.Verdict = types.InitialVerdict
	inc.Assignee = types.InitialAssignee
	if inc.Details == nil {
		inc.Details = []types.IncidentDetail{}
	}
	if len(inc.Details) > maxDetails {
		inc.Details = inc.Details[:maxDetails]
	}
}

// resolveGroundTruth turns a validated batch into private records. The
// model's explicit boolean wins; a missing boolean defaults to true. If the
// batch would end up with no false positive at all, the last incident is
// forced to false so every batch keeps at least one benign alert.
// Pure; the caller mints tokens and writes the ledger.
func resolveGroundTruth(batch []types.GeneratedIncident, vulnSeeded bool) []types.PrivateRecord {
	falseCount := 0
	for _, inc := range batch {
		if inc.GroundTruth != nil && !*inc.GroundTruth {
			falseCount++
		}
	}

	records := make([]types.PrivateRecord, 0, len(batch))
	for i, inc := range batch {
		truth := true
		if inc.GroundTruth != nil {
			truth = *inc.GroundTruth
		}

		enforced := false
		if i == len(batch)-1 && falseCount == 0 {
			truth = false
			enforced = true
			falseCount++
		}

		reason := inc.GroundTruthReason
		if reason == "" {
			reason = defaultReason(truth, enforced, vulnSeeded && i == 0)
		}

		records = append(records, types.PrivateRecord{
			GroundTruth: truth,
			Reason:      reason,
			Full:        inc,
		})
	}
	return records
}

func defaultReason(truth, enforced, vulnSeeded bool) string {
	switch {
	case enforced:
		return "Benign activity that merely resembles an attack; no malicious indicators were confirmed."
	case !truth:
		return "Legitimate activity that triggered the detection; no malicious intent."
	case vulnSeeded:
		return "Exploitation attempt against a known actively exploited vulnerability."
	default:
		return "Malicious activity consistent with the described attack scenario."
	}
}
