package processor

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siemtrainer/pkg/types"
)

func boolPtr(b bool) *bool { return &b }

// batchJSON builds a model response with n incidents, each carrying the
// given ground_truth pointers (nil = field omitted).
func batchJSON(t *testing.T, truths ...*bool) string {
	t.Helper()

	incidents := make([]map[string]any, 0, len(truths))
	for i, truth := range truths {
		inc := map[string]any{
			"time":        "2025-03-21T13:58:00Z",
			"name":        fmt.Sprintf("Incident %d", i+1),
			"severity":    "High",
			"description": "Suspicious activity",
			"details": []map[string]string{
				{"label": "Host", "value": fmt.Sprintf("WS-%03d", i+1)},
			},
		}
		if truth != nil {
			inc["ground_truth"] = *truth
		}
		incidents = append(incidents, inc)
	}

	raw, err := json.Marshal(map[string]any{"incidents": incidents})
	require.NoError(t, err)
	return string(raw)
}

func TestParseBatchRejectsInvalidJSON(t *testing.T) {
	_, err := parseBatch("not json at all")
	require.ErrorIs(t, err, ErrBadModelOutput)
}

func TestParseBatchRejectsShortBatch(t *testing.T) {
	_, err := parseBatch(batchJSON(t, nil, nil))
	require.ErrorIs(t, err, ErrIncompleteBatch)

	_, err = parseBatch(`{"incidents": []}`)
	require.ErrorIs(t, err, ErrIncompleteBatch)

	_, err = parseBatch(`{}`)
	require.ErrorIs(t, err, ErrIncompleteBatch)
}

func TestParseBatchTruncatesToThree(t *testing.T) {
	batch, err := parseBatch(batchJSON(t, nil, nil, nil, nil, nil))
	require.NoError(t, err)
	assert.Len(t, batch, BatchSize)
}

func TestParseBatchNormalizesIncidents(t *testing.T) {
	details := make([]map[string]string, 0, 14)
	for i := 0; i < 14; i++ {
		details = append(details, map[string]string{"label": "Key", "value": fmt.Sprintf("v%d", i)})
	}
	raw, err := json.Marshal(map[string]any{
		"incidents": []map[string]any{
			{"name": "No severity", "status": "Closed", "verdict": "True Positive", "assignee": "Me"},
			{"name": "Too many details", "severity": "Low", "details": details},
			{"name": "Plain", "severity": "Critical"},
		},
	})
	require.NoError(t, err)

	batch, perr := parseBatch(string(raw))
	require.NoError(t, perr)

	// Missing severity defaults, placeholders always win over model output.
	assert.Equal(t, "Medium", batch[0].Severity)
	for _, inc := range batch {
		assert.Equal(t, types.InitialStatus, inc.Status)
		assert.Equal(t, types.InitialVerdict, inc.Verdict)
		assert.Equal(t, types.InitialAssignee, inc.Assignee)
		assert.NotNil(t, inc.Details)
	}
	assert.Len(t, batch[1].Details, maxDetails)
	assert.Empty(t, batch[2].Details)
}

func TestResolveGroundTruth(t *testing.T) {
	tests := []struct {
		name       string
		truths     []*bool
		vulnSeeded bool
		want       []bool
	}{
		{
			name:   "all explicit true forces last to false",
			truths: []*bool{boolPtr(true), boolPtr(true), boolPtr(true)},
			want:   []bool{true, true, false},
		},
		{
			name:   "all missing defaults true and forces last to false",
			truths: []*bool{nil, nil, nil},
			want:   []bool{true, true, false},
		},
		{
			name:   "explicit false in the middle is preserved",
			truths: []*bool{boolPtr(true), boolPtr(false), boolPtr(true)},
			want:   []bool{true, false, true},
		},
		{
			name:   "explicit false on the last item needs no override",
			truths: []*bool{nil, nil, boolPtr(false)},
			want:   []bool{true, true, false},
		},
		{
			name:   "multiple explicit falses survive",
			truths: []*bool{boolPtr(false), boolPtr(false), nil},
			want:   []bool{false, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := parseBatch(batchJSON(t, tt.truths...))
			require.NoError(t, err)

			records := resolveGroundTruth(batch, tt.vulnSeeded)
			require.Len(t, records, BatchSize)

			for i, rec := range records {
				assert.Equal(t, tt.want[i], rec.GroundTruth, "incident %d", i+1)
				assert.NotEmpty(t, rec.Reason, "incident %d should always carry a reason", i+1)
			}

			// Every batch keeps at least one false positive.
			falses := 0
			for _, rec := range records {
				if !rec.GroundTruth {
					falses++
				}
			}
			assert.GreaterOrEqual(t, falses, 1)
		})
	}
}

func TestResolveGroundTruthKeepsModelReason(t *testing.T) {
	batch, err := parseBatch(batchJSON(t, boolPtr(true), boolPtr(false), boolPtr(true)))
	require.NoError(t, err)
	batch[1].GroundTruthReason = "Scheduled backup job copying archives offsite."

	records := resolveGroundTruth(batch, false)
	assert.Equal(t, "Scheduled backup job copying archives offsite.", records[1].Reason)
}

func TestResolveGroundTruthVulnSeededReason(t *testing.T) {
	batch, err := parseBatch(batchJSON(t, nil, nil, nil))
	require.NoError(t, err)

	records := resolveGroundTruth(batch, true)
	assert.Contains(t, records[0].Reason, "vulnerability")
}
