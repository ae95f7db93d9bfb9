package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siemtrainer/pkg/types"
)

func TestBuildGenerationPromptWithAllSeeds(t *testing.T) {
	vuln := &types.VulnerabilitySeed{
		CVEID:             "CVE-2024-9999",
		VendorProject:     "AcmeCorp",
		Product:           "EdgeGate",
		VulnerabilityName: "EdgeGate RCE",
		ShortDescription:  "Unauthenticated remote code execution.",
	}
	behaviors := []types.BehaviorSeed{
		{Category: "ransomware", Value: "LockFamily", Description: "Encrypts and extorts."},
		{Category: "stealer", Value: "GrabFamily", Description: "Harvests credentials."},
	}

	system, user := BuildGenerationPrompt(vuln, behaviors)

	// Seeds are embedded so the model can draw on them.
	assert.Contains(t, system, "CVE-2024-9999")
	assert.Contains(t, system, "LockFamily")

	// Masking clauses forbid leaking them.
	assert.Contains(t, system, "do NOT mention the CVE identifier")
	assert.Contains(t, system, "never name the malware family")
	assert.Contains(t, system, "ground_truth false")

	// Fixed contract is always present.
	assert.Contains(t, system, `"incidents"`)
	assert.Contains(t, system, `{"Low","Medium","High","Critical"}`)
	assert.Contains(t, system, "Awaiting action")
	assert.Contains(t, system, "must differ in attack type")
	assert.Contains(t, system, "never repeat across the batch")

	assert.Contains(t, user, "Generate three incidents now")
}

func TestBuildGenerationPromptFallsBackWithoutSeeds(t *testing.T) {
	system, user := BuildGenerationPrompt(nil, nil)

	require.NotEmpty(t, system)
	require.NotEmpty(t, user)

	assert.Contains(t, system, "varied generic attack type")
	assert.NotContains(t, system, "CVE identifier")
	assert.NotContains(t, system, "behavior profiles")

	// The false-positive requirement survives the fallback path.
	assert.Contains(t, system, "ground_truth false")
	// And so does the full output contract.
	assert.Contains(t, system, `"incidents"`)
}

func TestBuildGenerationPromptPartialSeeds(t *testing.T) {
	vuln := &types.VulnerabilitySeed{CVEID: "CVE-2024-1111"}

	system, _ := BuildGenerationPrompt(vuln, nil)
	assert.Contains(t, system, "CVE-2024-1111")
	assert.Contains(t, system, "varied generic attack types")

	system, _ = BuildGenerationPrompt(nil, []types.BehaviorSeed{
		{Category: "rat", Value: "RemoteFam"},
		{Category: "backdoor", Value: "DoorFam"},
	})
	assert.Contains(t, system, "RemoteFam")
	assert.NotContains(t, system, "CVE identifier")
}

func TestBuildGradingPromptCarriesHiddenTruth(t *testing.T) {
	truth := true
	rec := types.PrivateRecord{
		GroundTruth: false,
		Reason:      "Approved red-team exercise.",
		Full: types.GeneratedIncident{
			Name:              "Lateral Movement via SMB",
			Severity:          "High",
			GroundTruth:       &truth, // stale copy, must not leak into the context
			GroundTruthReason: "stale",
		},
	}
	req := types.EvaluationRequest{
		Token:   "tok",
		Verdict: "False Positive",
		Comment: "Change ticket CHG-1234 covers this activity.",
	}

	system, user := BuildGradingPrompt(rec, req)

	assert.Contains(t, system, "STRICT JSON")
	assert.Contains(t, system, `"score"`)

	assert.Contains(t, user, "Approved red-team exercise.")
	assert.Contains(t, user, "False Positive")
	assert.Contains(t, user, "CHG-1234")
	assert.Contains(t, user, `"ground_truth":false`)
	// The incident copy is scrubbed; the only truth is the resolved one.
	assert.False(t, strings.Contains(user, "stale"))
}
