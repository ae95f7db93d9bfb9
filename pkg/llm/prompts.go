package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"siemtrainer/pkg/types"
)

// generationContract is the fixed tail of every generation prompt: output
// shape, allowed values and batch-level consistency rules.
const generationContract = `
JSON schema (return exactly this top-level shape):
{
  "incidents": [
    {
      "time": "2025-03-21T13:58:00Z",
      "name": "Name of the incident",
      "severity": "High",
      "status": "Awaiting action",
      "verdict": "None",
      "assignee": "",
      "description": "…",
      "details": [
        {"label":"Host","value":"…"},
        {"label":"Process Name","value":"…"}
      ],
      "ground_truth": true,
      "ground_truth_reason": "One sentence explaining why this alert is (or is not) actually malicious."
    }, {…}, {…}
  ]
}

Rules:
- Severity in {"Low","Medium","High","Critical"}.
- Status ALWAYS "Awaiting action"; verdict ALWAYS "None"; assignee empty string.
- "time" should be recent (today) in ISO 8601 with minutes precision.
- "details" should be an array of 5-10 key/value pairs tailored to the alert type
  (Host, Process Name, User, Target File, File MoTW, MD5/SHA256, Destination, Source IP, etc.).
- "description" concise (1-2 sentences).
- The three incidents must differ in attack type.
- Fabricated artifacts (hostnames, hashes, IPs, URLs, usernames) must be internally
  consistent within an incident and must never repeat across the batch.
- "ground_truth" and "ground_truth_reason" are for the trainer only; never hint at
  them inside the visible fields.`

// BuildGenerationPrompt composes the system and user instructions for one
// incident batch. Seed arguments may be nil/empty; composition never blocks
// on seed availability, it substitutes generic clauses instead.
func BuildGenerationPrompt(vuln *types.VulnerabilitySeed, behaviors []types.BehaviorSeed) (string, string) {
	var b strings.Builder

	b.WriteString("You are a SOC incident generator. Produce three highly realistic SIEM alerts for L1 triage.\n")
	b.WriteString("Return STRICT JSON that matches the schema below, no extra text.\n")
	b.WriteString("Keep every alert believable and internally consistent (hosts, processes, filenames, IPs, hashes, URLs).\n\n")

	if vuln != nil {
		seedJSON, _ := json.Marshal(vuln)
		b.WriteString("Incident 1 must be an exploitation attempt based on this real vulnerability:\n")
		b.WriteString(string(seedJSON))
		b.WriteString("\nMasking rules for incident 1: do NOT mention the CVE identifier, the advisory source, ")
		b.WriteString("or any vendor, product or brand name from the seed. Describe the affected system generically ")
		b.WriteString("(e.g. \"an internet-facing VPN appliance\"). Its ground_truth must be true.\n\n")
	} else {
		b.WriteString("Incident 1: produce one incident with a varied generic attack type ")
		b.WriteString("(e.g. phishing/double-extension, exfiltration, powershell persistence, credential theft).\n\n")
	}

	if len(behaviors) == 2 {
		b.WriteString("Incidents 2 and 3 must be based one-for-one on these adversary behavior profiles:\n")
		for i, seed := range behaviors {
			seedJSON, _ := json.Marshal(seed)
			b.WriteString(fmt.Sprintf("Profile for incident %d: %s\n", i+2, seedJSON))
		}
		b.WriteString("Masking rules for incidents 2 and 3: never name the malware family, tool or campaign ")
		b.WriteString("from the profile; refer to it only by generic role nouns (\"a remote access tool\", ")
		b.WriteString("\"an information stealer\", \"ransomware\"). Exactly ONE of these two incidents must have ")
		b.WriteString("ground_truth false: make that one a benign event that merely looks suspicious, with a ")
		b.WriteString("plausible innocent explanation in ground_truth_reason.\n")
	} else {
		b.WriteString("Incidents 2 and 3: produce the remaining incidents using varied generic attack types. ")
		b.WriteString("Exactly ONE of the three incidents overall must have ground_truth false with a plausible ")
		b.WriteString("benign explanation.\n")
	}

	b.WriteString(generationContract)

	user := "Generate three incidents now. Return ONLY the JSON described."
	return b.String(), user
}

// gradingContext is everything the grader sees: the incident as the analyst
// saw it, the hidden truth, and the analyst's full submission.
type gradingContext struct {
	Incident       types.GeneratedIncident `json:"incident"`
	GroundTruth    bool                    `json:"ground_truth"`
	GroundTruthTag string                  `json:"ground_truth_label"`
	Reason         string                  `json:"ground_truth_reason"`
	Analyst        types.EvaluationRequest `json:"analyst_submission"`
}

const gradingSystem = `You are a senior SOC mentor reviewing an L1 analyst's triage of a training alert.
You receive the alert, the hidden ground truth, and the analyst's submitted verdict and written 5W justification (who/what/where/when/why).
Grade the WRITTEN JUSTIFICATION, not just the verdict:
- Did the analyst reference the actual evidence in the alert details?
- Is the reasoning consistent with the verdict they chose?
- Did they cover the 5W aspects?
Return STRICT JSON, no extra text:
{
  "score": 0-100 integer rating the justification quality,
  "feedback": "2-4 sentences of tailored feedback for the analyst",
  "summary": "one or two sentences summarizing the incident and the triage outcome"
}`

// BuildGradingPrompt composes the grading instructions for one evaluation.
// The hidden fields travel in the user payload only; they are stripped from
// the incident copy to keep a single source for the truth value.
func BuildGradingPrompt(rec types.PrivateRecord, req types.EvaluationRequest) (string, string) {
	label := "True Positive"
	if !rec.GroundTruth {
		label = "False Positive"
	}

	visible := rec.Full
	visible.GroundTruth = nil
	visible.GroundTruthReason = ""

	ctx := gradingContext{
		Incident:       visible,
		GroundTruth:    rec.GroundTruth,
		GroundTruthTag: label,
		Reason:         rec.Reason,
		Analyst:        req,
	}

	payload, _ := json.Marshal(ctx)
	return gradingSystem, string(payload)
}
