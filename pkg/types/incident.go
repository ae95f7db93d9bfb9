package types

// Severity levels the generator is allowed to emit
var SeverityOptions = []string{"Low", "Medium", "High", "Critical"}

// Triage options presented to the analyst
var (
	StatusOptions   = []string{"New", "In progress", "Closed"}
	VerdictOptions  = []string{"None", "True Positive", "False Positive"}
	AssigneeOptions = []string{"None", "Me", "L2 analyst"}
)

// Placeholder values every freshly generated incident starts with
const (
	InitialStatus   = "Awaiting action"
	InitialVerdict  = "None"
	InitialAssignee = ""
)

// IncidentDetail is a single label/value row in an incident's detail list
// (Host, Process Name, SHA256, Destination, ...)
type IncidentDetail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// GeneratedIncident is one incident exactly as the model returned it,
// including the hidden ground-truth fields. It never leaves the server in
// this form.
type GeneratedIncident struct {
	Time        string           `json:"time"`
	Name        string           `json:"name"`
	Severity    string           `json:"severity"`
	Status      string           `json:"status"`
	Verdict     string           `json:"verdict"`
	Assignee    string           `json:"assignee"`
	Description string           `json:"description"`
	Details     []IncidentDetail `json:"details"`

	// Hidden fields. GroundTruth is a pointer so that "model said false"
	// and "model said nothing" stay distinguishable.
	GroundTruth       *bool  `json:"ground_truth,omitempty"`
	GroundTruthReason string `json:"ground_truth_reason,omitempty"`
}

// PublicIncident is the client-facing view of a generated incident. It
// carries an opaque Token correlating it with the server-side ground truth
// and never includes the ground-truth fields themselves.
type PublicIncident struct {
	ID          int              `json:"id"`
	Token       string           `json:"token"`
	Time        string           `json:"time"`
	Name        string           `json:"name"`
	Severity    string           `json:"severity"`
	Status      string           `json:"status"`
	Verdict     string           `json:"verdict"`
	Assignee    string           `json:"assignee"`
	Description string           `json:"description"`
	Details     []IncidentDetail `json:"details"`
}

// PrivateRecord is the server-only ground truth for one incident, stored in
// the ledger under the incident's token.
type PrivateRecord struct {
	GroundTruth bool
	Reason      string
	Full        GeneratedIncident
}

// GenerateResponse is the body returned by POST /api/siem/generate.
type GenerateResponse struct {
	Incidents []PublicIncident `json:"incidents"`
}

// EvaluationRequest is the analyst's submitted triage decision.
type EvaluationRequest struct {
	Token    string `json:"token"`
	Verdict  string `json:"verdict"`
	Status   string `json:"status"`
	Severity string `json:"severity"`
	Assignee string `json:"assignee"`
	Comment  string `json:"comment"`
}

// EvaluationResult combines the objective verdict check with the
// model-graded review of the analyst's written justification.
type EvaluationResult struct {
	Token             string `json:"token"`
	Verdict           string `json:"verdict"`
	GroundTruth       string `json:"groundTruth"`
	GroundTruthReason string `json:"groundTruthReason"`
	VerdictOK         string `json:"verdictOk"`
	Score             int    `json:"score"`
	Feedback          string `json:"feedback"`
	Summary           string `json:"summary"`
}
