package types

// VulnerabilitySeed is one entry sampled from the CISA Known Exploited
// Vulnerabilities feed. It feeds a single generation prompt and is never
// persisted.
type VulnerabilitySeed struct {
	CVEID             string `json:"cveID"`
	VendorProject     string `json:"vendorProject"`
	Product           string `json:"product"`
	VulnerabilityName string `json:"vulnerabilityName"`
	DateAdded         string `json:"dateAdded"`
	ShortDescription  string `json:"shortDescription"`
	RequiredAction    string `json:"requiredAction"`
	Notes             string `json:"notes"`
}

// BehaviorSeed is one cluster value sampled from a MISP-galaxy catalog
// (ransomware, stealer, rat or backdoor).
type BehaviorSeed struct {
	Source      string         `json:"source"`
	Category    string         `json:"category"`
	Value       string         `json:"value"`
	Description string         `json:"description"`
	Meta        map[string]any `json:"meta"`
	Related     []any          `json:"related"`
}
