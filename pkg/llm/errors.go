package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned before any network call when the selected
// provider has no credential configured.
var ErrMissingAPIKey = errors.New("missing API key for LLM provider")

// UpstreamError reports a non-success response from a provider. Body
// carries the provider's raw error text for diagnostics.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}
