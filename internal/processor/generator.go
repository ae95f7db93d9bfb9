package processor

import (
	"context"
	"errors"
	"log"
	"sync"

	"siemtrainer/internal/ledger"
	"siemtrainer/internal/metrics"
	"siemtrainer/pkg/llm"
	"siemtrainer/pkg/types"
)

// vulnerabilitySource yields one vulnerability seed per call.
type vulnerabilitySource interface {
	RandomVulnerability(ctx context.Context) (*types.VulnerabilitySeed, error)
}

// behaviorSource yields two behavior seeds from two distinct categories.
type behaviorSource interface {
	TwoDistinctBehaviors(ctx context.Context) ([]types.BehaviorSeed, error)
}

// Generator runs the incident generation pipeline: seeds -> prompt ->
// model -> batch repair -> ledger write -> public batch.
type Generator struct {
	provider  llm.Provider
	vulns     vulnerabilitySource
	behaviors behaviorSource
	ledger    *ledger.Ledger
}

// NewGenerator creates a new incident generator.
func NewGenerator(provider llm.Provider, vulns vulnerabilitySource, behaviors behaviorSource, led *ledger.Ledger) *Generator {
	return &Generator{
		provider:  provider,
		vulns:     vulns,
		behaviors: behaviors,
		ledger:    led,
	}
}

// Generate produces one batch of three public incidents and records their
// ground truth in the ledger. Seed failures degrade to fallback prompting;
// model failures fail the request outward.
func (g *Generator) Generate(ctx context.Context) ([]types.PublicIncident, error) {
	vuln, behaviorSeeds := g.gatherSeeds(ctx)

	system, user := llm.BuildGenerationPrompt(vuln, behaviorSeeds)

	raw, err := g.provider.Complete(ctx, system, user)
	if err != nil {
		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			metrics.GenerationsTotal.WithLabelValues("upstream_error").Inc()
		} else {
			metrics.GenerationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	batch, err := parseBatch(raw)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("bad_output").Inc()
		return nil, err
	}

	records := resolveGroundTruth(batch, vuln != nil)

	public := make([]types.PublicIncident, 0, len(records))
	for i, rec := range records {
		token := g.ledger.Mint(rec)
		inc := rec.Full
		public = append(public, types.PublicIncident{
			ID:          i + 1,
			Token:       token,
			Time:        inc.Time,
			Name:        inc.Name,
			Severity:    inc.Severity,
			Status:      inc.Status,
			Verdict:     inc.Verdict,
			Assignee:    inc.Assignee,
			Description: inc.Description,
			Details:     inc.Details,
		})
	}

	metrics.GenerationsTotal.WithLabelValues("ok").Inc()
	return public, nil
}

// gatherSeeds fetches the vulnerability seed and the behavior pair
// concurrently. Either fetch may fail independently; a failure is logged
// and the corresponding seed is simply absent from the prompt.
func (g *Generator) gatherSeeds(ctx context.Context) (*types.VulnerabilitySeed, []types.BehaviorSeed) {
	var (
		wg            sync.WaitGroup
		vuln          *types.VulnerabilitySeed
		behaviorSeeds []types.BehaviorSeed
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		v, err := g.vulns.RandomVulnerability(ctx)
		if err != nil {
			log.Printf("KEV seed unavailable, continuing without it: %v", err)
			metrics.SeedFetchFailures.WithLabelValues("kev").Inc()
			return
		}
		vuln = v
	}()
	go func() {
		defer wg.Done()
		seeds, err := g.behaviors.TwoDistinctBehaviors(ctx)
		if err != nil {
			log.Printf("Behavior seeds unavailable, continuing without them: %v", err)
			metrics.SeedFetchFailures.WithLabelValues("misp").Inc()
			return
		}
		behaviorSeeds = seeds
	}()
	wg.Wait()

	return vuln, behaviorSeeds
}
