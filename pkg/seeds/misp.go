package seeds

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"siemtrainer/pkg/types"
)

// CatalogTTL is how long a fetched behavior catalog is reused before it is
// refetched on next access. There is no background refresh.
const CatalogTTL = 12 * time.Hour

// DefaultBehaviorSources maps each behavior category to its MISP-galaxy
// cluster file.
var DefaultBehaviorSources = map[string]string{
	"ransomware": "https://raw.githubusercontent.com/MISP/misp-galaxy/main/clusters/ransomware.json",
	"stealer":    "https://raw.githubusercontent.com/MISP/misp-galaxy/main/clusters/stealer.json",
	"rat":        "https://raw.githubusercontent.com/MISP/misp-galaxy/main/clusters/rat.json",
	"backdoor":   "https://raw.githubusercontent.com/MISP/misp-galaxy/main/clusters/backdoor.json",
}

// maxDescriptionLen bounds the description carried into a prompt.
const maxDescriptionLen = 600

type catalogEntry struct {
	payload   catalogFile
	fetchedAt time.Time
}

type catalogFile struct {
	Values []clusterValue `json:"values"`
}

type clusterValue struct {
	Value       string         `json:"value"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Meta        map[string]any `json:"meta"`
	Related     []any          `json:"related"`
}

// MISPClient fetches MISP-galaxy behavior catalogs with a per-URL TTL cache
// and samples behavior seeds from them. Safe for concurrent use; two
// simultaneous cache misses may both fetch, last write wins.
type MISPClient struct {
	sources map[string]string
	ttl     time.Duration
	client  *http.Client

	mu    sync.RWMutex
	cache map[string]catalogEntry

	now func() time.Time
}

// NewMISPClient creates a behavior seed client. Nil sources selects the
// MISP-galaxy defaults, a zero ttl selects the 12h default.
func NewMISPClient(sources map[string]string, ttl time.Duration, timeout time.Duration) *MISPClient {
	if len(sources) == 0 {
		sources = DefaultBehaviorSources
	}
	if ttl <= 0 {
		ttl = CatalogTTL
	}
	if timeout <= 0 {
		timeout = DefaultKEVTimeout
	}
	return &MISPClient{
		sources: sources,
		ttl:     ttl,
		client:  &http.Client{Timeout: timeout},
		cache:   make(map[string]catalogEntry),
		now:     time.Now,
	}
}

// Categories returns the configured category names.
func (c *MISPClient) Categories() []string {
	cats := make([]string, 0, len(c.sources))
	for cat := range c.sources {
		cats = append(cats, cat)
	}
	return cats
}

func (c *MISPClient) fetchCatalog(ctx context.Context, url string) (catalogFile, error) {
	c.mu.RLock()
	entry, ok := c.cache[url]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry.payload, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return catalogFile{}, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return catalogFile{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return catalogFile{}, fmt.Errorf("catalog %s returned status %d", url, resp.StatusCode)
	}

	var payload catalogFile
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return catalogFile{}, fmt.Errorf("failed to decode catalog %s: %w", url, err)
	}

	c.mu.Lock()
	c.cache[url] = catalogEntry{payload: payload, fetchedAt: c.now()}
	c.mu.Unlock()

	return payload, nil
}

// RandomBehavior samples one value from the named category's catalog.
func (c *MISPClient) RandomBehavior(ctx context.Context, category string) (*types.BehaviorSeed, error) {
	url, ok := c.sources[category]
	if !ok {
		return nil, fmt.Errorf("unknown behavior category: %s", category)
	}

	catalog, err := c.fetchCatalog(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(catalog.Values) == 0 {
		return nil, fmt.Errorf("catalog %s contained no values", category)
	}

	v := catalog.Values[rand.Intn(len(catalog.Values))]

	name := v.Value
	if name == "" {
		name = v.Name
	}
	if name == "" {
		name = "Unknown"
	}

	desc := v.Description
	if len(desc) > maxDescriptionLen {
		desc = desc[:maxDescriptionLen]
	}

	meta := v.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	related := v.Related
	if related == nil {
		related = []any{}
	}

	return &types.BehaviorSeed{
		Source:      "misp-galaxy",
		Category:    category,
		Value:       name,
		Description: desc,
		Meta:        meta,
		Related:     related,
	}, nil
}

// TwoDistinctBehaviors samples one seed from each of two randomly chosen
// distinct categories. The two fetches run concurrently. If either fails
// the whole pair is reported unavailable so callers never see a half
// populated pair.
func (c *MISPClient) TwoDistinctBehaviors(ctx context.Context) ([]types.BehaviorSeed, error) {
	cats := c.Categories()
	if len(cats) < 2 {
		return nil, fmt.Errorf("need at least two behavior categories, have %d", len(cats))
	}
	rand.Shuffle(len(cats), func(i, j int) { cats[i], cats[j] = cats[j], cats[i] })
	chosen := cats[:2]

	seeds := make([]*types.BehaviorSeed, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i, cat := range chosen {
		wg.Add(1)
		go func(i int, cat string) {
			defer wg.Done()
			seeds[i], errs[i] = c.RandomBehavior(ctx, cat)
		}(i, cat)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return []types.BehaviorSeed{*seeds[0], *seeds[1]}, nil
}
