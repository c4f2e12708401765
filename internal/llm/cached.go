package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/curator/internal/cache"
	"github.com/ppiankov/curator/internal/logging"
	"github.com/ppiankov/curator/internal/model"
)

// CachingLabeler serves repeated (claim, evidence) pairs from a cache and
// forwards only the misses to the wrapped labeler.
type CachingLabeler struct {
	inner StanceLabeler
	cache cache.Cache
	ttl   time.Duration
}

// NewCachingLabeler wraps inner with c
func NewCachingLabeler(inner StanceLabeler, c cache.Cache, ttl time.Duration) *CachingLabeler {
	return &CachingLabeler{inner: inner, cache: c, ttl: ttl}
}

// Name returns the wrapped labeler's name
func (c *CachingLabeler) Name() string {
	return c.inner.Name()
}

// Label returns cached labels where present and labels the rest in one call
func (c *CachingLabeler) Label(ctx context.Context, req LabelRequest) ([]Label, error) {
	labels := make([]Label, len(req.Evidence))
	keys := make([]string, len(req.Evidence))
	var missIdx []int
	var misses []model.EvidenceCandidate

	for i, ev := range req.Evidence {
		keys[i] = cache.Key("stance", c.inner.Name(), req.Claim, ev.URL, ev.Body())
		if data, ok := c.cache.Get(keys[i]); ok {
			if err := json.Unmarshal(data, &labels[i]); err == nil {
				continue
			}
		}
		missIdx = append(missIdx, i)
		misses = append(misses, ev)
	}

	if len(misses) == 0 {
		return labels, nil
	}

	fresh, err := c.inner.Label(ctx, LabelRequest{Claim: req.Claim, Evidence: misses})
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(misses) {
		return nil, fmt.Errorf("%s returned %d labels for %d items", c.inner.Name(), len(fresh), len(misses))
	}

	for j, i := range missIdx {
		labels[i] = fresh[j]
		data, err := json.Marshal(fresh[j])
		if err != nil {
			continue
		}
		if err := c.cache.Set(keys[i], data, c.ttl); err != nil {
			logging.Debug("stance cache write failed", "err", err)
		}
	}
	return labels, nil
}
