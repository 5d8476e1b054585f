package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
)

type piiMiddleware struct {
	next     ports.PlanStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks output values whose keys
// match the patterns before they reach the backend. Loaded snapshots are
// returned as stored; masking is one-way.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.PlanStore) ports.PlanStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, planRunID string, state *domain.PlanState) error {
	// Deep clone so the executor's in-memory state is untouched.
	cloned := *state
	cloned.Outputs = deepCopyMap(state.Outputs)

	maskMap(cloned.Outputs, m.patterns)

	return m.next.Save(ctx, planRunID, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, planRunID string) (*domain.PlanState, error) {
	return m.next.Load(ctx, planRunID)
}

func (m *piiMiddleware) Delete(ctx context.Context, planRunID string) error {
	return m.next.Delete(ctx, planRunID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}

		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
