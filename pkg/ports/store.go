package ports

import (
	"context"

	"github.com/aretw0/voyant/pkg/domain"
)

// PlanStore defines the interface for persisting plan-run state.
// The planning service writes a fresh snapshot on every transition; readers
// always see a whole state, never a partial update.
type PlanStore interface {
	// Save persists the state for a given plan run ID.
	Save(ctx context.Context, planRunID string, state *domain.PlanState) error

	// Load retrieves the state for a given plan run ID.
	// Returns domain.ErrPlanNotFound if the run does not exist.
	Load(ctx context.Context, planRunID string) (*domain.PlanState, error)

	// Delete removes the state for a given plan run ID.
	Delete(ctx context.Context, planRunID string) error

	// List returns the IDs of known plan runs.
	List(ctx context.Context) ([]string, error)
}
