// Package middleware provides composable wrappers for PlanStore backends,
// covering encryption at rest and masking of sensitive output fields.
package middleware

import "github.com/aretw0/voyant/pkg/ports"

// Middleware allows wrapping a PlanStore to add behavior.
type Middleware func(ports.PlanStore) ports.PlanStore
