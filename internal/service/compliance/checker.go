package compliance

import (
	"github.com/gapwatch/asset-risk-backend/internal/domain/asset"
	"github.com/gapwatch/asset-risk-backend/internal/domain/gap"
)

// Checker inspects an asset against one compliance framework. Rules
// inside a checker are independent boolean checks: a failed rule emits
// exactly one gap and never suppresses another rule's gap.
type Checker interface {
	// Framework identifies which framework the checker covers.
	Framework() gap.Framework

	// AppliesTo is the applicability gate evaluated before AssessGaps.
	// Gates are independent across checkers; several frameworks may
	// apply to the same asset.
	AppliesTo(a *asset.Asset) bool

	// AssessGaps returns zero or more gaps for the asset. It must be a
	// pure function of the asset's attributes.
	AssessGaps(a *asset.Asset) ([]*gap.Gap, error)
}

// DefaultCheckers returns the standard checker set in evaluation order.
func DefaultCheckers() []Checker {
	return []Checker{
		NewGDPRChecker(),
		NewSOC2Checker(),
		NewNISTChecker(),
	}
}
