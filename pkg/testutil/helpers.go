// Package testutil provides common utility functions for testing.
package testutil

import (
	"strings"

	"github.com/iwvelando/study-estimator/internal/estimator"
	"github.com/iwvelando/study-estimator/pkg/mathutil"
)

// FindStudy finds a study line by its configuration id (for example
// "arc_flash"). Returns nil when the study was not priced.
func FindStudy(cost *estimator.CostBreakdown, id string) *estimator.StudyResult {
	if cost == nil {
		return nil
	}
	for i := range cost.Studies {
		if cost.Studies[i].ID == id {
			return &cost.Studies[i]
		}
	}
	return nil
}

// FindAdditiveItem finds the first additive charge whose name starts with
// prefix, so "Site visits" matches "Site visits (2)".
func FindAdditiveItem(cost *estimator.CostBreakdown, prefix string) *estimator.LineItem {
	if cost == nil {
		return nil
	}
	for i := range cost.AdditiveItems {
		if strings.HasPrefix(cost.AdditiveItems[i].Name, prefix) {
			return &cost.AdditiveItems[i]
		}
	}
	return nil
}

// AlmostEqual reports whether two amounts agree within tolerance.
func AlmostEqual(a, b, tolerance float64) bool {
	return mathutil.WithinTolerance(a, b, tolerance)
}
