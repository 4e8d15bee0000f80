// Package risk computes the reorder risk of an inventory item.
//
// All functions are pure. Inputs are expected to have passed
// model.Input.Validate; no further checks are made here.
package risk

import (
	"math"

	"github.com/fairyhunter13/inventory-risk-advisor/internal/model"
)

const (
	stockBuffer      = 10
	restockSaturate  = 14.0
	highValuePrice   = 5000
	demandWeight     = 40
	restockWeight    = 30
	priceWeight      = 30
	maxScore         = 100
	lowLevelCeiling  = 30
	midLevelCeiling  = 60
	reorderThreshold = 70
	monitorThreshold = 40
)

// Decision is a recommendation label with its explanation.
type Decision struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

// Assessment bundles every derived field for one item.
type Assessment struct {
	Score    int
	Level    model.RiskLevel
	Decision Decision
}

// Raw returns the unrounded, uncapped weighted score.
func Raw(in model.Input) float64 {
	demandRatio := in.MonthlyDemand / float64(in.Quantity+stockBuffer)
	restockFactor := math.Min(in.RestockTime/restockSaturate, 1)
	priceFactor := 0.1
	if in.Price > highValuePrice {
		priceFactor = 0.2
	}
	return demandRatio*demandWeight + restockFactor*restockWeight + priceFactor*priceWeight
}

// Score rounds Raw to the nearest integer and caps it at 100. The cap is
// applied before the int conversion so huge or infinite raw values stay in
// range.
func Score(in model.Input) int {
	return int(math.Min(math.Round(Raw(in)), maxScore))
}

// LevelFor maps a score onto Low (<=30), Medium (31..60) or High (>=61).
func LevelFor(score int) model.RiskLevel {
	switch {
	case score <= lowLevelCeiling:
		return model.RiskLow
	case score <= midLevelCeiling:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// DecisionFor maps a score onto a recommendation. Its thresholds (40/70) are
// independent of the level ladder in LevelFor.
func DecisionFor(score int) Decision {
	if score >= reorderThreshold {
		return Decision{
			Label:  model.DecisionReorder,
			Reason: "High demand pressure combined with low availability or delayed restocking",
		}
	}
	if score >= monitorThreshold {
		return Decision{
			Label:  model.DecisionMonitor,
			Reason: "Moderate risk detected based on demand and restock patterns",
		}
	}
	return Decision{
		Label:  model.DecisionStable,
		Reason: "Current stock levels are sufficient for projected demand",
	}
}

// Assess scores in and derives level and decision from that score.
func Assess(in model.Input) Assessment {
	s := Score(in)
	return Assessment{Score: s, Level: LevelFor(s), Decision: DecisionFor(s)}
}

// Consistent reports whether the derived fields of it agree with its score.
func Consistent(it model.Item) bool {
	d := DecisionFor(it.RiskScore)
	return it.RiskScore >= 0 && it.RiskScore <= maxScore &&
		it.RiskLevel == LevelFor(it.RiskScore) &&
		it.Decision == d.Label && it.DecisionReason == d.Reason
}
