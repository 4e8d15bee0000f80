// Package model defines domain types used by the service.
package model

// RiskLevel is the categorical bucket derived from a risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Decision labels.
const (
	DecisionReorder = "Immediate Reorder Recommended"
	DecisionMonitor = "Monitor Inventory Trend"
	DecisionStable  = "Inventory Stable"
)

// Input holds the typed attributes a caller supplies to create an item.
type Input struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	MonthlyDemand float64 `json:"monthlyDemand"`
	RestockTime   float64 `json:"restockTime"`
}

// Item is a catalog entry together with its derived risk fields.
//
// Items are never edited once created, so the derived fields are computed a
// single time in the store.
type Item struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Price          float64   `json:"price"`
	Quantity       int       `json:"quantity"`
	MonthlyDemand  float64   `json:"monthlyDemand"`
	RestockTime    float64   `json:"restockTime"`
	RiskScore      int       `json:"riskScore"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	Decision       string    `json:"decision"`
	DecisionReason string    `json:"decisionReason"`
}

// Input returns the user-supplied attributes of the item.
func (it Item) Input() Input {
	return Input{
		Name:          it.Name,
		Category:      it.Category,
		Price:         it.Price,
		Quantity:      it.Quantity,
		MonthlyDemand: it.MonthlyDemand,
		RestockTime:   it.RestockTime,
	}
}
