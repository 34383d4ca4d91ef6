package market

// Contract constants shared by the engine, the controller and every front-end.
const (
	PriceMin     = 1.0
	PriceMax     = 100.0
	DefaultPrice = 50.0

	SearchCeiling         = 100.0 // upper bound of the profit scan
	SearchStep            = 0.1   // profit scan increment
	MaximizationTolerance = 1.0   // |price - maxPrice| below this counts as maximized
)

// Condition holds the parameters of the linear demand model.
// It is a value type: changes produce a new Condition.
type Condition struct {
	MaxDemand         float64 `json:"maxDemand"`
	DemandSensitivity float64 `json:"demandSensitivity"`
	CostPerUnit       float64 `json:"costPerUnit"`
	Description       string  `json:"description"`
}

// DefaultCondition returns the market a session starts with and resets to.
func DefaultCondition() Condition {
	return Condition{
		MaxDemand:         1000,
		DemandSensitivity: 10,
		CostPerUnit:       20,
		Description:       "Normal market conditions",
	}
}

// Apply folds an event's multipliers into c and returns the new condition.
// Cost per unit is left untouched.
func (c Condition) Apply(e Event) Condition {
	return Condition{
		MaxDemand:         c.MaxDemand * e.MaxDemandMultiplier,
		DemandSensitivity: c.DemandSensitivity * e.SensitivityMultiplier,
		CostPerUnit:       c.CostPerUnit,
		Description:       e.Description,
	}
}

// PriceInRange reports whether p lies in [PriceMin, PriceMax].
func PriceInRange(p float64) bool {
	return p >= PriceMin && p <= PriceMax
}

// ClampPrice pins p into [PriceMin, PriceMax].
func ClampPrice(p float64) float64 {
	if p < PriceMin {
		return PriceMin
	}
	if p > PriceMax {
		return PriceMax
	}
	return p
}
