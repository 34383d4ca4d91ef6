package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/ndrandal/price-simulator/internal/market"
)

// Gauge scales used by the metrics read-outs.
const (
	demandGaugeFull = 1000.0
	profitGaugeFull = 30000.0

	// MaxCurvePoints bounds the number of samples Curve will produce.
	MaxCurvePoints = 2001
)

// Demand returns the quantity sold at price under c.
// Demand = maxDemand - price*sensitivity, floored at zero. Price is not range-checked.
func Demand(price float64, c market.Condition) float64 {
	demand := c.MaxDemand - price*c.DemandSensitivity
	return math.Max(0, demand)
}

// Profit returns (price - cost) * demand. Negative results are kept.
func Profit(price, demand, costPerUnit float64) float64 {
	return (price - costPerUnit) * demand
}

// Maximum is the outcome of a profit-maximizing scan.
type Maximum struct {
	Price  float64 `json:"maxPrice"`
	Profit float64 `json:"maxProfit"`
}

// FindMaximumProfit scans prices from c.CostPerUnit up to market.SearchCeiling
// in market.SearchStep increments and returns the first price reaching the
// highest profit. If nothing beats zero profit the result is (cost, 0).
func FindMaximumProfit(c market.Condition) Maximum {
	best := Maximum{Price: c.CostPerUnit, Profit: 0}

	// The step accumulates in float64 so results match a plain additive scan.
	for price := c.CostPerUnit; price <= market.SearchCeiling; price += market.SearchStep {
		demand := Demand(price, c)
		profit := Profit(price, demand, c.CostPerUnit)
		if profit > best.Profit {
			best = Maximum{Price: price, Profit: profit}
		}
	}
	return best
}

// Point is one sample of the demand/profit curve.
type Point struct {
	Price  float64 `json:"price"`
	Demand float64 `json:"demand"`
	Profit float64 `json:"profit"`
}

var errInvalidStep = errors.New("curve step must be positive")

// Curve samples demand and profit for prices in [from, to] at the given step.
func Curve(c market.Condition, from, to, step float64) ([]Point, error) {
	if step <= 0 || math.IsNaN(step) {
		return nil, errInvalidStep
	}
	if math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) {
		return nil, fmt.Errorf("curve range must be finite: [%v, %v]", from, to)
	}
	if from > to {
		return nil, fmt.Errorf("curve range inverted: from %.2f > to %.2f", from, to)
	}
	span := math.Floor((to-from)/step+1e-9) + 1
	if span > MaxCurvePoints {
		return nil, fmt.Errorf("curve would have %.0f points, limit is %d", span, MaxCurvePoints)
	}
	n := int(span)

	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		price := from + float64(i)*step
		demand := Demand(price, c)
		points = append(points, Point{
			Price:  price,
			Demand: demand,
			Profit: Profit(price, demand, c.CostPerUnit),
		})
	}
	return points, nil
}

// DemandGauge returns demand as a percentage of a 1000-unit gauge, clamped to [0, 100].
func DemandGauge(demand float64) float64 {
	return clampPercent(demand / demandGaugeFull * 100)
}

// ProfitGauge returns profit as a percentage of a 30000 gauge, clamped to [0, 100].
func ProfitGauge(profit float64) float64 {
	return clampPercent(profit / profitGaugeFull * 100)
}

func clampPercent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
