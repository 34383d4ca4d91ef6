package market

import (
	"errors"
	"fmt"
)

// Event is a named multiplicative shock to the current market condition.
type Event struct {
	ID                    int     `json:"id"`
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	MaxDemandMultiplier   float64 `json:"maxDemandMultiplier"`
	SensitivityMultiplier float64 `json:"sensitivityMultiplier"`
}

// AllEvents returns the 20 catalog events in id order.
// The ids, names and multipliers are part of the external contract.
func AllEvents() []Event {
	return []Event{
		{1, "Market Crash", "Economic downturn has reduced overall demand in the market.", 0.6, 1.2},
		{2, "New Competitor", "A new competitor has entered the market, making customers more price sensitive.", 0.9, 1.5},
		{3, "Viral Trend", "Your product is trending on social media, increasing overall demand.", 1.2, 0.8},
		{4, "Seasonal Demand", "Seasonal factors have temporarily changed demand patterns.", 1.1, 1.0},
		{5, "Supply Chain Issues", "Supply chain problems have affected market dynamics.", 0.8, 0.9},
		{6, "Celebrity Endorsement", "A famous celebrity has endorsed your product, boosting demand and reducing price sensitivity.", 1.214, 0.7},
		{7, "Economic Boom", "The economy is booming, increasing consumer spending power.", 1.111, 0.9},
		{8, "Competitor Product Recall", "A competitor has issued a product recall, increasing demand for your product.", 1.163, 0.8},
		{9, "Regulatory Changes", "New regulations have increased production costs across the industry.", 0.9, 1.1},
		{10, "Technology Breakthrough", "A technological breakthrough has made your product more efficient to produce.", 1.1, 0.9},
		{11, "Environmental Protest", "Environmental activists have targeted your product, decreasing public perception and demand.", 0.7, 1.3},
		{12, "Government Subsidy", "The government introduced a subsidy for your product category, increasing demand.", 1.0298, 0.85},
		{13, "Data Breach", "A data leak from your company has hurt customer trust.", 0.75, 1.4},
		{14, "Celebrity Scandal", "The celebrity endorsing your product is involved in a scandal, hurting your brand.", 0.6, 1.2},
		{15, "Major Sports Event", "A major international sports event has drawn attention to your brand.", 1.176, 0.95},
		{16, "Local Tax Increase", "A regional tax increase has reduced consumer purchasing power.", 0.85, 1.1},
		{17, "Influencer Backlash", "An influencer criticized your product in a viral video.", 0.7, 1.25},
		{18, "Charity Partnership", "Your brand announced a major charity collaboration, boosting reputation and sales.", 1.2, 0.8},
		{19, "Limited Edition Drop", "You released a limited edition version of your product, spiking short-term demand.", 1.3, 0.75},
		{20, "Tech Scare", "Widespread fear over new technology has made customers cautious.", 0.8, 1.3},
	}
}

// EventByID returns the catalog event with the given id.
func EventByID(id int) (Event, bool) {
	for _, e := range AllEvents() {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// ErrEmptyCatalog is returned when an event catalog has no entries.
var ErrEmptyCatalog = errors.New("event catalog is empty")

// ValidateCatalog checks that events is non-empty, ids are unique and every
// multiplier is strictly positive.
func ValidateCatalog(events []Event) error {
	if len(events) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[int]bool, len(events))
	for _, e := range events {
		if seen[e.ID] {
			return fmt.Errorf("duplicate event id %d (%s)", e.ID, e.Name)
		}
		seen[e.ID] = true
		if e.MaxDemandMultiplier <= 0 || e.SensitivityMultiplier <= 0 {
			return fmt.Errorf("event %d (%s) has non-positive multiplier", e.ID, e.Name)
		}
	}
	return nil
}
