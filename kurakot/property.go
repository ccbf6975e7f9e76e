package kurakot

import "math"

// tile is one board slot at runtime.
type tile struct {
	index int
	tmpl  TileTemplate
	// prop is nil on non-economic tiles
	prop *propertyState
}

// propertyState is the mutable side of one property, created once per
// session from its template and reset, never destroyed.
type propertyState struct {
	Bought      bool `json:"bought"`
	MarketPrice int  `json:"marketPrice"`
	TaxRate     int  `json:"taxRate"`
	Revenue     int  `json:"revenue"`

	Surcharge     bool `json:"surcharge"`
	SurchargeRate int  `json:"surchargeRate"`

	Cursed bool `json:"cursed"`
	// MaxCustomers decays while cursed
	MaxCustomers int `json:"maxCustomers"`

	tmpl *PropertyTemplate
}

func newPropertyState(t *PropertyTemplate) *propertyState {
	return &propertyState{
		MarketPrice:  t.MarketPrice,
		TaxRate:      t.TaxRate,
		MaxCustomers: t.MaxCustomers,
		tmpl:         t,
	}
}

// abandon unbinds ownership. Revenue never survives an abandonment.
func (p *propertyState) abandon() {
	p.Bought = false
	p.Revenue = 0
}

// resetToTemplate undoes everything the curse or player edits changed.
func (p *propertyState) resetToTemplate() {
	p.Cursed = false
	p.MarketPrice = p.tmpl.MarketPrice
	p.TaxRate = p.tmpl.TaxRate
	p.MaxCustomers = p.tmpl.MaxCustomers
}

func (p *propertyState) sellValue() int {
	return int(math.Round(float64(p.tmpl.Cost) * p.tmpl.SellRate))
}

// fair means customers and the taxman have nothing to complain about.
func (p *propertyState) fairPrice() bool {
	return p.MarketPrice <= p.tmpl.ReasonablePrice
}

func (p *propertyState) fairTax() bool {
	return p.TaxRate <= p.tmpl.ReasonableTax
}

// dissatisfaction is the shared linear ramp: zero at the reasonable
// value, certain at reasonable+span.
func dissatisfaction(actual, reasonable int, span float64) float64 {
	if span <= 0 {
		if actual > reasonable {
			return 1
		}
		return 0
	}
	c := float64(actual-reasonable) / span
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
