package kurakot

import "math"

// resolveTax settles one property with the taxman. Unowned or idle
// properties are left alone; everything else ends the lap with zero
// revenue, one way or another.
func (g *kgame) resolveTax(tl *tile) {
	p := g.player
	pr := tl.prop
	if !pr.Bought || pr.Revenue == 0 {
		return
	}

	// the ceiling is 1.2x the reasonable rate, so the ramp span is 0.2x
	span := float64(pr.tmpl.ReasonableTax) * 0.2
	chance := dissatisfaction(pr.TaxRate, pr.tmpl.ReasonableTax, span)
	if g.rnd.Float64() < chance {
		pr.abandon()
		g.playFx(FxAbandoned, tl.index)
		g.addEventAt(tl.index, "is run out of %s by angry taxpayers", tl.tmpl.Name)
		g.addCorrupt(5)
		p.Bayanihan = false
		return
	}

	rate := pr.TaxRate
	if p.Bayanihan {
		rate += 5
		p.Bayanihan = false
	}

	earnings := int(math.Round(float64(pr.Revenue) * float64(rate) / 100))
	if p.Ghost && pr.TaxRate > 10 {
		earnings = int(math.Round(float64(earnings) * 0.75))
		g.playFx(FxGhost, tl.index)
	}

	pr.Revenue = 0
	g.credit(earnings, "tax on "+tl.tmpl.Name)
}
