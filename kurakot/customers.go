package kurakot

import (
	"math"
	"time"
)

// visitWindow bounds how long a whole crowd takes, however big it is.
const visitWindow = 3 * time.Second

// landProperty runs the customer phase: every owned property gets a
// crowd, and only when every customer everywhere has resolved does the
// purchase decision for the landed tile happen.
func (g *kgame) landProperty(t *turn, landed *tile) {
	// curse decay happens before anyone opens shop
	skip := false
	for _, tl := range g.ownedTiles() {
		pr := tl.prop
		if !pr.Cursed {
			continue
		}
		pr.MaxCustomers--
		if pr.MaxCustomers <= pr.tmpl.MinCustomers {
			pr.abandon()
			pr.resetToTemplate()
			g.playFx(FxAbandoned, tl.index)
			g.addEventAt(tl.index, "watches %s slip away", tl.tmpl.Name)
			if tl == landed {
				skip = true
			}
		}
	}
	if skip {
		// standing on the property as the grab expires: the whole
		// visit is written off
		g.rearm(t)
		return
	}

	owned := g.ownedTiles()

	extra := 0
	if t.player.Volunteer {
		extra = g.settings.ExtraCustomers
		t.player.Volunteer = false
		g.playFx(FxVolunteer, landed.index)
		g.addEventf("has volunteers drumming up custom")
	}

	join := newJoin(len(owned), func() {
		g.afterCustomers(t)
	})
	for _, tl := range owned {
		g.visitProperty(tl, extra, join)
	}
}

// visitProperty spawns one property's crowd. Arrivals are staggered
// with a little jitter, so resolution order across properties is not
// fixed, but the join is.
func (g *kgame) visitProperty(tl *tile, extra int, join *joinCounter) {
	pr := tl.prop

	n := pr.tmpl.MinCustomers
	if span := pr.MaxCustomers - pr.tmpl.MinCustomers; span > 0 {
		n += g.rnd.Intn(span + 1)
	}
	n += extra

	if n <= 0 {
		join.one()
		return
	}

	inner := newJoin(n, join.one)
	gap := visitWindow / time.Duration(n)
	for i := 0; i < n; i++ {
		delay := gap*time.Duration(i) + time.Duration(g.rnd.Int63n(int64(gap)+1))
		g.sched.after(delay, func() {
			g.evaluateVisit(tl)
			inner.one()
		})
	}
}

// evaluateVisit is one customer looking at the price.
func (g *kgame) evaluateVisit(tl *tile) {
	p := g.player
	pr := tl.prop
	if !pr.Bought {
		return
	}

	span := float64(pr.tmpl.ReasonablePrice) * 0.2
	chance := dissatisfaction(pr.MarketPrice, pr.tmpl.ReasonablePrice, span)
	if g.rnd.Float64() < chance {
		g.sink.Emote(Emotion{Feeling: EmotionAngry, Tile: tl.index})
		g.playFx(FxOpinion, tl.index)
		g.addCorrupt(1)
		return
	}

	g.sink.Emote(Emotion{Feeling: EmotionHappy, Tile: tl.index})

	price := pr.MarketPrice
	if p.ReducedTurns > 0 {
		price = int(math.Round(float64(price) * 0.9))
		p.ReducedTurns--
	}
	if pr.Surcharge {
		price += int(math.Round(float64(price) * float64(pr.SurchargeRate) / 100))
	}
	pr.Revenue += price
}

// afterCustomers fires exactly once per property landing, when every
// crowd has cleared.
func (g *kgame) afterCustomers(t *turn) {
	if g.status != StatusPlaying {
		return
	}

	tl := g.tiles[t.player.OnTile]
	if tl.prop != nil && !tl.prop.Bought {
		g.checkPurchase(t)
		return
	}
	g.rearm(t)
}
