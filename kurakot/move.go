package kurakot

import "time"

const (
	stepDelay  = 400 * time.Millisecond
	taxStagger = 800 * time.Millisecond
)

func (g *kgame) startMove(t *turn, steps int) {
	g.stepOne(t, steps)
}

// stepOne walks the token one tile and decides what happens there.
// Passing the start tile interrupts the walk for the tax pass.
func (g *kgame) stepOne(t *turn, left int) {
	g.sched.after(stepDelay, func() {
		p := t.player
		p.OnTile = (p.OnTile + 1) % len(g.tiles)
		left--

		tl := g.tiles[p.OnTile]
		if tl.tmpl.Type == TileStart {
			g.passStart(t, left)
			return
		}

		if left > 0 {
			g.stepOne(t, left)
			return
		}
		g.land(t)
	})
}

// passStart is the lap bookkeeping: taxes, then the win check, then
// back to walking.
func (g *kgame) passStart(t *turn, left int) {
	p := t.player
	g.addEventf("passes %s", g.tiles[p.OnTile].tmpl.Name)

	if p.SkipTax {
		p.SkipTax = false
		g.playFx(FxNoTax, p.OnTile)
		g.addEventf("dodges the tax collector")
		g.afterTax(t, left)
		return
	}

	g.taxNext(t, g.ownedTiles(), 0, left)
}

// taxNext resolves one property's tax and staggers the next. Strictly
// sequential, so collection order is stable.
func (g *kgame) taxNext(t *turn, owned []*tile, i int, left int) {
	if i >= len(owned) {
		g.afterTax(t, left)
		return
	}

	g.resolveTax(owned[i])

	g.sched.after(taxStagger, func() {
		g.taxNext(t, owned, i+1, left)
	})
}

func (g *kgame) afterTax(t *turn, left int) {
	g.checkWin()
	if g.status != StatusPlaying {
		return
	}

	if left > 0 {
		g.stepOne(t, left)
		return
	}
	g.land(t)
}

// checkWin runs on every lap, after tax.
func (g *kgame) checkWin() {
	if g.settings.WinCount <= 0 {
		return
	}

	owned := g.ownedTiles()
	if len(owned) < g.settings.WinCount {
		return
	}

	satisfied := 0
	for _, tl := range owned {
		if tl.prop.fairPrice() && tl.prop.fairTax() {
			satisfied++
		}
	}

	if satisfied >= g.settings.WinCount && g.player.Budget <= g.settings.MaxBudget {
		g.finish(StatusWon, "")
	}
}

// land dispatches on the tile the walk finished on.
func (g *kgame) land(t *turn) {
	tl := g.tiles[t.player.OnTile]
	g.addEventf("lands on %s", tl.tmpl.Name)

	switch tl.tmpl.Type {
	case TileProperty:
		if tl.prop == nil {
			// decorative tile, nothing to do
			g.rearm(t)
			return
		}
		g.landProperty(t, tl)
	case TileMystery:
		g.landMystery(t)
	default:
		g.rearm(t)
	}
}
