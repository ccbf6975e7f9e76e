package kurakot

import "time"

type playerState struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`

	Budget  int `json:"budget"`
	Corrupt int `json:"corrupt"`
	OnTile  int `json:"onTile"`

	// one-shot and multi-turn modifiers, granted by cards, consumed by
	// the engine that cares about each
	Volunteer    bool `json:"volunteer"`
	YouthAid     bool `json:"youthAid"`
	Bayanihan    bool `json:"bayanihan"`
	SkipTax      bool `json:"skipTax"`
	Ghost        bool `json:"ghost"`
	ReducedTurns int  `json:"reducedTurns"`
}

// how long the collection animation defers a credit
const collectDelay = 2 * time.Second

// addCorrupt clamps into [0, max]; hitting the cap ends the game, once.
func (g *kgame) addCorrupt(n int) {
	if g.status != StatusPlaying {
		return
	}
	p := g.player
	p.Corrupt += n
	if p.Corrupt >= g.settings.MaxCorrupt {
		p.Corrupt = g.settings.MaxCorrupt
		g.addEventf("is consumed by corruption")
		g.finish(StatusLost, ReasonCorruption)
		return
	}
	if p.Corrupt < 0 {
		p.Corrupt = 0
	}
}

func (g *kgame) subCorrupt(n int) {
	g.addCorrupt(-n)
}

// credit queues money onto the budget behind the collection animation.
// Overflow is checked when the money lands, not when it is promised.
func (g *kgame) credit(amount int, what string) {
	if amount == 0 {
		return
	}
	g.sched.after(collectDelay, func() {
		p := g.player
		p.Budget += amount
		g.addEventf("collects %d from %s", amount, what)
		if p.Budget > g.settings.MaxBudget {
			g.addEventf("has more money than anyone could explain")
			g.finish(StatusLost, ReasonOverflow)
		}
	})
}

func (g *kgame) debit(amount int) {
	g.player.Budget -= amount
}
