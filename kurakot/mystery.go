package kurakot

import "math"

type quizState struct {
	question int
	options  []string
	correct  int
}

func (g *kgame) landMystery(t *turn) {
	offer := g.drawOffer(true)
	if len(offer) == 0 {
		g.rearm(t)
		return
	}

	t.offer = offer
	t.picked = -1
	t.busy = false
	t.Must = []string{"pickcard:*"}

	g.addEventf("faces a mystery")
}

// drawOffer deals three distinct cards. The first deal leans corrupt;
// a reroll guarantees one clean card in the first slot. Uniqueness is
// best effort within a bounded number of tries.
func (g *kgame) drawOffer(initial bool) []int {
	var corrupt, clean, all []int
	for i, c := range g.cards {
		all = append(all, i)
		if c.Corrupt {
			corrupt = append(corrupt, i)
		} else {
			clean = append(clean, i)
		}
	}
	if len(all) == 0 {
		g.log.Warn().Msg("no mystery cards configured")
		return nil
	}

	pick := func(from []int) int {
		return from[g.rnd.Intn(len(from))]
	}
	draw := func(slot int) int {
		if initial {
			if len(corrupt) > 0 && (len(clean) == 0 || g.rnd.Float64() < 0.8) {
				return pick(corrupt)
			}
			if len(clean) > 0 {
				return pick(clean)
			}
			return pick(all)
		}
		if slot == 0 && len(clean) > 0 {
			return pick(clean)
		}
		return pick(all)
	}

	var offer []int
	tries := 0
	for len(offer) < 3 {
		c := draw(len(offer))
		tries++
		if intListContains(offer, c) {
			if tries < 100 {
				continue
			}
			g.log.Warn().Msg("card pool exhausted, accepting a duplicate")
		}
		offer = append(offer, c)
	}
	return offer
}

func (g *kgame) makeQuiz() *quizState {
	qi := g.rnd.Intn(len(g.questions))
	q := g.questions[qi]

	options := append([]string{q.Answer}, q.Wrong...)
	// the answer starts in slot zero; follow it through the shuffle,
	// because wrong options may repeat its text
	correct := 0
	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
		switch correct {
		case i:
			correct = j
		case j:
			correct = i
		}
	})

	return &quizState{question: qi, options: options, correct: correct}
}

// applyEffect is the one place a confirmed card touches the game.
func (g *kgame) applyEffect(t *turn, card MysteryCard) {
	p := t.player

	switch code := card.ParseCode().(type) {
	case CardGrant:
		granted := false
		for _, tl := range g.ownedTiles() {
			if tl.prop.fairPrice() {
				amount := (g.rnd.Intn(6) + 5) * 5
				g.credit(amount, "a community grant for "+tl.tmpl.Name)
				granted = true
			}
		}
		if !granted {
			g.log.Info().Msg("no property qualifies for the grant")
		}
	case CardVolunteer:
		p.Volunteer = true
		g.addEventf("signs up the volunteers")
	case CardInvest:
		var eligible []*tile
		for _, tl := range g.ownedTiles() {
			if !tl.prop.Surcharge {
				eligible = append(eligible, tl)
			}
		}
		if len(eligible) == 0 {
			g.log.Info().Msg("nowhere to invest")
			break
		}
		tl := eligible[g.rnd.Intn(len(eligible))]
		tl.prop.Surcharge = true
		tl.prop.SurchargeRate = g.settings.SurchargeRate
		g.playFx(FxInvest, tl.index)
		g.addEventAt(tl.index, "invests in %s", tl.tmpl.Name)
	case CardYouthAid:
		p.YouthAid = true
		g.addEventf("secures start-up aid")
	case CardBayanihan:
		p.Bayanihan = true
		g.addEventf("rallies the community")
	case CardEvict:
		g.addCorrupt(code.Corrupt)
		owned := g.ownedTiles()
		if len(owned) == 0 {
			g.log.Info().Msg("nobody to evict")
			break
		}
		tl := owned[g.rnd.Intn(len(owned))]
		refund := int(math.Round(float64(tl.prop.tmpl.Cost) * 1.5))
		tl.prop.abandon()
		if tl.prop.Cursed {
			tl.prop.resetToTemplate()
		}
		g.playFx(FxEviction, tl.index)
		g.addEventAt(tl.index, "forces everyone out of %s", tl.tmpl.Name)
		g.credit(refund, "the eviction of "+tl.tmpl.Name)
	case CardCashOverflow:
		g.addCorrupt(code.Corrupt)
		g.credit(code.Amount, card.Name)
		p.SkipTax = true
	case CardGhost:
		g.addCorrupt(code.Corrupt)
		g.credit(code.Amount, card.Name)
		p.Ghost = true
		g.playFx(FxGhost, p.OnTile)
	case CardLandGrab:
		g.addCorrupt(code.Corrupt)
		var eligible []*tile
		for _, tl := range g.tiles {
			if tl.prop != nil && !tl.prop.Bought {
				eligible = append(eligible, tl)
			}
		}
		if len(eligible) == 0 {
			g.log.Info().Msg("nothing left to grab")
			break
		}
		tl := eligible[g.rnd.Intn(len(eligible))]
		tl.prop.Bought = true
		tl.prop.Cursed = true
		g.playFx(FxGrab, tl.index)
		g.addEventAt(tl.index, "grabs %s", tl.tmpl.Name)
	case CardSpend:
		g.addCorrupt(code.Corrupt)
		g.credit(code.Amount, card.Name)
		p.ReducedTurns = code.Turns
	case CardCustom:
		g.log.Warn().Str("code", code.Code).Msg("unknown card effect, doing nothing")
	}
}
