package kurakot

import (
	"strconv"

	"github.com/jmpunzalan/kurakot/game"
)

type turn struct {
	Num    int `json:"num"`
	player *playerState

	// busy means sub-flows are in flight and no input is accepted
	busy bool

	// things that the player can do now
	Can []string `json:"can"`
	// things that must be done before play continues
	Must []string `json:"must"`

	// the mystery offer on the table, indexes into the card table
	offer  []int
	picked int
	quiz   *quizState

	// the property under a purchase decision, -1 for none
	buying int
}

// TileInfo is the public view of one board slot.
type TileInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Bought      bool   `json:"bought"`
	MarketPrice int    `json:"marketPrice"`
	TaxRate     int    `json:"taxRate"`
	Revenue     int    `json:"revenue"`
	Cursed      bool   `json:"cursed"`
}

// PlayerInfo is the public view of the player's books.
type PlayerInfo struct {
	Budget  int `json:"budget"`
	Corrupt int `json:"corrupt"`
	OnTile  int `json:"onTile"`
	Owned   int `json:"owned"`

	Volunteer    bool `json:"volunteer"`
	YouthAid     bool `json:"youthAid"`
	Bayanihan    bool `json:"bayanihan"`
	SkipTax      bool `json:"skipTax"`
	Ghost        bool `json:"ghost"`
	ReducedTurns int  `json:"reducedTurns"`
}

// CardInfo is the face of an offered card.
type CardInfo struct {
	Name    string `json:"name"`
	Desc    string `json:"desc"`
	Corrupt bool   `json:"corrupt"`
}

// QuestionInfo is a quiz question as shown, options already shuffled.
type QuestionInfo struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// OfferInfo is a property on offer.
type OfferInfo struct {
	Tile int    `json:"tile"`
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// SaleInfo is a property that could be sold to cover a purchase.
type SaleInfo struct {
	Tile  int    `json:"tile"`
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TurnInfo is everything the client needs to present the current
// decision.
type TurnInfo struct {
	Budget  int    `json:"budget"`
	Corrupt int    `json:"corrupt"`
	Tile    string `json:"tile"`

	Offer    []CardInfo    `json:"offer,omitempty"`
	Picked   int           `json:"picked"`
	Question *QuestionInfo `json:"question,omitempty"`
	Buying   *OfferInfo    `json:"buying,omitempty"`
	ForSale  []SaleInfo    `json:"forSale,omitempty"`
}

func (g *kgame) turnInfo(t *turn) TurnInfo {
	p := t.player
	info := TurnInfo{
		Budget:  p.Budget,
		Corrupt: p.Corrupt,
		Tile:    g.tiles[p.OnTile].tmpl.Name,
		Picked:  t.picked,
	}

	for _, ci := range t.offer {
		card := g.cards[ci]
		info.Offer = append(info.Offer, CardInfo{Name: card.Name, Desc: card.Desc, Corrupt: card.Corrupt})
	}

	if t.quiz != nil {
		info.Question = &QuestionInfo{
			Prompt:  g.questions[t.quiz.question].Prompt,
			Options: t.quiz.options,
		}
	}

	if t.buying >= 0 {
		tl := g.tiles[t.buying]
		cost := tl.prop.tmpl.Cost
		if p.YouthAid {
			cost /= 2
		}
		info.Buying = &OfferInfo{Tile: tl.index, Name: tl.tmpl.Name, Cost: cost}
		if p.Budget < cost {
			for _, otl := range g.ownedTiles() {
				info.ForSale = append(info.ForSale, SaleInfo{Tile: otl.index, Name: otl.tmpl.Name, Value: otl.prop.sellValue()})
			}
		}
	}

	return info
}

func (g *kgame) turn_roll(t *turn, c game.CommandPattern, args []string) (interface{}, error) {
	n := g.dice.Roll()

	t.busy = true
	t.Can = nil
	t.Must = nil

	g.addEventf("rolls a %d", n)
	g.startMove(t, n)

	return n, nil
}

func (g *kgame) turn_buy(t *turn, c game.CommandPattern, args []string) (interface{}, error) {
	if t.buying < 0 {
		return nil, game.ErrNotNow
	}

	p := t.player
	tl := g.tiles[t.buying]
	pr := tl.prop

	cost := pr.tmpl.Cost
	aided := p.YouthAid
	if aided {
		cost /= 2
	}
	if p.Budget < cost {
		return nil, game.ErrNotNow
	}
	if aided {
		p.YouthAid = false
	}

	g.debit(cost)
	pr.Bought = true
	t.buying = -1
	t.Must = nil

	g.playFx(FxPurchased, tl.index)
	g.addEventAt(tl.index, "buys %s for %d", tl.tmpl.Name, cost)

	g.rearm(t)
	return nil, nil
}

func (g *kgame) turn_sell(t *turn, c game.CommandPattern, args []string) (interface{}, error) {
	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 0 || idx >= len(g.tiles) {
		return nil, game.ErrBadRequest
	}

	tl := g.tiles[idx]
	if tl.prop == nil || !tl.prop.Bought {
		return nil, game.ErrNotNow
	}

	value := tl.prop.sellValue()
	tl.prop.abandon()
	if tl.prop.Cursed {
		tl.prop.resetToTemplate()
	}

	g.playFx(FxSale, tl.index)
	g.addEventAt(tl.index, "sells %s for %d", tl.tmpl.Name, value)
	g.credit(value, "selling "+tl.tmpl.Name)

	t.busy = true
	t.Must = nil
	// look at the purchase again once the money has landed
	g.sched.after(collectDelay, func() {
		g.checkPurchase(t)
	})

	return value, nil
}

func (g *kgame) turn_bankrupt(t *turn, c game.CommandPattern, args []string) (interface{}, error) {
	g.addEventf("gives up")
	g.finish(StatusLost, ReasonBankrupt)
	return nil, nil
}

func (g *kgame) turn_pickcard(t *turn, c game.CommandPattern, args []string) (interface{}, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 || n >= len(t.offer) {
		return nil, game.ErrBadRequest
	}

	t.picked = n
	t.Must = []string{"pickcard:*", "confirmcard", "reroll"}

	card := g.cards[t.offer[n]]
	return CardInfo{Name: card.Name, Desc: card.Desc, Corrupt: card.Corrupt}, nil
}

func (g *kgame) turn_confirmcard(t *turn, c game.CommandPattern, args []string) (interface{}, error) {
	if t.picked < 0 || t.picked >= len(t.offer) {
		return nil, game.ErrNotNow
	}

	card := g.cards[t.offer[t.picked]]
	t.offer = nil
	t.picked = -1
	t.Must = nil

	g.addEventf("plays %s", card.Name)
	g.applyEffect(t, card)

	g.rearm(t)
	return nil, nil
}

func (g *kgame) turn_reroll(t *turn, c game.CommandPattern, args []string) (interface{}, error) {
	if len(g.questions) == 0 {
		// config problem, wave the quiz through
		g.log.Warn().Msg("no questions configured, reroll is free")
		t.offer = g.drawOffer(false)
		t.picked = -1
		t.Must = []string{"pickcard:*"}
		return nil, nil
	}

	t.quiz = g.makeQuiz()
	t.picked = -1
	t.Must = []string{"answer:*"}

	q := g.questions[t.quiz.question]
	return QuestionInfo{Prompt: q.Prompt, Options: t.quiz.options}, nil
}

func (g *kgame) turn_answer(t *turn, c game.CommandPattern, args []string) (interface{}, error) {
	if t.quiz == nil {
		return nil, game.ErrNotNow
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 || n >= len(t.quiz.options) {
		return nil, game.ErrBadRequest
	}

	correct := n == t.quiz.correct
	t.quiz = nil

	if correct {
		g.addEventf("answers correctly")
		t.offer = g.drawOffer(false)
		t.picked = -1
		t.Must = []string{"pickcard:*"}
		return true, nil
	}

	// a wrong answer ends the whole card flow, nothing is applied
	g.addEventf("answers wrongly and the cards are whisked away")
	t.offer = nil
	t.picked = -1
	t.Must = nil

	g.rearm(t)
	return false, nil
}

func (g *kgame) turn_setprice(t *turn, c game.CommandPattern, args []string) (interface{}, error) {
	tl := g.tiles[t.player.OnTile]
	if tl.prop == nil || !tl.prop.Bought {
		return nil, game.ErrNotNow
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		// keep the old value, bad input is not an error
		n = tl.prop.MarketPrice
	}
	if n < 0 {
		n = 0
	}
	tl.prop.MarketPrice = n

	g.addEventf("prices %s at %d", tl.tmpl.Name, n)
	return n, nil
}

func (g *kgame) turn_settax(t *turn, c game.CommandPattern, args []string) (interface{}, error) {
	tl := g.tiles[t.player.OnTile]
	if tl.prop == nil || !tl.prop.Bought {
		return nil, game.ErrNotNow
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		n = tl.prop.TaxRate
	}
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	tl.prop.TaxRate = n

	g.addEventf("taxes %s at %d", tl.tmpl.Name, n)
	return n, nil
}

// checkPurchase is the decision on an unbought property after the
// customers have cleared: offer it, demand a sale, or end the game.
func (g *kgame) checkPurchase(t *turn) {
	if g.status != StatusPlaying {
		return
	}

	p := t.player
	tl := g.tiles[p.OnTile]
	if tl.prop == nil || tl.prop.Bought {
		g.rearm(t)
		return
	}

	cost := tl.prop.tmpl.Cost
	if p.YouthAid {
		cost /= 2
	}

	t.busy = false
	t.buying = tl.index
	t.Can = nil

	if p.Budget >= cost {
		t.Must = []string{"buy"}
		return
	}
	if len(g.ownedTiles()) > 0 {
		g.addEventf("cannot afford %s", tl.tmpl.Name)
		t.Must = []string{"sell:*", "bankrupt"}
		return
	}

	g.addEventf("cannot afford %s and has nothing left to sell", tl.tmpl.Name)
	g.finish(StatusLost, ReasonBankrupt)
}
