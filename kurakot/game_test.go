package kurakot

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmpunzalan/kurakot/game"
)

type fixedDice struct {
	rolls []int
	at    int
}

func (d *fixedDice) Roll() int {
	n := d.rolls[d.at%len(d.rolls)]
	d.at++
	return n
}

func testProp() *PropertyTemplate {
	return &PropertyTemplate{
		Cost:            500,
		MarketPrice:     100,
		ReasonablePrice: 100,
		TaxRate:         10,
		ReasonableTax:   10,
		MinCustomers:    2,
		MaxCustomers:    2,
		SellRate:        0.8,
	}
}

// testData builds a board of start + nprops properties + one mystery
// tile, with a harmless card table.
func testData(nprops int) GameData {
	tiles := []TileTemplate{{Name: "Bayan Plaza", Type: TileStart}}
	for i := 0; i < nprops; i++ {
		tiles = append(tiles, TileTemplate{
			Name:     fmt.Sprintf("Tindahan %d", i+1),
			Type:     TileProperty,
			Property: testProp(),
		})
	}
	tiles = append(tiles, TileTemplate{Name: "Misteryo", Type: TileMystery})

	return GameData{
		Settings: Settings{
			StartBudget:    2500,
			MaxBudget:      25000,
			MaxCorrupt:     50,
			WinCount:       13,
			ExtraCustomers: 2,
			SurchargeRate:  10,
		},
		Tiles: tiles,
		Cards: []MysteryCard{
			{Name: "Volunteer Initiative", Corrupt: false, Code: "volunteer"},
			{Name: "Volunteer Initiative II", Corrupt: false, Code: "volunteer"},
			{Name: "Volunteer Initiative III", Corrupt: false, Code: "volunteer"},
			{Name: "Volunteer Initiative IV", Corrupt: false, Code: "volunteer"},
		},
		Questions: []Question{
			{Prompt: "capital?", Answer: "manila", Wrong: []string{"cebu", "davao", "iloilo"}},
		},
	}
}

func newTestGame(t *testing.T, data GameData, rolls ...int) *kgame {
	opts := Options{Seed: 7}
	if len(rolls) > 0 {
		opts.Dice = &fixedDice{rolls: rolls}
	}
	g := NewGame(data, opts).(*kgame)
	require.NoError(t, g.AddPlayer("juan", "red"))
	_, err := g.Start()
	require.NoError(t, err)
	return g
}

func play(t *testing.T, g *kgame, cmd string) game.PlayResult {
	res, err := g.Play("juan", game.Command{Command: game.CommandString(cmd)})
	require.NoError(t, err, "command %s", cmd)
	return res
}

func TestStartGuards(t *testing.T) {
	g := NewGame(testData(4), Options{Seed: 1}).(*kgame)

	_, err := g.Start()
	assert.Equal(t, game.ErrNoPlayers, err)

	require.NoError(t, g.AddPlayer("juan", "red"))
	assert.Equal(t, game.ErrPlayerExists, g.AddPlayer("pedro", "blue"))

	_, err = g.Start()
	require.NoError(t, err)
	_, err = g.Start()
	assert.Equal(t, game.ErrAlreadyStarted, err)

	_, err = g.Play("pedro", game.Command{Command: "roll"})
	assert.Equal(t, game.ErrNotYourTurn, err)

	_, err = g.Play("juan", game.Command{Command: "buy"})
	assert.Equal(t, game.ErrNotNow, err)
}

func TestRollAndBuy(t *testing.T) {
	g := newTestGame(t, testData(4), 1)

	res := play(t, g, "roll")
	assert.True(t, res.Next.Busy)

	// walk one tile onto the unowned property; no owned properties
	// means the customer join short-circuits straight to the offer
	g.Advance(stepDelay)
	assert.Equal(t, 0, g.sched.pending())
	assert.Equal(t, []string{"buy"}, g.turn.Must)
	assert.False(t, g.turn.busy)

	play(t, g, "buy")
	assert.True(t, g.tiles[1].prop.Bought)
	assert.Equal(t, 2000, g.player.Budget)

	// re-armed on an owned property: prices can be edited
	assert.Contains(t, g.turn.Can, "roll")
	assert.Contains(t, g.turn.Can, "setprice:*")
	assert.Contains(t, g.turn.Can, "settax:*")
}

func TestPropertyEditing(t *testing.T) {
	g := newTestGame(t, testData(4))
	g.tiles[1].prop.Bought = true
	g.player.OnTile = 1
	g.arm(g.turn)

	play(t, g, "setprice:150")
	assert.Equal(t, 150, g.tiles[1].prop.MarketPrice)

	play(t, g, "setprice:-5")
	assert.Equal(t, 0, g.tiles[1].prop.MarketPrice)

	play(t, g, "settax:150")
	assert.Equal(t, 100, g.tiles[1].prop.TaxRate)

	// junk input reverts, it is not an error
	play(t, g, "settax:lots")
	assert.Equal(t, 100, g.tiles[1].prop.TaxRate)
}

func TestPurchaseMonotonicity(t *testing.T) {
	// affordable: buy is offered
	g := newTestGame(t, testData(4))
	g.player.OnTile = 1
	g.checkPurchase(g.turn)
	assert.Equal(t, []string{"buy"}, g.turn.Must)

	// not affordable, another property owned: sale, never buy
	g = newTestGame(t, testData(4))
	g.player.Budget = 100
	g.player.OnTile = 1
	g.tiles[2].prop.Bought = true
	g.checkPurchase(g.turn)
	assert.NotContains(t, g.turn.Must, "buy")
	assert.Contains(t, g.turn.Must, "sell:*")
	assert.Contains(t, g.turn.Must, "bankrupt")

	// not affordable, nothing to sell: bankrupt
	g = newTestGame(t, testData(4))
	g.player.Budget = 100
	g.player.OnTile = 1
	g.checkPurchase(g.turn)
	assert.Equal(t, StatusLost, g.status)
	assert.Equal(t, ReasonBankrupt, g.reason)
}

func TestYouthAidHalvesPurchase(t *testing.T) {
	g := newTestGame(t, testData(4))
	g.player.Budget = 250
	g.player.YouthAid = true
	g.player.OnTile = 1

	g.checkPurchase(g.turn)
	require.Equal(t, []string{"buy"}, g.turn.Must)

	play(t, g, "buy")
	assert.True(t, g.tiles[1].prop.Bought)
	assert.Equal(t, 0, g.player.Budget)
	assert.False(t, g.player.YouthAid)
}

func TestSellThenBuy(t *testing.T) {
	g := newTestGame(t, testData(4))
	g.player.Budget = 100
	g.player.OnTile = 1
	g.tiles[2].prop.Bought = true
	g.tiles[2].prop.Revenue = 300

	g.checkPurchase(g.turn)
	require.Contains(t, g.turn.Must, "sell:*")

	play(t, g, "sell:2")
	assert.False(t, g.tiles[2].prop.Bought)
	assert.Equal(t, 0, g.tiles[2].prop.Revenue)

	// sale money arrives, then the offer comes back
	g.Advance(collectDelay)
	assert.Equal(t, 500, g.player.Budget)
	assert.Equal(t, []string{"buy"}, g.turn.Must)

	play(t, g, "buy")
	assert.True(t, g.tiles[1].prop.Bought)
	assert.Equal(t, 0, g.player.Budget)
}

func TestBankrupt(t *testing.T) {
	g := newTestGame(t, testData(4))
	g.player.Budget = 100
	g.player.OnTile = 1
	g.tiles[2].prop.Bought = true

	g.checkPurchase(g.turn)
	play(t, g, "bankrupt")

	assert.Equal(t, StatusLost, g.status)
	assert.Equal(t, ReasonBankrupt, g.reason)

	_, err := g.Play("juan", game.Command{Command: "roll"})
	assert.Equal(t, game.ErrGameOver, err)
}

func TestCorruptionClamp(t *testing.T) {
	g := newTestGame(t, testData(4))

	g.addCorrupt(10)
	g.subCorrupt(30)
	assert.Equal(t, 0, g.player.Corrupt)

	g.addCorrupt(49)
	assert.Equal(t, 49, g.player.Corrupt)
	assert.Equal(t, StatusPlaying, g.status)

	g.addCorrupt(10)
	assert.Equal(t, 50, g.player.Corrupt)
	assert.Equal(t, StatusLost, g.status)
	assert.Equal(t, ReasonCorruption, g.reason)

	// terminal is terminal, no further movement
	g.addCorrupt(10)
	assert.Equal(t, 50, g.player.Corrupt)
	g.subCorrupt(10)
	assert.Equal(t, 50, g.player.Corrupt)
}

func TestBudgetOverflow(t *testing.T) {
	g := newTestGame(t, testData(4))

	g.credit(30000, "an unexplained donation")
	assert.Equal(t, 2500, g.player.Budget)

	g.Advance(collectDelay)
	assert.Equal(t, 32500, g.player.Budget)
	assert.Equal(t, StatusLost, g.status)
	assert.Equal(t, ReasonOverflow, g.reason)
}

func TestWinExactness(t *testing.T) {
	g := newTestGame(t, testData(16))
	for i := 1; i <= 13; i++ {
		g.tiles[i].prop.Bought = true
	}

	g.checkWin()
	assert.Equal(t, StatusWon, g.status)

	// 12 satisfied of 13 owned is not enough
	g = newTestGame(t, testData(16))
	for i := 1; i <= 13; i++ {
		g.tiles[i].prop.Bought = true
	}
	g.tiles[1].prop.MarketPrice = 200
	g.checkWin()
	assert.Equal(t, StatusPlaying, g.status)

	// too much money is not a win either
	g = newTestGame(t, testData(16))
	for i := 1; i <= 13; i++ {
		g.tiles[i].prop.Bought = true
	}
	g.player.Budget = 26000
	g.checkWin()
	assert.Equal(t, StatusPlaying, g.status)
}

func TestLapCollectsTax(t *testing.T) {
	g := newTestGame(t, testData(4), 1)
	g.player.OnTile = 5 // the mystery tile, one short of start
	g.tiles[1].prop.Bought = true
	g.tiles[1].prop.Revenue = 1000

	play(t, g, "roll")
	g.Advance(10 * time.Second)

	assert.Equal(t, 0, g.tiles[1].prop.Revenue)
	assert.Equal(t, 2600, g.player.Budget)
	assert.Contains(t, g.turn.Can, "roll")
	assert.False(t, g.turn.busy)
}

func TestSkipTaxConsumed(t *testing.T) {
	g := newTestGame(t, testData(4), 1)
	g.player.OnTile = 5
	g.player.SkipTax = true
	g.tiles[1].prop.Bought = true
	g.tiles[1].prop.Revenue = 1000

	play(t, g, "roll")
	g.Advance(10 * time.Second)

	assert.Equal(t, 1000, g.tiles[1].prop.Revenue)
	assert.Equal(t, 2500, g.player.Budget)
	assert.False(t, g.player.SkipTax)
}

func TestSaveRestore(t *testing.T) {
	data := testData(4)
	g := newTestGame(t, data, 1)
	g.tiles[2].prop.Bought = true
	g.tiles[2].prop.Revenue = 250
	g.tiles[2].prop.TaxRate = 12
	g.player.Budget = 1700
	g.player.Ghost = true

	buf := &bytes.Buffer{}
	require.NoError(t, g.WriteOut(buf))

	g2i, err := NewFromSaved(data, buf, Options{Seed: 7})
	require.NoError(t, err)
	g2 := g2i.(*kgame)

	assert.Equal(t, 1700, g2.player.Budget)
	assert.True(t, g2.player.Ghost)
	assert.True(t, g2.tiles[2].prop.Bought)
	assert.Equal(t, 250, g2.tiles[2].prop.Revenue)
	assert.Equal(t, 12, g2.tiles[2].prop.TaxRate)
	assert.Equal(t, StatusPlaying, g2.status)

	// restored turns come back armed
	assert.Contains(t, g2.turn.Can, "roll")
}

// a save can land in the middle of any forced decision; whatever comes
// back must accept some command
func TestRestoreMidDecision(t *testing.T) {
	reload := func(t *testing.T, g *kgame) *kgame {
		buf := &bytes.Buffer{}
		require.NoError(t, g.WriteOut(buf))
		g2, err := NewFromSaved(testData(4), buf, Options{Seed: 7})
		require.NoError(t, err)
		return g2.(*kgame)
	}

	t.Run("purchase offer", func(t *testing.T) {
		g := newTestGame(t, testData(4), 1)
		play(t, g, "roll")
		g.Advance(stepDelay)
		require.Equal(t, []string{"buy"}, g.turn.Must)

		g2 := reload(t, g)

		// the purchase decision is recomputed from the board
		require.Equal(t, []string{"buy"}, g2.turn.Must)
		assert.Equal(t, 1, g2.turn.buying)

		play(t, g2, "buy")
		assert.True(t, g2.tiles[1].prop.Bought)
	})

	t.Run("forced sale", func(t *testing.T) {
		g := newTestGame(t, testData(4))
		g.player.Budget = 100
		g.player.OnTile = 1
		g.tiles[2].prop.Bought = true
		g.checkPurchase(g.turn)
		require.Contains(t, g.turn.Must, "sell:*")

		g2 := reload(t, g)

		require.Contains(t, g2.turn.Must, "sell:*")
		require.Contains(t, g2.turn.Must, "bankrupt")

		play(t, g2, "sell:2")
		assert.False(t, g2.tiles[2].prop.Bought)
	})

	t.Run("mystery offer", func(t *testing.T) {
		g := newTestGame(t, testData(4))
		g.player.OnTile = 5
		g.landMystery(g.turn)
		require.Equal(t, []string{"pickcard:*"}, g.turn.Must)

		g2 := reload(t, g)

		// the old offer is gone, fresh cards are dealt
		require.Equal(t, []string{"pickcard:*"}, g2.turn.Must)
		assert.Len(t, g2.turn.offer, 3)

		play(t, g2, "pickcard:0")
	})

	t.Run("quiz", func(t *testing.T) {
		g := newTestGame(t, testData(4))
		g.player.OnTile = 5
		g.landMystery(g.turn)
		play(t, g, "pickcard:0")
		play(t, g, "reroll")
		require.Equal(t, []string{"answer:*"}, g.turn.Must)

		g2 := reload(t, g)

		// the question cannot come back, the card flow starts over
		require.Equal(t, []string{"pickcard:*"}, g2.turn.Must)
		play(t, g2, "pickcard:1")
	})
}
