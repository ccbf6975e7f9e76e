package kurakot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxCollects(t *testing.T) {
	g := newTestGame(t, testData(4))
	tl := g.tiles[1]
	tl.prop.Bought = true
	tl.prop.Revenue = 1000

	// fair rate never angers anyone
	g.resolveTax(tl)

	assert.Equal(t, 0, tl.prop.Revenue)
	assert.True(t, tl.prop.Bought)

	g.Advance(collectDelay)
	assert.Equal(t, 2600, g.player.Budget)
}

func TestTaxNoop(t *testing.T) {
	g := newTestGame(t, testData(4))
	tl := g.tiles[1]

	// unowned: untouched
	tl.prop.Revenue = 500
	g.resolveTax(tl)
	assert.Equal(t, 500, tl.prop.Revenue)

	// owned but idle: untouched
	tl.prop.Revenue = 0
	tl.prop.Bought = true
	g.resolveTax(tl)
	g.Advance(collectDelay)
	assert.Equal(t, 2500, g.player.Budget)
}

func TestTaxAlwaysAbandonsAtCeiling(t *testing.T) {
	g := newTestGame(t, testData(4))
	tl := g.tiles[1]

	for i := 0; i < 10; i++ {
		tl.prop.Bought = true
		tl.prop.Revenue = 1000
		tl.prop.TaxRate = 120
		tl.prop.tmpl.ReasonableTax = 100

		corrupt := g.player.Corrupt
		g.resolveTax(tl)

		assert.False(t, tl.prop.Bought)
		assert.Equal(t, 0, tl.prop.Revenue)
		assert.Equal(t, corrupt+5, g.player.Corrupt)
	}

	// nothing was ever collected
	g.Advance(collectDelay)
	assert.Equal(t, 2500, g.player.Budget)
}

func TestTaxBayanihanConsumedOnce(t *testing.T) {
	g := newTestGame(t, testData(4))
	g.player.Bayanihan = true

	one, two := g.tiles[1], g.tiles[2]
	one.prop.Bought = true
	one.prop.Revenue = 1000
	two.prop.Bought = true
	two.prop.Revenue = 1000

	g.resolveTax(one)
	assert.False(t, g.player.Bayanihan)
	g.resolveTax(two)

	// first at 15%, second back at the plain 10%
	g.Advance(collectDelay)
	assert.Equal(t, 2500+150+100, g.player.Budget)
}

func TestTaxGhostEmployees(t *testing.T) {
	g := newTestGame(t, testData(4))
	g.player.Ghost = true
	tl := g.tiles[1]
	tl.prop.Bought = true
	tl.prop.Revenue = 1000
	tl.prop.TaxRate = 20
	tl.prop.tmpl.ReasonableTax = 20

	g.resolveTax(tl)

	// 20% of 1000, then the ghosts take their quarter
	g.Advance(collectDelay)
	assert.Equal(t, 2500+150, g.player.Budget)

	// ghosts are permanent, but only bite above a 10% rate
	tl.prop.Bought = true
	tl.prop.Revenue = 1000
	tl.prop.TaxRate = 10
	assert.True(t, g.player.Ghost)

	g.resolveTax(tl)
	g.Advance(collectDelay)
	assert.Equal(t, 2500+150+100, g.player.Budget)
}
