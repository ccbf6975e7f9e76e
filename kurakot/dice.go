package kurakot

import "math/rand"

// Dice is where step counts come from. Injectable, so the admin mode
// and tests can script the rolls.
type Dice interface {
	Roll() int
}

type randDice struct {
	rnd *rand.Rand
}

func (d *randDice) Roll() int {
	return d.rnd.Intn(6) + 1
}

// adminRolls is the fixed demo sequence, looped.
var adminRolls = []int{4, 6, 3, 5, 2, 1, 3, 5, 4, 3, 4, 2, 4}

// AdminDice replays the scripted roll sequence.
type AdminDice struct {
	at int
}

func (d *AdminDice) Roll() int {
	n := adminRolls[d.at%len(adminRolls)]
	d.at++
	return n
}
