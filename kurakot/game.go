package kurakot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/jmpunzalan/kurakot/game"
)

type CommandHandler func(*turn, game.CommandPattern, []string) (interface{}, error)

// game statuses and end reasons
const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusLost    = "lost"

	ReasonCorruption = "corruption"
	ReasonBankrupt   = "bankrupt"
	ReasonOverflow   = "budgetoverflow"
)

// Options is per-session wiring.
type Options struct {
	// Seed drives all randomness; 0 means seed from the clock.
	Seed int64
	// Dice overrides the random dice, e.g. with AdminDice.
	Dice Dice
	// Sink receives presentation events. Optional.
	Sink Sink
	Log  zerolog.Logger
}

type kgame struct {
	cmds      map[string]CommandHandler
	settings  Settings
	tiles     []*tile
	cards     []MysteryCard
	questions []Question

	rnd   *rand.Rand
	dice  Dice
	sink  Sink
	log   zerolog.Logger
	sched *scheduler

	status string
	reason string
	player *playerState
	turnNo int
	turn   *turn

	// things that happened since the last flush
	news []game.Change
}

func NewGame(data GameData, opts Options) game.Game {
	g := &kgame{}

	g.cmds = map[string]CommandHandler{}
	g.cmds["roll"] = g.turn_roll
	g.cmds["buy"] = g.turn_buy
	g.cmds["sell"] = g.turn_sell
	g.cmds["bankrupt"] = g.turn_bankrupt
	g.cmds["pickcard"] = g.turn_pickcard
	g.cmds["confirmcard"] = g.turn_confirmcard
	g.cmds["reroll"] = g.turn_reroll
	g.cmds["answer"] = g.turn_answer
	g.cmds["setprice"] = g.turn_setprice
	g.cmds["settax"] = g.turn_settax

	g.settings = data.Settings
	g.cards = data.Cards
	g.questions = data.Questions

	for i, tt := range data.Tiles {
		tl := &tile{index: i, tmpl: tt}
		if tt.Type == TileProperty && tt.Property != nil {
			tl.prop = newPropertyState(tt.Property)
		}
		g.tiles = append(g.tiles, tl)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rnd = rand.New(rand.NewSource(seed))

	g.dice = opts.Dice
	if g.dice == nil {
		g.dice = &randDice{rnd: g.rnd}
	}
	g.sink = opts.Sink
	if g.sink == nil {
		g.sink = nopSink{}
	}
	g.log = opts.Log
	g.sched = newScheduler()
	g.status = StatusPlaying

	// verify the card table now, not on draw
	for _, mc := range g.cards {
		code := mc.ParseCode()
		if c, ok := code.(CardCustom); ok {
			g.log.Warn().Str("code", c.Code).Msg("unparsed mystery card")
		}
	}

	return g
}

func NewFromSaved(data GameData, r io.Reader, opts Options) (game.Game, error) {
	g := NewGame(data, opts).(*kgame)

	injson := json.NewDecoder(r)
	save := gameSave{}
	err := injson.Decode(&save)
	if err != nil {
		return nil, err
	}

	g.status = save.Status
	g.reason = save.Reason
	g.turnNo = save.TurnNo
	g.player = save.Player

	for i, ps := range save.Properties {
		if i < 0 || i >= len(g.tiles) || g.tiles[i].prop == nil {
			return nil, errors.New("bad property in save")
		}
		ps.tmpl = g.tiles[i].tmpl.Property
		g.tiles[i].prop = ps
	}

	// in-flight sub-tasks cannot be saved, only their committed
	// effects, so a loaded turn gets its decision rebuilt
	g.turn = save.Turn
	if g.turn != nil {
		g.turn.player = g.player
		g.turn.picked = -1
		g.turn.buying = -1
		g.restoreTurn(g.turn)
	}
	if g.status != StatusPlaying {
		g.sched.halt()
	}

	return g, nil
}

// restoreTurn rebuilds a loaded turn's decision state, which never
// survives a save. A purchase decision is recomputed from the board; a
// mystery offer or quiz cannot be, so the tile under the token deals
// fresh cards; everything else re-arms the roll. Whatever was saved,
// some command is always accepted.
func (g *kgame) restoreTurn(t *turn) {
	if g.status != StatusPlaying {
		t.Can = nil
		t.Must = nil
		return
	}

	needs := func(cmds ...string) bool {
		for _, m := range t.Must {
			head := game.CommandPattern(m).First()
			for _, c := range cmds {
				if head == c {
					return true
				}
			}
		}
		return false
	}

	if needs("buy", "sell", "bankrupt") {
		g.checkPurchase(t)
		return
	}
	if needs("pickcard", "confirmcard", "reroll", "answer") {
		g.landMystery(t)
		return
	}
	g.arm(t)
}

// AddPlayer adds the player. It is a one seat game.
func (g *kgame) AddPlayer(name string, colour string) error {
	if g.player != nil {
		return game.ErrPlayerExists
	}

	g.player = &playerState{
		Name:   name,
		Colour: colour,
		Budget: g.settings.StartBudget,
	}

	return nil
}

// Start starts the game
func (g *kgame) Start() (game.TurnState, error) {
	if g.turn != nil {
		return game.TurnState{}, game.ErrAlreadyStarted
	}
	if g.player == nil {
		return game.TurnState{}, game.ErrNoPlayers
	}

	g.nextTurn()

	return g.GetTurnState(), nil
}

// Play is the player doing things
func (g *kgame) Play(player string, c game.Command) (game.PlayResult, error) {
	t := g.turn
	if t == nil {
		return game.PlayResult{}, game.ErrNotStarted
	}
	if g.status != StatusPlaying {
		return game.PlayResult{}, game.ErrGameOver
	}
	if t.player.Name != player {
		return game.PlayResult{}, game.ErrNotYourTurn
	}

	res, err := g.doPlay(t, c)
	if err != nil {
		return game.PlayResult{}, err
	}

	return game.PlayResult{Response: res, News: g.takeNews(), Next: g.GetTurnState()}, nil
}

func (g *kgame) doPlay(t *turn, c game.Command) (interface{}, error) {
	handler, ok := g.cmds[c.Command.First()]
	if !ok {
		return nil, game.ErrBadRequest
	}

	var pattern game.CommandPattern
	var args []string
	for _, canS := range t.Can {
		can := game.CommandPattern(canS)
		args = can.Match(c.Command)
		if args != nil {
			pattern = can
			break
		}
	}
	if args == nil {
		for _, mustS := range t.Must {
			must := game.CommandPattern(mustS)
			args = must.Match(c.Command)
			if args != nil {
				pattern = must
				break
			}
		}
	}

	if args == nil {
		return nil, game.ErrNotNow
	}

	return handler(t, pattern, args[1:])
}

// Advance is the host making time pass.
func (g *kgame) Advance(d time.Duration) (game.TurnState, []game.Change) {
	g.sched.advance(d)
	return g.GetTurnState(), g.takeNews()
}

func (g *kgame) GetTurnState() game.TurnState {
	if g.turn == nil {
		return game.TurnState{
			Number: -1,
		}
	}

	t := g.turn
	p := t.player

	return game.TurnState{
		Number: t.Num,
		Player: p.Name,
		OnTile: p.OnTile,
		Busy:   t.busy,
		Can:    t.Can,
		Must:   t.Must,
		Custom: g.turnInfo(t),
	}
}

func (g *kgame) GetGameState() game.GameState {
	var players []game.PlayerState
	if g.player != nil {
		players = append(players, game.PlayerState{
			Name:   g.player.Name,
			Colour: g.player.Colour,
			Custom: PlayerInfo{
				Budget:       g.player.Budget,
				Corrupt:      g.player.Corrupt,
				OnTile:       g.player.OnTile,
				Owned:        len(g.ownedTiles()),
				Volunteer:    g.player.Volunteer,
				YouthAid:     g.player.YouthAid,
				Bayanihan:    g.player.Bayanihan,
				SkipTax:      g.player.SkipTax,
				Ghost:        g.player.Ghost,
				ReducedTurns: g.player.ReducedTurns,
			},
		})
	}

	var board []TileInfo
	for _, tl := range g.tiles {
		ti := TileInfo{Name: tl.tmpl.Name, Type: tl.tmpl.Type}
		if tl.prop != nil {
			ti.Bought = tl.prop.Bought
			ti.MarketPrice = tl.prop.MarketPrice
			ti.TaxRate = tl.prop.TaxRate
			ti.Revenue = tl.prop.Revenue
			ti.Cursed = tl.prop.Cursed
		}
		board = append(board, ti)
	}

	return game.GameState{
		Status:  g.status,
		Reason:  g.reason,
		Players: players,
		Custom:  board,
	}
}

func (g *kgame) WriteOut(w io.Writer) error {
	props := map[int]*propertyState{}
	for _, tl := range g.tiles {
		if tl.prop != nil {
			props[tl.index] = tl.prop
		}
	}

	out := gameSave{
		Status:     g.status,
		Reason:     g.reason,
		TurnNo:     g.turnNo,
		Player:     g.player,
		Properties: props,
		Turn:       g.turn,
	}

	jdata, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	_, err = w.Write(jdata)
	return err
}

// finish moves to a terminal state, once. The clock halts, so whatever
// was due this instant still lands, anything later never does.
func (g *kgame) finish(status, reason string) {
	if g.status != StatusPlaying {
		return
	}
	g.status = status
	g.reason = reason
	g.sched.halt()
	if g.turn != nil {
		g.turn.Can = nil
		g.turn.Must = nil
		g.turn.busy = false
	}
	if status == StatusWon {
		g.playFx(FxCommunityWin, g.player.OnTile)
		g.addEventf("wins the game!")
	} else {
		g.addEventf("loses the game: %s", reason)
	}
	g.log.Info().Str("status", status).Str("reason", reason).Msg("game over")
}

// nextTurn begins a fresh turn with the roll armed.
func (g *kgame) nextTurn() {
	g.turnNo++
	t := &turn{Num: g.turnNo, player: g.player, picked: -1, buying: -1}
	g.arm(t)
	g.turn = t
}

// arm opens a turn for input, wherever the token is resting.
func (g *kgame) arm(t *turn) {
	t.busy = false
	t.Must = nil
	can := []string{"roll"}
	tl := g.tiles[t.player.OnTile]
	if tl.prop != nil && tl.prop.Bought {
		can = append(can, "setprice:*", "settax:*")
	}
	t.Can = can
}

// rearm ends the asynchronous part of a turn and starts the next one.
func (g *kgame) rearm(t *turn) {
	if g.status != StatusPlaying {
		return
	}
	g.nextTurn()
}

func (g *kgame) ownedTiles() []*tile {
	var out []*tile
	for _, tl := range g.tiles {
		if tl.prop != nil && tl.prop.Bought {
			out = append(out, tl)
		}
	}
	return out
}

func (g *kgame) addEventf(format string, a ...interface{}) {
	g.addEventAt(g.player.OnTile, format, a...)
}

func (g *kgame) addEventAt(where int, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	g.news = append(g.news, game.Change{Who: g.player.Name, What: msg, Where: where})
}

func (g *kgame) takeNews() []game.Change {
	news := g.news
	g.news = nil
	return news
}

func (g *kgame) playFx(item string, where int) {
	g.sink.Play(Visual{Item: item, Tile: where, For: time.Second})
}
