package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"

	rl "github.com/chzyer/readline"

	"github.com/jmpunzalan/kurakot/comms"
	"github.com/jmpunzalan/kurakot/game"
)

const (
	RED     = "[31m"
	GREEN   = "[32m"
	YELLOW  = "[33m"
	BLUE    = "[34m"
	MAGENTA = "[35m"
	CYAN    = "[36m"
	WHITE   = "[37m"
)

func col(s string) string {
	switch s {
	case "red":
		return RED
	case "green":
		return GREEN
	case "yellow":
		return YELLOW
	case "blue":
		return BLUE
	case "purple":
		return MAGENTA
	default:
		return "[0m"
	}
}

type Client interface {
	Run() error
}

func NewClient(gameId, name, colour, server string) Client {
	updateCh := make(chan string)
	locCh := make(chan reqRep)
	return &client{
		gameId:   gameId,
		name:     name,
		colour:   colour,
		server:   server,
		locCh:    locCh,
		turn:     NewBox(),
		state:    NewBox(),
		updateCh: updateCh,
		reqs:     map[string]reqRep{},
	}
}

type reqRep struct {
	cmd  string
	body interface{}
	rep  chan interface{}
}

type client struct {
	gameId string
	name   string
	colour string
	server string

	locCh  chan reqRep
	upCh   chan comms.Message
	downCh chan comms.Message
	turn   *Box
	state  *Box

	updateCh chan string
	updates  []string

	reqNo int
	reqs  map[string]reqRep
}

func (c *client) Run() error {
	conn, err := net.Dial("tcp", c.server)
	if err != nil {
		return err
	}

	upStream := comms.NewEncoder(conn)
	downStream := comms.NewDecoder(conn)

	ccode := comms.EncodeConnectString(c.gameId, c.name, c.colour)
	err = upStream.Encode("connect:"+ccode, nil)
	if err != nil {
		return err
	}

	msg1, err := downStream.Decode()
	if err != nil {
		return err
	}
	res1 := comms.ConnectResponse{}
	err = comms.Decode(msg1, &res1)
	if err != nil {
		return err
	}
	if err := game.ReError(res1.Err); err != nil {
		return err
	}

	c.upCh = make(chan comms.Message, 1)
	defer close(c.upCh)
	c.downCh = make(chan comms.Message, 1)

	go func() {
		// read upCh, write to conn
	loop:
		for msg := range c.upCh {
			err := upStream.Send(msg)
			if err != nil {
				fmt.Printf("send error: %v\n", err)
				break loop
			}
		}
	}()

	go func() {
		defer close(c.downCh)

		// read conn, write to downCh
	loop:
		for {
			msg, err := downStream.Decode()
			if err != nil {
				if err != io.EOF {
					fmt.Printf("decode error: %v\n", err)
				}
				break loop
			}
			c.downCh <- msg
		}
	}()

	proxy := NewGameProxy(c)

	stopUI, err := c.startUI(proxy)
	if err != nil {
		return err
	}
	defer stopUI()

	// this is the client's main loop
loop:
	for {
		select {
		case rr, ok := <-c.locCh:
			if !ok {
				break loop
			}
			id := strconv.Itoa(c.reqNo)
			c.reqNo++
			msg, err := comms.Encode("request:"+id+":"+rr.cmd, rr.body)
			if err != nil {
				rr.rep <- err
				continue
			}
			c.reqs[id] = rr
			c.upCh <- msg
		case msg, ok := <-c.downCh:
			if !ok {
				fmt.Printf("down channel closed\n")
				break loop
			}

			f := msg.Head.Fields()
			switch f[0] {
			case "turn":
				ts := &turnState{}
				if err := comms.Decode(msg, ts); err != nil {
					fmt.Printf("bad turn message: %v\n", err)
					continue
				}
				c.turn.Put(ts)
			case "update":
				u := gameUpdate{}
				if err := comms.Decode(msg, &u); err != nil {
					fmt.Printf("bad update message: %v\n", err)
					continue
				}
				c.state.Put(&u.gameState)
				for _, n := range u.News {
					c.pushUpdate(formatChange(n))
				}
			case "text":
				var text string
				if err := comms.Decode(msg, &text); err != nil {
					continue
				}
				c.pushUpdate(text)
			case "response":
				id := f[1]
				rr, ok := c.reqs[id]
				if !ok {
					continue
				}
				delete(c.reqs, id)
				rr.rep <- msg
			default:
				fmt.Printf("junk from server: %v\n", f)
			}
		}
	}

	return nil
}

func formatChange(n game.Change) string {
	if n.Who == "" {
		return n.What
	}
	return n.Who + " " + n.What
}

func (c *client) pushUpdate(text string) {
	select {
	case c.updateCh <- text:
		// if ui is following
	default:
		c.updates = append(c.updates, text)
	}
}

func (c *client) getTurn() *turnState {
	t, _ := c.turn.Get().(*turnState)
	return t
}

func (c *client) doRequest(cmd string, body interface{}, resp interface{}) error {
	rr := reqRep{cmd: cmd, body: body, rep: make(chan interface{}, 1)}
	c.locCh <- rr
	switch r := (<-rr.rep).(type) {
	case error:
		return r
	case comms.Message:
		return comms.Decode(r, resp)
	default:
		return fmt.Errorf("no response")
	}
}

func (c *client) printUpdates() {
	updates := c.updates
	c.updates = nil
	for _, u := range updates {
		fmt.Println(">", u)
	}
}

func (c *client) followUpdates() {
	ctx, cancel := signal.NotifyContext(context.TODO(), os.Interrupt)
	defer cancel()
	for {
		select {
		case m := <-c.updateCh:
			fmt.Println(">", m)
		case <-ctx.Done():
			return
		}
	}
}

func (c *client) startUI(g GameClient) (func() error, error) {
	completer := rl.NewPrefixCompleter(
		rl.PcItem("send"),
		rl.PcItem("follow"),
		rl.PcItem("start"),
		rl.PcItem("board"),
		rl.PcItem("me"),
		rl.PcItem("do",
			rl.PcItem("roll"),
			rl.PcItem("buy"),
			rl.PcItem("sell"),
			rl.PcItem("bankrupt"),
			rl.PcItem("pickcard"),
			rl.PcItem("confirmcard"),
			rl.PcItem("reroll"),
			rl.PcItem("answer"),
			rl.PcItem("setprice"),
			rl.PcItem("settax"),
		),
	)

	l, err := rl.NewEx(&rl.Config{
		Prompt:            "» ",
		HistoryFile:       "hist.txt",
		AutoComplete:      completer,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, err
	}

	go func() {
		defer l.Close()
		defer close(c.locCh)
		c.gameRepl(l, g)
	}()

	return l.Close, nil
}

func printTurn(state *turnState) {
	info := state.Custom
	fmt.Printf("Player:  %s\n", state.Player)
	fmt.Printf("Tile:    %s\n", info.Tile)
	fmt.Printf("Budget:  %d\n", info.Budget)
	fmt.Printf("Corrupt: %d\n", info.Corrupt)
	if state.Busy {
		fmt.Printf("Busy:    yes\n")
	}
	if len(state.Can) > 0 {
		fmt.Printf("Can:     %v\n", state.Can)
	}
	if len(state.Must) > 0 {
		fmt.Printf("Must:    %v\n", state.Must)
	}
	if len(info.Offer) > 0 {
		fmt.Printf("Cards:\n")
		for i, card := range info.Offer {
			mark := " "
			if i == info.Picked {
				mark = "*"
			}
			fmt.Printf("\t%s%d: %s - %s\n", mark, i, card.Name, card.Desc)
		}
	}
	if info.Question != nil {
		fmt.Printf("Question: %s\n", info.Question.Prompt)
		for i, o := range info.Question.Options {
			fmt.Printf("\t%d: %s\n", i, o)
		}
	}
	if info.Buying != nil {
		fmt.Printf("For purchase: %s at %d\n", info.Buying.Name, info.Buying.Cost)
	}
	if len(info.ForSale) > 0 {
		fmt.Printf("Could sell:\n")
		for _, s := range info.ForSale {
			fmt.Printf("\t%d: %s for %d\n", s.Tile, s.Name, s.Value)
		}
	}
}

func printBoard(state *gameState) {
	fmt.Printf("Game is %s", state.Status)
	if state.Reason != "" {
		fmt.Printf(" (%s)", state.Reason)
	}
	fmt.Println()
	for i, tile := range state.Custom {
		if tile.Type != "property" {
			fmt.Printf("%2d %s\n", i, tile.Name)
			continue
		}
		owned := " "
		if tile.Bought {
			owned = "o"
		}
		cursed := ""
		if tile.Cursed {
			cursed = " !grabbed"
		}
		fmt.Printf("%2d %s %-20s price %-5d tax %2d%% revenue %-5d%s\n",
			i, owned, tile.Name, tile.MarketPrice, tile.TaxRate, tile.Revenue, cursed)
	}
}

func printPlayer(state playerState) {
	info := state.Custom
	fmt.Printf("Player:  %s\n", state.Name)
	fmt.Printf("Budget:  %d\n", info.Budget)
	fmt.Printf("Corrupt: %d\n", info.Corrupt)
	fmt.Printf("Owned:   %d\n", info.Owned)
	flags := []string{}
	if info.Volunteer {
		flags = append(flags, "volunteers")
	}
	if info.YouthAid {
		flags = append(flags, "youth aid")
	}
	if info.Bayanihan {
		flags = append(flags, "bayanihan")
	}
	if info.SkipTax {
		flags = append(flags, "tax break")
	}
	if info.Ghost {
		flags = append(flags, "ghost employees")
	}
	if len(flags) > 0 {
		fmt.Printf("Holds:   %s\n", strings.Join(flags, ", "))
	}
	if info.ReducedTurns > 0 {
		fmt.Printf("Splurge: %d turns left\n", info.ReducedTurns)
	}
}

func (c *client) gameRepl(l *rl.Instance, g GameClient) error {

	doPlayPrompt := func(s *turnState) {
		number := s.Number
		player := s.Player
		phase := "idle"
		if s.Busy {
			phase = "moving"
		}
		must := ""
		if len(s.Must) > 0 {
			must = " !"
		}
		colour := col(c.colour)
		prompt := fmt.Sprintf("%d \033%s%s|%s%s»\033[0m ", number, colour, player, phase, must)
		l.SetPrompt(prompt)
	}

	doIdlePrompt := func(s *turnState) {
		number := s.Number
		colour := col(c.colour)
		prompt := fmt.Sprintf("%d \033%s»\033[0m ", number, colour)
		l.SetPrompt(prompt)
	}

	for {
		state := c.getTurn()
		if state != nil {
			if state.Player == c.name {
				doPlayPrompt(state)
				if len(state.Must) > 0 {
					fmt.Printf("Tasks: %v\n", state.Must)
				}
			} else {
				doIdlePrompt(state)
			}
		}

		c.printUpdates()

		line, err := l.Readline()
		if err == rl.ErrInterrupt {
			if len(line) == 0 {
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			break
		}

		if line == "i" {
			line = "me"
		} else if line == "b" {
			line = "board"
		} else if line == "f" {
			line = "follow"
		}

		parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
		cmd := parts[0]
		rest := ""
		if len(parts) == 2 {
			rest = parts[1]
		}

		switch cmd {
		case "send":
			msg, err := comms.Encode("text", rest)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			c.upCh <- msg
		case "follow":
			c.printUpdates()
			c.followUpdates()
		case "start":
			err := g.Start()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
		case "board":
			state := gameState{}
			err := g.Query("game", &state)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			printBoard(&state)
		case "me":
			state := gameState{}
			err := g.Query("game", &state)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			for _, p := range state.Players {
				if p.Name == c.name {
					printPlayer(p)
				}
			}
		case "do":
			// "do sell 3" becomes command "sell:3"
			command := strings.Join(strings.Fields(rest), ":")
			if command == "" {
				fmt.Printf("do <command> [args]\n")
				continue
			}

			res, err := g.Play(game.Command{Command: game.CommandString(command)})
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Printf("Result: %s\n", res)
		case "":
			state = c.getTurn()
			if state != nil {
				printTurn(state)
			}
			continue
		default:
			fmt.Printf("unknown\n")
		}
	}

	return nil
}
