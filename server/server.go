package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jmpunzalan/kurakot/comms"
	"github.com/jmpunzalan/kurakot/game"
)

type MakeGameFunc func(GameOptions) (game.Game, error)

type LoadGameFunc func(io.Reader) (game.Game, error)

// Config is where the gateways listen.
type Config struct {
	TCPAddr string
	WebAddr string
}

// Server hosts any number of game sessions in one process.
type Server interface {
	Run(ctx context.Context) error
}

// tickInterval is how often the sessions' clocks are advanced.
const tickInterval = 250 * time.Millisecond

func NewServer(makeGame MakeGameFunc, loadGame LoadGameFunc, cfg Config) Server {
	games := map[string]*oneGame{}
	files, err := os.ReadDir(".")
	if err != nil {
		log.Error().Err(err).Msg("not loading anything")
	} else {
		for _, f := range files {
			fname := f.Name()
			if strings.HasPrefix(fname, "state-") && strings.HasSuffix(fname, ".json") {
				gameId := fname[6 : len(fname)-5]
				log := log.With().Str("game", gameId).Logger()

				f, err := os.Open(fname)
				if err != nil {
					log.Error().Err(err).Msg("cannot open state file")
					continue
				}

				g, err := loadGame(f)
				f.Close()
				if err != nil {
					log.Error().Err(err).Msg("cannot restore state")
					continue
				}

				games[gameId] = &oneGame{
					name:    gameId,
					game:    g,
					clients: map[string]*clientBundle{},
					log:     log,
				}

				log.Info().Msg("loaded state")
			}
		}
	}

	coreCh := make(chan interface{}, 100)
	return &server{
		cfg:      cfg,
		makeGame: makeGame,
		games:    games,
		coreCh:   coreCh,
	}
}

type oneGame struct {
	name    string
	game    game.Game
	turn    *game.TurnState
	dirty   bool
	clients map[string]*clientBundle
	log     zerolog.Logger
}

type server struct {
	cfg      Config
	makeGame MakeGameFunc
	games    map[string]*oneGame
	coreCh   chan interface{}
}

func (s *server) Run(ctx context.Context) error {
	log.Info().Msg("server running")
	defer log.Info().Msg("server stopping")

	if err := runTcpGateway(ctx, s, s.cfg.TCPAddr); err != nil {
		return err
	}
	if err := runWebGateway(ctx, s, s.cfg.WebAddr); err != nil {
		return err
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	// this is the server's main loop; all session state belongs to it
	for {
		var in interface{}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			in = tickMsg{}
		case in = <-s.coreCh:
		}

		if _, ok := in.(tickMsg); ok {
			for _, g := range s.games {
				s.tickGame(g)
			}
			continue
		}

		g, news := s.processMessage(in)
		s.pushOut(g, news)
	}
}

// tickGame moves one session's clock. Anything that fell due reports
// itself as news.
func (s *server) tickGame(g *oneGame) {
	turn, news := g.game.Advance(tickInterval)
	if len(news) > 0 {
		g.turn = &turn
		g.dirty = true
	}
	s.pushOut(g, news)
}

// pushOut is the after-work of every core message: save if dirty,
// broadcast news, nudge the current player.
func (s *server) pushOut(g *oneGame, news []game.Change) {
	if g == nil {
		return
	}

	if g.dirty {
		s.saveGame(g)
		g.dirty = false
	}

	if len(news) > 0 {
		update := game.GameUpdate{News: news, GameState: g.game.GetGameState()}
		msg, err := comms.Encode("update", update)
		if err != nil {
			g.log.Error().Err(err).Msg("failed to encode update")
			return
		}
		s.broadcast(g, msg, "")
	}

	if g.turn != nil {
		c, ok := g.clients[g.turn.Player]
		if !ok {
			g.log.Debug().Msgf("current player not connected: %s", g.turn.Player)
			return
		}

		msg, err := comms.Encode("turn", g.turn)
		if err != nil {
			g.log.Error().Err(err).Msg("failed to encode turn")
			return
		}

		select {
		case c.downCh <- msg:
			g.turn = nil
		default:
			// client lagging
			g.log.Info().Msgf("client lagging: %s", g.turn.Player)
		}
	}
}

func (s *server) processMessage(in interface{}) (*oneGame, []game.Change) {
	switch msg := in.(type) {
	case listGamesMsg:
		list := []string{}
		for gameId := range s.games {
			list = append(list, gameId)
		}
		msg.Rep <- list
		return nil, nil
	case createGameMsg:
		log := log.With().Str("game", msg.Name).Logger()

		if _, exists := s.games[msg.Name]; exists {
			msg.Rep <- errors.New("name conflict")
			return nil, nil
		}

		game, err := s.makeGame(msg.Options)
		if err != nil {
			msg.Rep <- err
			return nil, nil
		}

		gameholder := &oneGame{
			name:    msg.Name,
			dirty:   true,
			game:    game,
			clients: map[string]*clientBundle{},
			log:     log,
		}

		s.games[msg.Name] = gameholder

		log.Info().Msg("created")

		msg.Rep <- nil
		return gameholder, nil
	case queryGameMsg:
		game, exists := s.games[msg.Name]
		if !exists {
			msg.Rep <- nil
			return nil, nil
		}

		msg.Rep <- game.game.GetGameState()
		return nil, nil
	case deleteGameMsg:
		game, exists := s.games[msg.Name]
		if !exists {
			msg.Rep <- nil
			return nil, nil
		}

		// XXX - doesn't disconnect anyone
		delete(s.games, msg.Name)
		s.wipeGame(game)

		log.Info().Msg("deleted")

		msg.Rep <- nil
		return nil, nil
	case connectMsg:
		g, ok := s.games[msg.Game]
		if !ok {
			msg.Rep <- errors.New("game not found")
			return nil, nil
		}

		if msg.Colour == "" {
			// just watching
			g.clients[msg.Name] = &msg.Client
			msg.Rep <- nil
			return nil, nil
		}

		err := g.game.AddPlayer(msg.Name, msg.Colour)
		if err == game.ErrPlayerExists {
			// assume this is the player rejoining
			g.clients[msg.Name] = &msg.Client
			msg.Rep <- nil

			// if it's this player's turn, arrange for a new turn message
			turn := g.game.GetTurnState()
			if turn.Player == msg.Name {
				g.turn = &turn
			}

			return g, []game.Change{{
				Who:  msg.Name,
				What: "reconnects",
			}}
		} else if err != nil {
			msg.Rep <- err
		} else {
			// new player
			g.clients[msg.Name] = &msg.Client
			msg.Rep <- nil

			g.dirty = true

			return g, []game.Change{{
				Who:  msg.Name,
				What: "joins",
			}}
		}
	case disconnectMsg:
		g, ok := s.games[msg.Game]
		if !ok {
			return nil, nil
		}

		g.log.Info().Msgf("client gone: %s", msg.Name)

		delete(g.clients, msg.Name)
		return g, []game.Change{{
			Who:  msg.Name,
			What: "disconnects",
		}}
	case textFromUser:
		return s.handleText(msg)
	case requestFromUser:
		g, ok := s.games[msg.Game]
		if !ok {
			return nil, nil
		}

		news, turn := s.handleRequest(msg)
		if turn != nil {
			g.turn = turn
			g.dirty = true
		}

		return g, news
	default:
		log.Warn().Msgf("nonsense in core: %#v", in)
	}
	return nil, nil
}

func (s *server) Connect(game, name, colour string, client clientBundle) error {
	resCh := make(chan error)
	s.coreCh <- connectMsg{game, name, colour, client, resCh}
	return <-resCh
}

func (s *server) ListGames() []string {
	resCh := make(chan []string)
	s.coreCh <- listGamesMsg{resCh}
	return <-resCh
}

func (s *server) CreateGame(name string, options GameOptions) error {
	resCh := make(chan error)
	s.coreCh <- createGameMsg{name, options, resCh}
	return <-resCh
}

func (s *server) QueryGame(name string) interface{} {
	resCh := make(chan interface{})
	s.coreCh <- queryGameMsg{name, resCh}
	return <-resCh
}

func (s *server) DeleteGame(name string) error {
	resCh := make(chan error)
	s.coreCh <- deleteGameMsg{name, resCh}
	return <-resCh
}

func (s *server) saveFileName(g *oneGame) string {
	return fmt.Sprintf("state-%s.json", g.name)
}

func (s *server) saveGame(g *oneGame) {
	outFile, err := os.Create(s.saveFileName(g))
	if err != nil {
		g.log.Error().Err(err).Msg("can't save")
		return
	}
	defer outFile.Close()

	g.game.WriteOut(outFile)
}

func (s *server) wipeGame(g *oneGame) {
	err := os.Remove(s.saveFileName(g))
	if err != nil {
		g.log.Error().Err(err).Msg("can't delete")
		return
	}
}

func (s *server) handleText(in textFromUser) (*oneGame, []game.Change) {
	g, ok := s.games[in.Game]
	if !ok {
		return nil, nil
	}

	news := []game.Change{
		{Who: in.Who, What: "says " + in.Text},
	}

	return g, news
}

func (s *server) handleRequest(in requestFromUser) ([]game.Change, *game.TurnState) {
	g, ok := s.games[in.Game]
	if !ok {
		return nil, nil
	}

	f := s.parseRequest(g, in)
	res, news, turn := f()

	cres := responseToUser{ID: in.ID, Body: res}
	if c, ok := g.clients[in.Who]; ok {
		select {
		case c.downCh <- cres:
		default:
			// client lagging
		}
	}

	return news, turn
}

type requestFunc func() (forUser interface{}, forEveryone []game.Change, forServer *game.TurnState)

func (s *server) parseRequest(g *oneGame, in requestFromUser) requestFunc {
	f := in.Cmd
	switch f[0] {
	case "start":
		return func() (interface{}, []game.Change, *game.TurnState) {
			turn, err := g.game.Start()
			if err != nil {
				return game.StartResultJSON{
					Err: comms.WrapError(err),
				}, nil, nil
			}
			return game.StartResultJSON{}, []game.Change{{What: "the game starts"}}, &turn
		}
	case "query":
		f = f[1:]
		switch f[0] {
		case "game":
			return func() (interface{}, []game.Change, *game.TurnState) {
				return g.game.GetGameState(), nil, nil
			}
		default:
			return func() (interface{}, []game.Change, *game.TurnState) {
				return comms.WrapError(fmt.Errorf("unknown query: %v", f)), nil, nil
			}
		}
	case "play":
		data, ok := in.Body.([]byte)
		if !ok {
			return func() (interface{}, []game.Change, *game.TurnState) {
				return game.PlayResultJSON{Err: comms.WrapError(errors.New("bad data"))}, nil, nil
			}
		}

		gameCommand := game.Command{}
		if err := json.Unmarshal(data, &gameCommand); err != nil {
			// bad command
			return func() (interface{}, []game.Change, *game.TurnState) {
				return comms.WrapError(fmt.Errorf("bad body: %w", err)), nil, nil
			}
		}

		return func() (interface{}, []game.Change, *game.TurnState) {
			res, err := g.game.Play(in.Who, gameCommand)
			if err != nil {
				return game.PlayResultJSON{Err: comms.WrapError(err)}, nil, nil
			}

			return game.PlayResultJSON{Msg: res.Response}, res.News, &res.Next
		}
	default:
		return func() (interface{}, []game.Change, *game.TurnState) {
			return comms.WrapError(fmt.Errorf("unknown request: %v", in.Cmd)), nil, nil
		}
	}
}

func (s *server) broadcast(g *oneGame, msg comms.Message, skip string) {
	for n, c := range g.clients {
		if n == skip {
			continue
		}
		select {
		case c.downCh <- msg:
		default:
			// client lagging
			g.log.Info().Msgf("client lagging: %s", n)
		}
	}
}
