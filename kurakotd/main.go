package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jmpunzalan/kurakot/game"
	"github.com/jmpunzalan/kurakot/kurakot"
	"github.com/jmpunzalan/kurakot/server"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file")
	}

	tcpAddr := envOr("KURAKOT_ADDR", ":1201")
	webAddr := envOr("KURAKOT_WEB_ADDR", ":8080")

	data := kurakot.LoadJson(".")

	makeGame := func(options server.GameOptions) (game.Game, error) {
		opts, err := gameOptions(options)
		if err != nil {
			return nil, err
		}
		return kurakot.NewGame(data, opts), nil
	}

	loadGame := func(r io.Reader) (game.Game, error) {
		opts, _ := gameOptions(nil)
		return kurakot.NewFromSaved(data, r, opts)
	}

	srv := server.NewServer(makeGame, loadGame, server.Config{
		TCPAddr: tcpAddr,
		WebAddr: webAddr,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return srv.Run(gctx)
	})

	err := grp.Wait()
	log.Info().Err(err).Msg("server return")
	if err != nil && err != context.Canceled {
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func gameOptions(options server.GameOptions) (kurakot.Options, error) {
	opts := kurakot.Options{
		Sink: logSink{log.With().Str("part", "fx").Logger()},
		Log:  log.With().Str("part", "game").Logger(),
	}

	if s, ok := options["seed"]; ok {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return kurakot.Options{}, fmt.Errorf("bad seed: %w", err)
		}
		opts.Seed = seed
	}

	if options["dice"] == "admin" {
		opts.Dice = &kurakot.AdminDice{}
	}

	return opts, nil
}

// logSink narrates presentation events into the server log. The web
// front end gets its narrative from news updates instead.
type logSink struct {
	log zerolog.Logger
}

func (s logSink) Play(v kurakot.Visual) {
	s.log.Info().Int("tile", v.Tile).Msgf("fx: %s", v.Item)
}

func (s logSink) Emote(e kurakot.Emotion) {
	s.log.Info().Int("tile", e.Tile).Msgf("customer is %s", e.Feeling)
}
