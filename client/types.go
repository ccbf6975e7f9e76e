package client

import (
	"github.com/jmpunzalan/kurakot/game"
	"github.com/jmpunzalan/kurakot/kurakot"
)

// turnState mirrors game.TurnState with the custom part typed.
type turnState struct {
	Number int    `json:"number"`
	Player string `json:"player"`
	OnTile int    `json:"onTile"`
	Busy   bool   `json:"busy"`

	Can  []string `json:"can"`
	Must []string `json:"must"`

	Custom kurakot.TurnInfo `json:"custom"`
}

// gameState mirrors game.GameState with the custom parts typed.
type gameState struct {
	Status  string        `json:"status"`
	Reason  string        `json:"reason"`
	Players []playerState `json:"players"`

	Custom []kurakot.TileInfo `json:"custom"`
}

type playerState struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`

	Custom kurakot.PlayerInfo `json:"custom"`
}

type gameUpdate struct {
	News []game.Change `json:"news"`
	gameState
}
