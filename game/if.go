package game

import (
	"io"
	"time"
)

// TurnState is what the current player can see about their own turn.
type TurnState struct {
	Number int    `json:"number"`
	Player string `json:"player"`

	// OnTile is the board index the token is resting on.
	OnTile int `json:"onTile"`
	// Busy means asynchronous turn work is still in flight, so no
	// command will be accepted until the game re-arms.
	Busy bool `json:"busy"`

	// things that the player can do now
	Can []string `json:"can"`
	// things that must be done before play continues
	Must []string `json:"must"`

	Custom interface{} `json:"custom"`
}

// GameState is a summary of the whole session.
type GameState struct {
	Status  string        `json:"status"`
	Reason  string        `json:"reason,omitempty"`
	Players []PlayerState `json:"players"`

	Custom interface{} `json:"custom"`
}

// PlayerState is a summary of one player.
type PlayerState struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`

	Custom interface{} `json:"custom"`
}

// GameUpdate is sent to everyone when anything has happened.
type GameUpdate struct {
	News []Change `json:"news"`
	GameState
}

// Change is news about something that happened.
type Change struct {
	Who   string `json:"who"`
	What  string `json:"what"`
	Where int    `json:"where"`
}

// PlayResult is everything that fell out of one command.
type PlayResult struct {
	Response interface{}
	News     []Change
	Next     TurnState
}

type Game interface {
	// activities
	AddPlayer(name string, colour string) error
	Start() (TurnState, error)
	Play(player string, c Command) (PlayResult, error)

	// Advance moves the game's internal clock forward, running any
	// scheduled work that falls due. The host calls this; nothing else
	// makes time pass.
	Advance(d time.Duration) (TurnState, []Change)

	// general state
	GetGameState() GameState
	GetTurnState() TurnState

	// admin
	WriteOut(io.Writer) error
}
