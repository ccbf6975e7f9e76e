package server

// GameOptions tweak a new session, e.g. scripted dice or a fixed seed.
type GameOptions map[string]string

type listGamesMsg struct {
	Rep chan []string
}

type createGameMsg struct {
	Name    string
	Options GameOptions
	Rep     chan error
}

type queryGameMsg struct {
	Name string
	Rep  chan interface{}
}

type deleteGameMsg struct {
	Name string
	Rep  chan error
}

type connectMsg struct {
	Game   string
	Name   string
	Colour string
	Client clientBundle
	Rep    chan error
}

type disconnectMsg struct {
	Game string
	Name string
}

type textFromUser struct {
	Game string
	Who  string
	Text string
}

type requestFromUser struct {
	Game string
	Who  string
	ID   string
	Cmd  []string
	Body interface{}
}

type responseToUser struct {
	ID   string
	Body interface{}
}

type tickMsg struct{}

type toSend struct {
	mtype string
	data  interface{}
}

type clientBundle struct {
	downCh chan interface{}
}
