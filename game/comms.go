package game

import (
	"errors"

	"github.com/jmpunzalan/kurakot/comms"
)

// ReError matches error codes back to error objects
func ReError(cerr *comms.CommsError) error {
	if cerr == nil {
		return nil
	}

	switch cerr.Code {
	case "PLAYEREXISTS":
		return ErrPlayerExists
	case "ALREADYSTARTED":
		return ErrAlreadyStarted
	case "NOTSTARTED":
		return ErrNotStarted
	case "NOTYOURTURN":
		return ErrNotYourTurn
	case "NOTNOW":
		return ErrNotNow
	case "GAMEOVER":
		return ErrGameOver
	case "BADREQUEST":
		return ErrBadRequest
	default:
		return errors.New(cerr.Error())
	}
}

type StartResultJSON struct {
	Err *comms.CommsError `json:"error"`
}

type PlayResultJSON struct {
	Msg interface{}       `json:"message"`
	Err *comms.CommsError `json:"error"`
}
