package server

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jmpunzalan/kurakot/comms"
)

// decodeUp turns one client message into a core message. Clients can
// send junk; that is an error here, never a panic.
func decodeUp(game, who string, msg comms.Message) (interface{}, error) {
	f := msg.Head.Fields()
	switch f[0] {
	case "text":
		var text string
		if err := comms.Decode(msg, &text); err != nil {
			return nil, err
		}
		return textFromUser{game, who, text}, nil
	case "request":
		if len(f) < 3 {
			return nil, fmt.Errorf("bad request head: %s", msg.Head)
		}
		return requestFromUser{game, who, f[1], f[2:], []byte(msg.Data)}, nil
	default:
		return nil, fmt.Errorf("junk from client: %v", f)
	}
}

func encodeDown(down interface{}) (comms.Message, error) {
	switch msg := down.(type) {
	case comms.Message:
		// send preformatted message
		return msg, nil
	case responseToUser:
		// send response
		cmsg, err := comms.Encode("response:"+msg.ID, msg.Body)
		if err != nil {
			log.Warn().Err(err).Msg("encode error")
			return comms.Message{}, err
		}
		return cmsg, nil
	case toSend:
		// send anything
		cmsg, err := comms.Encode(msg.mtype, msg.data)
		if err != nil {
			log.Warn().Err(err).Msg("encode error")
			return comms.Message{}, err
		}
		return cmsg, nil
	default:
		log.Warn().Msgf("trying to send nonsense: %v", msg)
		return comms.Message{}, fmt.Errorf("cannot send: %#v", msg)
	}
}
