package comms

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// EncodeConnectString packs the identity of one connection into an
// opaque code that can be pasted into a client.
func EncodeConnectString(gameId, playerId, colour string) string {
	s := fmt.Sprintf("%s//%s//%s", gameId, playerId, colour)
	c := base64.StdEncoding.EncodeToString([]byte(s))
	return c
}

func DecodeConnectString(code string) (gameId, playerId, colour string, err error) {
	s, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return "", "", "", errors.New("bad code")
	}
	ss := strings.Split(string(s), "//")
	if len(ss) != 3 {
		return "", "", "", errors.New("bad code")
	}
	return ss[0], ss[1], ss[2], nil
}
