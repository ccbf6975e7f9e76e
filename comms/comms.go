package comms

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Head is the routing part of a message, e.g. "update" or
// "request:1:play". Fields are separated by colons.
type Head string

// Fields splits the head.
func (h Head) Fields() []string {
	return strings.Split(string(h), ":")
}

// Message is one unit on the wire: a head and a JSON body.
type Message struct {
	Head Head            `json:"head"`
	Data json.RawMessage `json:"data"`
}

// Type is just the first field of the head.
func (m Message) Type() string {
	return m.Head.Fields()[0]
}

// Encode makes a message out of anything JSON-able.
func Encode(head string, v interface{}) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, err
	}
	return Message{Head: Head(head), Data: data}, nil
}

// Decode unmarshals a message body.
func Decode(m Message, v interface{}) error {
	return json.Unmarshal(m.Data, v)
}

// Encoder writes messages to a stream, one per line: the head, a
// space, then the JSON body. Heads never contain spaces.
type Encoder struct {
	w *bufio.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

func (e *Encoder) Encode(head string, v interface{}) error {
	msg, err := Encode(head, v)
	if err != nil {
		return err
	}
	return e.Send(msg)
}

func (e *Encoder) Send(msg Message) error {
	if strings.ContainsAny(string(msg.Head), " \n") {
		return fmt.Errorf("bad head: %s", msg.Head)
	}
	data := msg.Data
	if len(data) == 0 {
		data = []byte("null")
	}
	if bytes.ContainsRune(data, '\n') {
		// recompact, so the framing survives
		buf := &bytes.Buffer{}
		if err := json.Compact(buf, data); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	if _, err := e.w.WriteString(string(msg.Head)); err != nil {
		return err
	}
	if err := e.w.WriteByte(' '); err != nil {
		return err
	}
	if _, err := e.w.Write(data); err != nil {
		return err
	}
	if err := e.w.WriteByte('\n'); err != nil {
		return err
	}
	return e.w.Flush()
}

// Decoder reads messages written by Encoder.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

func (d *Decoder) Decode() (Message, error) {
	line, err := d.r.ReadString('\n')
	if err != nil {
		return Message{}, err
	}
	line = strings.TrimSuffix(line, "\n")

	head, body, found := strings.Cut(line, " ")
	if !found {
		return Message{}, errors.New("unframed message")
	}

	return Message{Head: Head(head), Data: json.RawMessage(body)}, nil
}

// CommsError carries a game error code over the wire.
type CommsError struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

func (e *CommsError) Error() string {
	return e.Msg
}

// WrapError turns any error into a sendable one, keeping the code if
// there is one.
func WrapError(err error) *CommsError {
	if err == nil {
		return nil
	}
	code := "ERROR"
	if ec, ok := err.(interface{ ErrorCode() string }); ok {
		code = ec.ErrorCode()
	}
	return &CommsError{Code: code, Msg: err.Error()}
}

// ConnectResponse is the first message down.
type ConnectResponse struct {
	Game string      `json:"game"`
	Name string      `json:"name"`
	Err  *CommsError `json:"error"`
}
