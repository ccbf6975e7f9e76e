package comms

import (
	"bytes"
	"testing"
)

func TestEncDec(t *testing.T) {
	var network bytes.Buffer
	enc := NewEncoder(&network)
	dec := NewDecoder(&network)

	err := enc.Encode("test", "data")
	if err != nil {
		t.Errorf("enc error: %v", err)
	}

	msg, err := dec.Decode()
	if err != nil {
		t.Errorf("dec error: %v", err)
	}
	if t0 := msg.Type(); t0 != "test" {
		t.Errorf("bad decode: %v", t0)
	}
	if string(msg.Data) != "\"data\"" {
		t.Errorf("bad decode: %v", msg.Data)
	}
}

func TestEncDecMany(t *testing.T) {
	var network bytes.Buffer
	enc := NewEncoder(&network)
	dec := NewDecoder(&network)

	if err := enc.Encode("turn", map[string]int{"number": 3}); err != nil {
		t.Errorf("enc error: %v", err)
	}
	if err := enc.Encode("update:news", []string{"a", "b"}); err != nil {
		t.Errorf("enc error: %v", err)
	}

	msg, _ := dec.Decode()
	if msg.Type() != "turn" {
		t.Errorf("bad type: %v", msg.Type())
	}
	msg, _ = dec.Decode()
	if f := msg.Head.Fields(); len(f) != 2 || f[1] != "news" {
		t.Errorf("bad head: %v", msg.Head)
	}
	var out []string
	if err := Decode(msg, &out); err != nil || len(out) != 2 {
		t.Errorf("bad body: %v %v", out, err)
	}
}

func TestBadHead(t *testing.T) {
	var network bytes.Buffer
	enc := NewEncoder(&network)

	if err := enc.Send(Message{Head: "oh no", Data: []byte("1")}); err == nil {
		t.Errorf("head with space should not encode")
	}
}

func TestWrapError(t *testing.T) {
	cerr := WrapError(errGameOverTest{})
	if cerr.Code != "GAMEOVER" {
		t.Errorf("code not kept: %v", cerr.Code)
	}
}

type errGameOverTest struct{}

func (errGameOverTest) Error() string     { return "the game is over" }
func (errGameOverTest) ErrorCode() string { return "GAMEOVER" }
