package game

import (
	"testing"
)

func TestCommands_match(t *testing.T) {
	cp := CommandPattern("setprice:*")
	args := cp.Match("setprice:150")
	if args == nil {
		t.Errorf("error")
	}
	if len(args) != 2 {
		t.Errorf("error")
	}
	if args[1] != "150" {
		t.Errorf("error")
	}
}

func TestCommands_nomatch(t *testing.T) {
	cp := CommandPattern("pickcard:*")
	args := cp.Match("confirmcard")
	if args != nil {
		t.Errorf("error")
	}
}

func TestCommands_shorter(t *testing.T) {
	// a bare sell names no property, so it is not a sell:*
	cp := CommandPattern("sell:*")
	args := cp.Match("sell")
	if args != nil {
		t.Errorf("error")
	}
}

func TestCommands_longer(t *testing.T) {
	cp := CommandPattern("answer:*")
	args := cp.Match("answer:2:extra:bits")
	if args == nil {
		t.Errorf("error")
	}
	if len(args) != 4 {
		t.Errorf("error")
	}
	if args[2] != "extra" {
		t.Errorf("error")
	}
}

func TestCommands_longer2(t *testing.T) {
	cp := CommandPattern("settax:*")
	args := cp.Match("settax:35:")
	if args == nil {
		t.Errorf("error")
	}
	if len(args) != 3 {
		t.Errorf("error")
	}
	if args[2] != "" {
		t.Errorf("error")
	}
}

func TestCommands_first(t *testing.T) {
	if f := CommandString("sell:3").First(); f != "sell" {
		t.Errorf("bad first: %v", f)
	}
	if f := CommandPattern("pickcard:*").First(); f != "pickcard" {
		t.Errorf("bad first: %v", f)
	}
}
