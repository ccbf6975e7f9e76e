package main

import (
	"fmt"
	"os"

	"github.com/jmpunzalan/kurakot/client"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <server> <game> <name> [colour]\n", os.Args[0])
		os.Exit(2)
	}

	server := os.Args[1]
	gameId := os.Args[2]
	name := os.Args[3]

	// no colour means just watching
	colour := ""
	if len(os.Args) > 4 {
		colour = os.Args[4]
	}

	c := client.NewClient(gameId, name, colour, server)
	err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
