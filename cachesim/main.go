// Command cachesim replays a memory-address trace through a set-associative
// cache and reports the three-C miss breakdown.
package main

import (
	"log"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/cachesim/cachesim/cmd"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("cachesim: ")

	cmd.Execute()

	atexit.Exit(0)
}
