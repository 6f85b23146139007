// Command ema-avatar drives a 3D avatar with a streaming LLM.
//
// Usage:
//
//	ema-avatar [--config file] <command> [args]
//
// Commands:
//
//	chat    - talk to the avatar from the terminal, by keyboard or voice
//	ask     - print the speak calls one reply would make
//	config  - inspect the configuration
package main

import (
	"fmt"
	"os"

	"github.com/koscakluka/ema-avatar/cmd/ema-avatar/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
