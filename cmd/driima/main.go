package main

import (
	"fmt"
	"os"

	"github.com/driima/chat/internal/command"
)

func main() {
	if err := command.Execute(); err != nil {
		// Commands print their own errors; cobra usage errors land here.
		if !command.IsReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
