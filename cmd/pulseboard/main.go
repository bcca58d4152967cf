package main

import (
	"os"

	"github.com/pulseboard/pulseboard/pulseservice"
)

func main() {
	if err := pulseservice.Run(); err != nil {
		os.Exit(1)
	}
}
