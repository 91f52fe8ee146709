package main

import (
	"os"

	"github.com/charmbracelet/log"

	"netfence/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Error("netfence terminated", "error", err)
		os.Exit(1)
	}
}
