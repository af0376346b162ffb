package main

import (
	"os"

	"github.com/Blackwork-AI/Blackwork-Dashboard/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
