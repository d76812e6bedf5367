package main

import (
	"os"

	"github.com/moto-tune/suspension-backend/cmd/suspctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
