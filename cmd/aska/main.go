package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/aska-cli/internal/adapters/driving/cli"
)

func main() {
	// A .env in the working directory is optional.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
