// File path: cmd/famapi/main.go
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/famnet/famapi/internal/cli"
	"github.com/famnet/famapi/internal/common"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("famapi: .env file not loaded", "error", err)
	} else {
		logger.Info("famapi: environment loaded from .env")
	}

	if err := cli.NewRootCommand(os.Stdout).Execute(); err != nil {
		logger.Error("famapi: command failed", "error", err)
		os.Exit(1)
	}
}
